package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cashbook-go/internal/domain/activity"
	"cashbook-go/internal/domain/membership"
	"cashbook-go/internal/domain/permission"
)

type Service struct {
	repo  Repository
	audit activity.Sink
}

func NewService(repo Repository, audit activity.Sink) *Service {
	return &Service{repo: repo, audit: audit}
}

type CreateInput struct {
	Name              string
	Type              Type
	Category          string
	Subcategory       string
	CustomDescription string
	Currency          string
	Timezone          string
	DisplayName       string
	OvertimeRatio     float64
}

// normalizeCreateInput applies defaults and the per-type preconditions.
// Business accounts must name a category, and the catch-all "Other" category
// must say what it actually is. A nameless business account falls back to its
// description or category.
func normalizeCreateInput(input CreateInput) (CreateInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Subcategory = strings.TrimSpace(input.Subcategory)
	input.CustomDescription = strings.TrimSpace(input.CustomDescription)
	if input.Type == "" {
		input.Type = TypePersonal
	}
	if !input.Type.Valid() {
		return input, ErrInvalidType
	}
	if input.Type == TypeBusiness {
		if input.Category == "" {
			return input, ErrCategoryRequired
		}
		if input.Category == "Other" && input.CustomDescription == "" {
			return input, ErrDescriptionRequired
		}
		if input.Name == "" {
			switch {
			case input.Category == "Other":
				input.Name = input.CustomDescription
			case input.Subcategory != "":
				input.Name = input.Subcategory
			default:
				input.Name = input.Category
			}
		}
	}
	if input.Name == "" {
		return input, ErrInvalidName
	}
	return input, nil
}

// CreateAccount commits the account row, the default categories and the
// creator's owner membership together.
func (s *Service) CreateAccount(ctx context.Context, userID string, input CreateInput) (*Account, error) {
	input, err := normalizeCreateInput(input)
	if err != nil {
		return nil, err
	}

	acc := newAccount(userID, input)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		return createAccountTree(ctx, tx, acc, userID, input.DisplayName)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         acc.ID,
		ActorUserID:       userID,
		ActorDisplayName:  input.DisplayName,
		Action:            activity.ActionAccountCreated,
		TargetDescription: acc.Name,
	})
	return acc, nil
}

func newAccount(userID string, input CreateInput) *Account {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "EUR"
	}
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	ratio := input.OvertimeRatio
	if ratio <= 0 {
		ratio = 1
	}
	owner := userID
	return &Account{
		ID:                uuid.NewString(),
		Name:              input.Name,
		Type:              input.Type,
		Category:          input.Category,
		Subcategory:       input.Subcategory,
		CustomDescription: input.CustomDescription,
		Currency:          currency,
		Timezone:          timezone,
		OvertimeRatio:     ratio,
		OwnerID:           &owner,
		CreatedByUserID:   userID,
	}
}

// createAccountTree writes the account, seeds categories and bootstraps the
// creator as owner inside the caller's transaction.
func createAccountTree(ctx context.Context, tx Repository, acc *Account, userID, displayName string) error {
	if err := tx.CreateAccount(ctx, acc); err != nil {
		return err
	}
	for _, name := range DefaultCategories {
		if err := tx.CreateCategory(ctx, &Category{
			ID:        uuid.NewString(),
			AccountID: acc.ID,
			Name:      name,
		}); err != nil {
			return err
		}
	}
	if displayName == "" {
		displayName = "Owner"
	}
	return tx.CreateMembership(ctx, &membership.Membership{
		ID:          uuid.NewString(),
		AccountID:   acc.ID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        membership.RoleOwner,
		Permissions: permission.All(),
	})
}

func (s *Service) ListAccounts(ctx context.Context, userID string) ([]Account, error) {
	return s.repo.ListAccountsByUser(ctx, userID)
}

func (s *Service) GetAccount(ctx context.Context, userID, accountID string) (*Account, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetAccount(ctx, accountID)
}

type UpdateInput struct {
	Name          *string
	Category      *string
	Subcategory   *string
	Currency      *string
	Timezone      *string
	OvertimeRatio *float64
}

func (s *Service) UpdateAccount(ctx context.Context, userID, accountID string, input UpdateInput) (*Account, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AccessSettings) {
		return nil, membership.ErrNoPermission
	}
	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		acc.Name = name
	}
	if input.Category != nil {
		acc.Category = strings.TrimSpace(*input.Category)
	}
	if input.Subcategory != nil {
		acc.Subcategory = strings.TrimSpace(*input.Subcategory)
	}
	if input.Currency != nil {
		acc.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.Timezone != nil {
		acc.Timezone = strings.TrimSpace(*input.Timezone)
	}
	if input.OvertimeRatio != nil && *input.OvertimeRatio > 0 {
		acc.OvertimeRatio = *input.OvertimeRatio
	}
	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}

	s.audit.Record(activity.Entry{
		AccountID:         accountID,
		ActorUserID:       userID,
		ActorDisplayName:  caller.DisplayName,
		Action:            activity.ActionAccountSettingsChanged,
		TargetDescription: acc.Name,
	})
	return acc, nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID, accountID string) error {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !caller.IsOwner() {
		return ErrOnlyOwnerDeletes
	}
	return s.repo.DeleteAccountCascade(ctx, accountID)
}

func (s *Service) ListCategories(ctx context.Context, userID, accountID string) ([]Category, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, accountID)
}

func (s *Service) AddCategory(ctx context.Context, userID, accountID, name string) (*Category, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AddCategories) {
		return nil, membership.ErrNoPermission
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, err := s.repo.FindCategoryByName(ctx, accountID, name); err == nil {
		return nil, ErrDuplicateCategory
	}

	category := &Category{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Name:      name,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) RemoveCategory(ctx context.Context, userID, accountID, categoryID string) error {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !caller.HasCapability(permission.AddCategories) {
		return membership.ErrNoPermission
	}
	category, err := s.repo.GetCategory(ctx, accountID, categoryID)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, category.ID)
}

func (s *Service) ListPeople(ctx context.Context, userID, accountID string) ([]Person, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListPeople(ctx, accountID)
}

func (s *Service) AddPerson(ctx context.Context, userID, accountID, name string) (*Person, error) {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.AccessSettings) {
		return nil, membership.ErrNoPermission
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, err := s.repo.FindPersonByName(ctx, accountID, name); err == nil {
		return nil, ErrDuplicatePerson
	}

	person := &Person{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Name:      name,
	}
	if err := s.repo.CreatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *Service) RemovePerson(ctx context.Context, userID, accountID, personID string) error {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !caller.HasCapability(permission.AccessSettings) {
		return membership.ErrNoPermission
	}
	person, err := s.repo.GetPerson(ctx, accountID, personID)
	if err != nil {
		return err
	}
	return s.repo.DeletePerson(ctx, person.ID)
}

// CreateDownwardAccount creates a child account under parentID. The caller
// becomes owner of the child regardless of their role on the parent.
func (s *Service) CreateDownwardAccount(ctx context.Context, userID, parentID string, input CreateInput) (*Account, error) {
	caller, err := s.repo.GetMembership(ctx, parentID, userID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.CreateAccountDownward) {
		return nil, membership.ErrNoPermission
	}
	input, err = normalizeCreateInput(input)
	if err != nil {
		return nil, err
	}

	child := newAccount(userID, input)
	child.ParentAccountID = &parentID
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := createAccountTree(ctx, tx, child, userID, input.DisplayName); err != nil {
			return err
		}
		return tx.CreateRelationship(ctx, &Relationship{
			ID:               uuid.NewString(),
			ParentAccountID:  parentID,
			ChildAccountID:   child.ID,
			RelationshipType: RelationshipDownward,
			AccessLevel:      AccessFull,
			CreatedByUserID:  userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}

// LinkUpwardAccount attaches an existing child to a parent. Linking grants
// no access to the parent, the caller must already be a member there.
func (s *Service) LinkUpwardAccount(ctx context.Context, userID, childID, parentID string, access AccessLevel) (*Relationship, error) {
	if childID == parentID {
		return nil, ErrSelfRelationship
	}
	caller, err := s.repo.GetMembership(ctx, childID, userID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCapability(permission.CreateAccountUpward) {
		return nil, membership.ErrNoPermission
	}
	if _, err := s.repo.GetMembership(ctx, parentID, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAccount(ctx, parentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindRelationship(ctx, parentID, childID); err == nil {
		return nil, ErrDuplicateRelationship
	}
	if access == "" {
		access = AccessView
	}

	rel := &Relationship{
		ID:               uuid.NewString(),
		ParentAccountID:  parentID,
		ChildAccountID:   childID,
		RelationshipType: RelationshipUpward,
		AccessLevel:      access,
		CreatedByUserID:  userID,
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		child, err := tx.GetAccount(ctx, childID)
		if err != nil {
			return err
		}
		child.ParentAccountID = &parentID
		if err := tx.UpdateAccount(ctx, child); err != nil {
			return err
		}
		return tx.CreateRelationship(ctx, rel)
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// LinkSidewaysAccount needs only membership in both accounts, no specific
// capability. Known gap: this is the weakest gate in the model, kept as-is
// pending a product decision.
func (s *Service) LinkSidewaysAccount(ctx context.Context, userID, accountA, accountB string, access AccessLevel) (*Relationship, error) {
	if accountA == accountB {
		return nil, ErrSelfRelationship
	}
	if _, err := s.repo.GetMembership(ctx, accountA, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetMembership(ctx, accountB, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindRelationship(ctx, accountA, accountB); err == nil {
		return nil, ErrDuplicateRelationship
	}
	if access == "" {
		access = AccessView
	}

	rel := &Relationship{
		ID:               uuid.NewString(),
		ParentAccountID:  accountA,
		ChildAccountID:   accountB,
		RelationshipType: RelationshipSideways,
		AccessLevel:      access,
		CreatedByUserID:  userID,
	}
	if err := s.repo.CreateRelationship(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

func (s *Service) ListRelationships(ctx context.Context, userID, accountID string) ([]Relationship, error) {
	if _, err := s.repo.GetMembership(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListRelationships(ctx, accountID)
}

func (s *Service) RemoveRelationship(ctx context.Context, userID, accountID, relationshipID string) error {
	caller, err := s.repo.GetMembership(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !caller.IsOwner() {
		return ErrOnlyOwnerUnlinks
	}
	rel, err := s.repo.GetRelationship(ctx, accountID, relationshipID)
	if err != nil {
		return err
	}
	return s.repo.DeleteRelationship(ctx, rel.ID)
}
