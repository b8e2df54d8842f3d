package account

import (
	"context"

	"cashbook-go/internal/domain/membership"
)

// Repository owns accounts and their nested collections. It also writes the
// owner membership row so account creation commits as one unit.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	// DeleteAccountCascade removes the account with its weeks, expenses,
	// bank accounts, categories, people, memberships and invitations.
	DeleteAccountCascade(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context, accountID string) ([]Category, error)
	GetCategory(ctx context.Context, accountID, id string) (*Category, error)
	FindCategoryByName(ctx context.Context, accountID, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreatePerson(ctx context.Context, p *Person) error
	ListPeople(ctx context.Context, accountID string) ([]Person, error)
	GetPerson(ctx context.Context, accountID, id string) (*Person, error)
	FindPersonByName(ctx context.Context, accountID, name string) (*Person, error)
	DeletePerson(ctx context.Context, id string) error

	CreateRelationship(ctx context.Context, r *Relationship) error
	FindRelationship(ctx context.Context, parentID, childID string) (*Relationship, error)
	GetRelationship(ctx context.Context, accountID, id string) (*Relationship, error)
	ListRelationships(ctx context.Context, accountID string) ([]Relationship, error)
	DeleteRelationship(ctx context.Context, id string) error

	GetMembership(ctx context.Context, accountID, userID string) (*membership.Membership, error)
	CreateMembership(ctx context.Context, m *membership.Membership) error
}
