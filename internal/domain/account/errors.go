package account

import "errors"

var (
	ErrNotFound              = errors.New("account not found")
	ErrInvalidName           = errors.New("account name is required")
	ErrInvalidType           = errors.New("account type must be personal or business")
	ErrCategoryRequired      = errors.New("Category is required for business accounts")
	ErrDescriptionRequired   = errors.New("Custom description is required for Other category")
	ErrOnlyOwnerDeletes      = errors.New("only the account owner can delete the account")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrDuplicateCategory     = errors.New("a category with this name already exists")
	ErrPersonNotFound        = errors.New("person not found")
	ErrDuplicatePerson       = errors.New("a person with this name already exists")
	ErrRelationshipNotFound  = errors.New("relationship not found")
	ErrDuplicateRelationship = errors.New("these accounts are already linked")
	ErrSelfRelationship      = errors.New("an account cannot be linked to itself")
	ErrOnlyOwnerUnlinks      = errors.New("only the account owner can remove a relationship")
)
