package account

import "time"

type Type string

const (
	TypePersonal Type = "personal"
	TypeBusiness Type = "business"
)

func (t Type) Valid() bool {
	return t == TypePersonal || t == TypeBusiness
}

type Account struct {
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Type            Type   `gorm:"not null;default:personal"`
	Category          string
	Subcategory       string
	CustomDescription string
	Currency          string `gorm:"not null;default:EUR"`
	Timezone        string `gorm:"not null;default:UTC"`
	OvertimeRatio   float64 `gorm:"not null;default:1"`
	OwnerID         *string `gorm:"index"`
	ParentAccountID *string `gorm:"index"`
	CreatedByUserID string  `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Account) TableName() string {
	return "accounts"
}

// DefaultCategories are seeded into every new account.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Utilities",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Other",
}

type Category struct {
	ID        string `gorm:"primaryKey"`
	AccountID string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (Category) TableName() string {
	return "categories"
}

// Person is a named spender expenses can be attributed to.
type Person struct {
	ID        string `gorm:"primaryKey"`
	AccountID string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

func (Person) TableName() string {
	return "people"
}

type RelationshipType string

const (
	RelationshipDownward RelationshipType = "downward"
	RelationshipUpward   RelationshipType = "upward"
	RelationshipSideways RelationshipType = "sideways"
)

type AccessLevel string

const (
	AccessView AccessLevel = "view"
	AccessFull AccessLevel = "full"
)

// Relationship is a directed edge between two accounts, unique per ordered
// (parent, child) pair.
type Relationship struct {
	ID               string `gorm:"primaryKey"`
	ParentAccountID  string `gorm:"uniqueIndex:idx_relationship_pair;not null"`
	ChildAccountID   string `gorm:"uniqueIndex:idx_relationship_pair;not null"`
	RelationshipType RelationshipType `gorm:"not null"`
	AccessLevel      AccessLevel      `gorm:"not null;default:view"`
	CreatedByUserID  string
	CreatedAt        time.Time
}

func (Relationship) TableName() string {
	return "account_relationships"
}
