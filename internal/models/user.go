package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func init() {
	// Money is rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// User is an account holder with a wallet balance.
// Balance is only ever mutated through the ledger repository.
type User struct {
	ID               string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string          `gorm:"not null" json:"name"`
	Email            string          `gorm:"uniqueIndex:idx_users_email;not null" json:"email"`
	Phone            string          `gorm:"uniqueIndex:idx_users_phone;not null" json:"phone"`
	Password         string          `gorm:"not null" json:"-"`
	Balance          decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Role             string          `gorm:"not null;default:'user'" json:"role"`
	Favorites        Favorites       `gorm:"type:jsonb;not null;default:'[]'" json:"favorites"`
	TwoFactorEnabled bool            `gorm:"not null;default:false" json:"twoFactorEnabled"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Favorites == nil {
		u.Favorites = Favorites{}
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Favorites = u.Favorites.Clone()
	return &cp
}
