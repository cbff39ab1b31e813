// Package repositories declares the storage capabilities the services depend
// on. Implementations live in the postgres and memory subpackages.
package repositories

import (
	"context"
	"errors"

	"topup/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrPhoneTaken        = errors.New("phone number already taken")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrFavoriteExists    = errors.New("favorite already exists")
	ErrFavoriteNotFound  = errors.New("favorite not found")
)

// UserRepository defines the user-related storage operations.
type UserRepository interface {
	// Create inserts a new user. ID is generated when empty.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)

	// Update persists profile fields only. Balance and password are ignored.
	Update(ctx context.Context, user *models.User) error

	UpdatePassword(ctx context.Context, userID, hashedPassword string) error

	// List returns every user, oldest first.
	List(ctx context.Context) ([]*models.User, error)

	// AddFavorite appends fav and returns the new list.
	AddFavorite(ctx context.Context, userID string, fav models.Favorite) (models.Favorites, error)

	// RemoveFavorite drops the favorite with the given number and returns the new list.
	RemoveFavorite(ctx context.Context, userID, number string) (models.Favorites, error)
}

// TransactionRepository reads the transaction log. Both listings are newest first.
type TransactionRepository interface {
	// ListByUser returns the user's transactions, filtered by type when txType is non-empty.
	ListByUser(ctx context.Context, userID, txType string) ([]*models.Transaction, error)
	ListAll(ctx context.Context) ([]*models.Transaction, error)
}

// LedgerRepository is the only writer of wallet balances. Each call changes
// the balance and appends txn atomically, or does neither.
type LedgerRepository interface {
	// Credit adds amount to the balance and stores txn with BalanceAfter set.
	Credit(ctx context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error)

	// Debit subtracts amount only when the balance covers it. It returns
	// ErrInsufficientFunds otherwise, leaving both balance and log untouched.
	Debit(ctx context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error)

	// Record stores txn without touching the balance. BalanceAfter is set to
	// the current balance.
	Record(ctx context.Context, txn *models.Transaction) error
}

// Store aggregates every storage capability behind one handle.
type Store interface {
	Users() UserRepository
	Transactions() TransactionRepository
	Ledger() LedgerRepository
	Name() string
	Ping(ctx context.Context) error
	Close() error
}
