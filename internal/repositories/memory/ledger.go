package memory

import (
	"context"
	"sort"

	"topup/internal/models"
	"topup/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Store) Credit(_ context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return decimal.Zero, repositories.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	u.UpdatedAt = s.now()
	s.appendLocked(userID, u.Balance, txn)
	return u.Balance, nil
}

func (s *Store) Debit(_ context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return decimal.Zero, repositories.ErrUserNotFound
	}
	if u.Balance.LessThan(amount) {
		return u.Balance, repositories.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(amount)
	u.UpdatedAt = s.now()
	s.appendLocked(userID, u.Balance, txn)
	return u.Balance, nil
}

func (s *Store) Record(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[txn.UserID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	s.appendLocked(u.ID, u.Balance, txn)
	return nil
}

// appendLocked fills the generated fields of txn and stores a copy.
// Callers must hold s.mu.
func (s *Store) appendLocked(userID string, balance decimal.Decimal, txn *models.Transaction) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Status == "" {
		txn.Status = models.TransactionStatusSuccess
	}
	txn.UserID = userID
	txn.BalanceAfter = balance
	txn.CreatedAt = s.now()

	cp := *txn
	s.txns = append(s.txns, &cp)
}

func (s *Store) ListByUser(_ context.Context, userID, txType string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Transaction, 0)
	for i := len(s.txns) - 1; i >= 0; i-- {
		t := s.txns[i]
		if t.UserID != userID || (txType != "" && t.Type != txType) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) ListAll(context.Context) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Transaction, 0, len(s.txns))
	for i := len(s.txns) - 1; i >= 0; i-- {
		cp := *s.txns[i]
		out = append(out, &cp)
	}
	return out, nil
}

func sortUsers(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
}
