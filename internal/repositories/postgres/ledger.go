package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"topup/internal/models"
	"topup/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Store) Credit(ctx context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", amount),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrUserNotFound
		}

		var err error
		if balance, err = currentBalance(tx, userID); err != nil {
			return err
		}
		return insertTransaction(tx, userID, balance, txn)
	})
	if err != nil {
		return decimal.Zero, wrapLedgerErr("credit", err)
	}
	return balance, nil
}

// Debit runs the balance check and decrement as one conditional UPDATE, so
// concurrent debits can never drive the balance negative.
func (s *Store) Debit(ctx context.Context, userID string, amount decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, amount).
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance - ?", amount),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return repositories.ErrUserNotFound
			}
			return repositories.ErrInsufficientFunds
		}

		var err error
		if balance, err = currentBalance(tx, userID); err != nil {
			return err
		}
		return insertTransaction(tx, userID, balance, txn)
	})
	if err != nil {
		return decimal.Zero, wrapLedgerErr("debit", err)
	}
	return balance, nil
}

func (s *Store) Record(ctx context.Context, txn *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := currentBalance(tx, txn.UserID)
		if err != nil {
			return err
		}
		return insertTransaction(tx, txn.UserID, balance, txn)
	})
	return wrapLedgerErr("record", err)
}

func (s *Store) ListByUser(ctx context.Context, userID, txType string) ([]*models.Transaction, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	txns := make([]*models.Transaction, 0)
	if err := query.Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *Store) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	txns := make([]*models.Transaction, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func currentBalance(tx *gorm.DB, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.Model(&models.User{}).Select("balance").Where("id = ?", userID).Row().Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, repositories.ErrUserNotFound
	}
	return balance, err
}

func insertTransaction(tx *gorm.DB, userID string, balance decimal.Decimal, txn *models.Transaction) error {
	txn.UserID = userID
	txn.BalanceAfter = balance
	if txn.Status == "" {
		txn.Status = models.TransactionStatusSuccess
	}
	return tx.Create(txn).Error
}

// wrapLedgerErr passes sentinel errors through untouched and wraps the rest.
func wrapLedgerErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound), errors.Is(err, repositories.ErrInsufficientFunds):
		return err
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
