package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"topup/internal/events"
	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service defines the wallet ledger operations
type Service interface {
	Credit(ctx context.Context, userID string, amount decimal.Decimal) (*Receipt, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal, spend Spend) (*Receipt, error)
	// Record stores an externally paid recharge without moving the balance.
	Record(ctx context.Context, txn *models.Transaction) (*Receipt, error)

	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	// History lists the user's transactions newest first, optionally filtered by type.
	History(ctx context.Context, userID, txType string) ([]*models.Transaction, error)
	AllTransactions(ctx context.Context) ([]*models.Transaction, error)

	ValidateAmount(amount decimal.Decimal) error
}

type service struct {
	store     repositories.Store
	cache     repositories.CacheRepository
	publisher events.Publisher
	config    Config
	log       *logrus.Logger
}

// NewService creates a new wallet service
func NewService(
	store repositories.Store,
	cacheRepo repositories.CacheRepository,
	publisher events.Publisher,
	config Config,
	log *logrus.Logger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if !config.MaxTransactionAmount.IsPositive() {
		config.MaxTransactionAmount = decimal.NewFromInt(100000)
	}
	return &service{
		store:     store,
		cache:     cacheRepo,
		publisher: publisher,
		config:    config,
		log:       log,
	}
}

func (s *service) ValidateAmount(amount decimal.Decimal) error {
	var msg string
	switch {
	case !amount.IsPositive():
		msg = "must be greater than 0"
	case amount.GreaterThan(s.config.MaxTransactionAmount):
		msg = "must not exceed " + s.config.MaxTransactionAmount.String()
	case !amount.Equal(amount.Truncate(2)):
		msg = "must have at most 2 decimal places"
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidAmount, validation.NewFieldError("amount", msg))
}

func (s *service) Credit(ctx context.Context, userID string, amount decimal.Decimal) (*Receipt, error) {
	if err := s.ValidateAmount(amount); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		Type:        models.TransactionTypeWalletAdd,
		Amount:      amount,
		Status:      models.TransactionStatusSuccess,
		Description: "Added money to wallet",
	}
	balance, err := s.store.Ledger().Credit(ctx, userID, amount, txn)
	if err != nil {
		return nil, s.ledgerError("credit", userID, err)
	}

	s.afterCommit(ctx, events.TypeWalletCredited, txn, balance)
	return &Receipt{Balance: balance, Transaction: txn}, nil
}

func (s *service) Debit(ctx context.Context, userID string, amount decimal.Decimal, spend Spend) (*Receipt, error) {
	if err := s.ValidateAmount(amount); err != nil {
		return nil, err
	}

	if spend.PaymentMethod == "" {
		spend.PaymentMethod = models.PaymentMethodWallet
	}
	if spend.Description == "" {
		spend.Description = rechargeDescription(spend.PhoneNumber)
	}
	txn := &models.Transaction{
		Type:          models.TransactionTypeRecharge,
		Amount:        amount,
		PhoneNumber:   spend.PhoneNumber,
		Operator:      spend.Operator,
		PaymentMethod: spend.PaymentMethod,
		Reference:     spend.Reference,
		Status:        models.TransactionStatusSuccess,
		Description:   spend.Description,
	}
	balance, err := s.store.Ledger().Debit(ctx, userID, amount, txn)
	if err != nil {
		return nil, s.ledgerError("debit", userID, err)
	}

	s.afterCommit(ctx, events.TypeWalletDebited, txn, balance)
	return &Receipt{Balance: balance, Transaction: txn}, nil
}

func (s *service) Record(ctx context.Context, txn *models.Transaction) (*Receipt, error) {
	if err := s.ValidateAmount(txn.Amount); err != nil {
		return nil, err
	}
	if txn.Type == "" {
		txn.Type = models.TransactionTypeRecharge
	}
	if txn.Status == "" {
		txn.Status = models.TransactionStatusSuccess
	}
	if txn.Description == "" {
		txn.Description = rechargeDescription(txn.PhoneNumber)
	}

	if err := s.store.Ledger().Record(ctx, txn); err != nil {
		return nil, s.ledgerError("record", txn.UserID, err)
	}

	s.afterCommit(ctx, events.TypeRechargeCompleted, txn, txn.BalanceAfter)
	return &Receipt{Balance: txn.BalanceAfter, Transaction: txn}, nil
}

func (s *service) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

func (s *service) History(ctx context.Context, userID, txType string) ([]*models.Transaction, error) {
	switch txType {
	case "", models.TransactionTypeWalletAdd, models.TransactionTypeRecharge:
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidType,
			validation.NewFieldError("type", "must be one of: wallet_add, recharge"))
	}
	return s.store.Transactions().ListByUser(ctx, userID, txType)
}

func (s *service) AllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.store.Transactions().ListAll(ctx)
}

// afterCommit drops the cached user and publishes the event. Neither can
// undo the committed write, so failures are only logged.
func (s *service) afterCommit(ctx context.Context, eventType string, txn *models.Transaction, balance decimal.Decimal) {
	fields := logrus.Fields{
		"user_id":        txn.UserID,
		"transaction_id": txn.ID,
		"type":           txn.Type,
		"amount":         txn.Amount.String(),
		"balance":        balance.String(),
	}

	if err := s.cache.Delete(ctx, cache.UserKey(txn.UserID)); err != nil {
		s.log.WithFields(fields).WithError(err).Warn("user cache invalidation failed")
	}

	event := events.Event{
		Type:          eventType,
		UserID:        txn.UserID,
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Balance:       balance,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithFields(fields).WithError(err).Error("failed to publish ledger event")
	}

	s.log.WithFields(fields).Info("ledger updated")
}

func (s *service) ledgerError(op, userID string, err error) error {
	if errors.Is(err, repositories.ErrInsufficientFunds) || errors.Is(err, repositories.ErrUserNotFound) {
		s.log.WithFields(logrus.Fields{"user_id": userID, "op": op}).WithError(err).Info("ledger operation rejected")
		return err
	}
	return fmt.Errorf("failed to %s wallet: %w", op, err)
}

func rechargeDescription(phone string) string {
	if phone == "" {
		return "Mobile recharge"
	}
	return "Mobile recharge for " + phone
}
