// Package recharge validates recharge requests and settles them through the
// payment gateway registry.
package recharge

import (
	"context"
	"errors"
	"fmt"

	"topup/internal/models"
	"topup/internal/services/payment"
	"topup/internal/services/wallet"
	"topup/internal/validation"

	"github.com/sirupsen/logrus"
)

type Request = models.RechargeRequest

type Receipt = wallet.Receipt

type Service interface {
	Process(ctx context.Context, user *models.User, req Request) (*Receipt, error)
	History(ctx context.Context, userID string) ([]*models.Transaction, error)
}

type service struct {
	wallet   wallet.Service
	gateways *payment.Registry
	log      *logrus.Logger
}

func NewService(walletSvc wallet.Service, gateways *payment.Registry, log *logrus.Logger) Service {
	return &service{wallet: walletSvc, gateways: gateways, log: log}
}

func (s *service) Process(ctx context.Context, user *models.User, req Request) (*Receipt, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodWallet
	}
	if err := validation.Check(req); err != nil {
		return nil, err
	}
	// Enforce the ledger's amount rules before any external charge is made.
	if err := s.wallet.ValidateAmount(req.Plan.Amount); err != nil {
		return nil, err
	}

	gateway, err := s.gateways.Get(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err,
			validation.NewFieldError("paymentMethod", "is not available"))
	}

	description := "Mobile recharge for " + req.PhoneNumber
	if req.Plan.Name != "" {
		description += " (" + req.Plan.Name + ")"
	}

	fields := logrus.Fields{
		"user_id":        user.ID,
		"payment_method": req.PaymentMethod,
		"operator":       req.Operator,
		"amount":         req.Plan.Amount.String(),
	}

	result, err := gateway.Charge(ctx, payment.Charge{
		UserID:         user.ID,
		Amount:         req.Plan.Amount,
		PhoneNumber:    req.PhoneNumber,
		Operator:       req.Operator,
		Description:    description,
		Token:          req.PaymentToken,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case payment.StatusApproved:
	case payment.StatusDeclined:
		s.log.WithFields(fields).WithField("reason", result.Reason).Info("recharge payment declined")
		if errors.Is(result.Cause, wallet.ErrInsufficientFunds) {
			return nil, result.Cause
		}
		return nil, &DeclinedError{Method: req.PaymentMethod, Reason: result.Reason}
	default:
		s.log.WithFields(fields).WithError(result.Cause).Error("recharge payment failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, result.Cause)
	}

	if result.Transaction != nil {
		s.log.WithFields(fields).WithField("transaction_id", result.Transaction.ID).Info("recharge completed")
		return &Receipt{Balance: result.Transaction.BalanceAfter, Transaction: result.Transaction}, nil
	}

	receipt, err := s.wallet.Record(ctx, &models.Transaction{
		UserID:        user.ID,
		Type:          models.TransactionTypeRecharge,
		Amount:        req.Plan.Amount,
		PhoneNumber:   req.PhoneNumber,
		Operator:      req.Operator,
		PaymentMethod: req.PaymentMethod,
		Reference:     result.Reference,
		Status:        models.TransactionStatusSuccess,
		Description:   description,
	})
	if err != nil {
		// The charge went through; the reference is needed to reconcile it.
		s.log.WithFields(fields).WithField("reference", result.Reference).WithError(err).
			Error("failed to record paid recharge")
		return nil, err
	}
	s.log.WithFields(fields).WithField("transaction_id", receipt.Transaction.ID).Info("recharge completed")
	return receipt, nil
}

func (s *service) History(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.wallet.History(ctx, userID, models.TransactionTypeRecharge)
}
