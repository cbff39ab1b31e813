package payment

import (
	"context"
	"errors"

	"topup/internal/models"
	"topup/internal/services/wallet"
)

// WalletGateway pays from the user's wallet balance through the ledger.
type WalletGateway struct {
	wallet wallet.Service
}

func NewWalletGateway(walletSvc wallet.Service) *WalletGateway {
	return &WalletGateway{wallet: walletSvc}
}

func (g *WalletGateway) Method() string { return models.PaymentMethodWallet }

func (g *WalletGateway) Charge(ctx context.Context, c Charge) (Result, error) {
	receipt, err := g.wallet.Debit(ctx, c.UserID, c.Amount, wallet.Spend{
		PhoneNumber:   c.PhoneNumber,
		Operator:      c.Operator,
		PaymentMethod: models.PaymentMethodWallet,
		Description:   c.Description,
	})
	switch {
	case err == nil:
		return Result{
			Status:      StatusApproved,
			Reference:   receipt.Transaction.ID,
			Transaction: receipt.Transaction,
		}, nil
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return Result{
			Status: StatusDeclined,
			Reason: "Insufficient wallet balance",
			Cause:  err,
		}, nil
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrUserNotFound):
		return Result{}, err
	default:
		return Result{Status: StatusError, Cause: err}, nil
	}
}
