package wallet

import (
	"topup/internal/models"

	"github.com/shopspring/decimal"
)

type Config struct {
	// MaxTransactionAmount caps a single credit or debit.
	MaxTransactionAmount decimal.Decimal
}

// Receipt is the outcome of a ledger write.
type Receipt struct {
	Balance     decimal.Decimal     `json:"balance"`
	Transaction *models.Transaction `json:"transaction"`
}

// Spend describes what a debit paid for.
type Spend struct {
	PhoneNumber   string
	Operator      string
	PaymentMethod string
	Reference     string
	Description   string
}
