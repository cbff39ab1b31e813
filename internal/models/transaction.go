package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeWalletAdd = "wallet_add"
	TransactionTypeRecharge  = "recharge"
)

// Transaction statuses. Only success is written today; pending and failed
// are reserved for asynchronous settlement.
const (
	TransactionStatusSuccess = "success"
	TransactionStatusPending = "pending"
	TransactionStatusFailed  = "failed"
)

// Payment methods
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
)

// Transaction is an immutable record of a balance-affecting event.
type Transaction struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string          `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1" json:"userId"`
	Type          string          `gorm:"not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	PhoneNumber   string          `json:"phoneNumber,omitempty"`
	Operator      string          `json:"operator,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `gorm:"not null;default:'success'" json:"status"`
	Description   string          `json:"description"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balanceAfter"`
	CreatedAt     time.Time       `gorm:"index:idx_transactions_user_created,priority:2" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller has not set one.
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
