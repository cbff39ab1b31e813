// Package events publishes ledger events for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TypeWalletCredited    = "wallet.credited"
	TypeWalletDebited     = "wallet.debited"
	TypeRechargeCompleted = "recharge.completed"
)

// Event describes a committed ledger change.
type Event struct {
	Type          string          `json:"type"`
	UserID        string          `json:"userId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Publisher delivers events. Publish is called after the ledger commits, so
// failures are reported but never roll anything back.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
