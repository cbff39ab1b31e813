// Package payment routes every recharge payment, wallet included, through a
// Gateway so that approvals, declines and errors are handled the same way.
package payment

import (
	"context"
	"errors"
	"sort"

	"topup/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)

type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusError    Status = "error"
)

// Charge is a request to take Amount from the user for a recharge.
type Charge struct {
	UserID      string
	Amount      decimal.Decimal
	PhoneNumber string
	Operator    string
	Description string
	// Token identifies the instrument: a Stripe PaymentMethod ID for cards,
	// a VPA for UPI. Unused for wallet payments.
	Token          string
	IdempotencyKey string
}

// Result is the gateway's verdict. Cause carries the underlying error for
// declined and error results. Transaction is set when the gateway itself
// recorded the ledger entry.
type Result struct {
	Status      Status
	Reference   string
	Reason      string
	Cause       error
	Transaction *models.Transaction
}

func (r Result) Approved() bool { return r.Status == StatusApproved }

// Gateway charges one payment method. A non-nil error means the charge was
// rejected before reaching the provider, e.g. an invalid amount.
type Gateway interface {
	Method() string
	Charge(ctx context.Context, charge Charge) (Result, error)
}

// Registry maps payment methods to gateways.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Method()] = g
	}
	return r
}

func (r *Registry) Get(method string) (Gateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}
	return g, nil
}

// Methods lists the registered payment methods in sorted order.
func (r *Registry) Methods() []string {
	out := make([]string, 0, len(r.gateways))
	for m := range r.gateways {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
