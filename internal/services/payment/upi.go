package payment

import (
	"context"
	"regexp"

	"topup/internal/models"
)

var vpaRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// UPIGateway approves collect requests in sandbox mode. No UPI provider is
// integrated; a malformed VPA is the only decline.
type UPIGateway struct{}

func NewUPIGateway() *UPIGateway { return &UPIGateway{} }

func (g *UPIGateway) Method() string { return models.PaymentMethodUPI }

func (g *UPIGateway) Charge(_ context.Context, c Charge) (Result, error) {
	if c.Token != "" && !vpaRegex.MatchString(c.Token) {
		return Result{Status: StatusDeclined, Reason: "invalid UPI ID"}, nil
	}
	return Result{Status: StatusApproved, Reference: "upi_" + shortID()}, nil
}
