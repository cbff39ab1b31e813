package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"topup/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

type CardConfig struct {
	SecretKey string
	// APIURL overrides the Stripe API base URL. Empty means Stripe's default.
	APIURL     string
	Currency   string
	HTTPClient *http.Client
}

// CardGateway charges cards with a confirmed Stripe PaymentIntent. Without a
// secret key it runs in sandbox mode and approves every charge.
type CardGateway struct {
	api      *client.API
	currency string
	log      *logrus.Logger
}

func NewCardGateway(cfg CardConfig, log *logrus.Logger) *CardGateway {
	g := &CardGateway{currency: strings.ToLower(cfg.Currency), log: log}
	if g.currency == "" {
		g.currency = "inr"
	}
	if cfg.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, card payments run in sandbox mode")
		return g
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        cfg.HTTPClient,
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	g.api = &client.API{}
	g.api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return g
}

func (g *CardGateway) Method() string { return models.PaymentMethodCard }

// Sandbox reports whether charges bypass Stripe.
func (g *CardGateway) Sandbox() bool { return g.api == nil }

func (g *CardGateway) Charge(ctx context.Context, c Charge) (Result, error) {
	if g.Sandbox() {
		return Result{Status: StatusApproved, Reference: "card_sandbox_" + shortID()}, nil
	}
	if c.Token == "" {
		return Result{Status: StatusDeclined, Reason: "payment method is required"}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(c.Amount.Shift(2).IntPart()),
		Currency:           stripe.String(g.currency),
		PaymentMethod:      stripe.String(c.Token),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String(c.Description),
	}
	params.Context = ctx
	params.AddMetadata("user_id", c.UserID)
	params.AddMetadata("phone_number", c.PhoneNumber)
	if c.IdempotencyKey != "" {
		params.SetIdempotencyKey(c.UserID + ":" + c.IdempotencyKey)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			result := Result{Status: StatusDeclined, Reason: stripeErr.Msg, Cause: err}
			if stripeErr.PaymentIntent != nil {
				result.Reference = stripeErr.PaymentIntent.ID
			}
			return result, nil
		}
		g.log.WithError(err).WithField("user_id", c.UserID).Error("stripe payment intent failed")
		return Result{Status: StatusError, Cause: fmt.Errorf("stripe: %w", err)}, nil
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return Result{
			Status:    StatusDeclined,
			Reference: pi.ID,
			Reason:    "payment " + strings.ReplaceAll(string(pi.Status), "_", " "),
		}, nil
	}
	return Result{Status: StatusApproved, Reference: pi.ID}, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
