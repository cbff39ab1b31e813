package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"topup/internal/logger"
	"topup/internal/models"
	"topup/internal/repositories/cache"
	"topup/internal/repositories/memory"
	"topup/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(t *testing.T, balance int64) (wallet.Service, *models.User) {
	t.Helper()
	store := memory.New()
	user := &models.User{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Phone:    "9123456780",
		Password: "hash",
		Balance:  decimal.NewFromInt(balance),
	}
	require.NoError(t, store.Create(context.Background(), user))
	svc := wallet.NewService(store, cache.NewMemoryCache(time.Minute), nil,
		wallet.Config{MaxTransactionAmount: decimal.NewFromInt(100000)}, logger.Discard())
	return svc, user
}

func TestWalletGateway(t *testing.T) {
	svc, user := newWallet(t, 500)
	gw := NewWalletGateway(svc)
	ctx := context.Background()

	res, err := gw.Charge(ctx, Charge{UserID: user.ID, Amount: decimal.NewFromInt(299), PhoneNumber: "9123456780", Operator: "Airtel"})
	require.NoError(t, err)
	assert.True(t, res.Approved())
	require.NotNil(t, res.Transaction)
	assert.Equal(t, res.Transaction.ID, res.Reference)
	assert.Equal(t, "201", res.Transaction.BalanceAfter.String())

	res, err = gw.Charge(ctx, Charge{UserID: user.ID, Amount: decimal.NewFromInt(299), PhoneNumber: "9123456780", Operator: "Airtel"})
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, res.Status)
	assert.Equal(t, "Insufficient wallet balance", res.Reason)
	assert.ErrorIs(t, res.Cause, wallet.ErrInsufficientFunds)

	_, err = gw.Charge(ctx, Charge{UserID: user.ID, Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)

	_, err = gw.Charge(ctx, Charge{UserID: "missing", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, wallet.ErrUserNotFound)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewUPIGateway(), NewCardGateway(CardConfig{}, logger.Discard()))

	gw, err := r.Get(models.PaymentMethodUPI)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodUPI, gw.Method())

	_, err = r.Get("cash")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Equal(t, []string{"card", "upi"}, r.Methods())
}

func TestUPIGateway(t *testing.T) {
	gw := NewUPIGateway()

	res, err := gw.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(199), Token: "ravi@okbank"})
	require.NoError(t, err)
	assert.True(t, res.Approved())
	assert.True(t, strings.HasPrefix(res.Reference, "upi_"))

	res, err = gw.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(199), Token: "not a vpa"})
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, res.Status)
}

func TestCardGateway_Sandbox(t *testing.T) {
	gw := NewCardGateway(CardConfig{}, logger.Discard())
	assert.True(t, gw.Sandbox())

	res, err := gw.Charge(context.Background(), Charge{Amount: decimal.NewFromInt(199)})
	require.NoError(t, err)
	assert.True(t, res.Approved())
	assert.True(t, strings.HasPrefix(res.Reference, "card_sandbox_"))
}

func stripeServer(t *testing.T, status int, body string, calls *int32, form *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/payment_intents") {
			http.NotFound(w, r)
			return
		}
		if form != nil {
			assert.NoError(t, r.ParseForm())
			form.Form = r.Form
			form.Header = r.Header
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stripeGateway(srv *httptest.Server) *CardGateway {
	return NewCardGateway(CardConfig{
		SecretKey:  "sk_test_123",
		APIURL:     srv.URL,
		Currency:   "INR",
		HTTPClient: srv.Client(),
	}, logger.Discard())
}

func TestCardGateway_Stripe(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      Status
		reference string
		reason    string
	}{
		{
			name:      "succeeded",
			status:    http.StatusOK,
			body:      `{"id":"pi_123","object":"payment_intent","status":"succeeded","amount":29900,"currency":"inr"}`,
			want:      StatusApproved,
			reference: "pi_123",
		},
		{
			name:   "card declined",
			status: http.StatusPaymentRequired,
			body:   `{"error":{"type":"card_error","code":"card_declined","decline_code":"generic_decline","message":"Your card was declined."}}`,
			want:   StatusDeclined,
			reason: "Your card was declined.",
		},
		{
			name:      "requires action",
			status:    http.StatusOK,
			body:      `{"id":"pi_456","object":"payment_intent","status":"requires_action","amount":29900,"currency":"inr"}`,
			want:      StatusDeclined,
			reference: "pi_456",
			reason:    "payment requires action",
		},
		{
			name:   "api error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"type":"api_error","message":"boom"}}`,
			want:   StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := stripeServer(t, tt.status, tt.body, &calls, nil)
			gw := stripeGateway(srv)
			require.False(t, gw.Sandbox())

			res, err := gw.Charge(context.Background(), Charge{
				UserID: "u1", Amount: decimal.RequireFromString("299.00"), Token: "pm_card_visa",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.reference, res.Reference)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, res.Reason)
			}
			if tt.want == StatusError {
				assert.Error(t, res.Cause)
			}
			assert.EqualValues(t, 1, calls)
		})
	}
}

func TestCardGateway_StripeRequest(t *testing.T) {
	var calls int32
	var captured http.Request
	srv := stripeServer(t, http.StatusOK,
		`{"id":"pi_789","object":"payment_intent","status":"succeeded"}`, &calls, &captured)
	gw := stripeGateway(srv)

	res, err := gw.Charge(context.Background(), Charge{
		UserID:         "u1",
		Amount:         decimal.RequireFromString("149.50"),
		Token:          "pm_card_visa",
		Description:    "Mobile recharge for 9123456780",
		IdempotencyKey: "abc",
	})
	require.NoError(t, err)
	assert.True(t, res.Approved())

	assert.Equal(t, "14950", captured.Form.Get("amount"))
	assert.Equal(t, "inr", captured.Form.Get("currency"))
	assert.Equal(t, "true", captured.Form.Get("confirm"))
	assert.Equal(t, "pm_card_visa", captured.Form.Get("payment_method"))
	assert.Equal(t, "u1:abc", captured.Header.Get("Idempotency-Key"))
}

func TestCardGateway_StripeMissingToken(t *testing.T) {
	var calls int32
	srv := stripeServer(t, http.StatusOK, `{}`, &calls, nil)

	res, err := stripeGateway(srv).Charge(context.Background(), Charge{UserID: "u1", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, res.Status)
	assert.Zero(t, calls)
}
