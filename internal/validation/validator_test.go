package validation

import (
	"encoding/json"
	"fmt"
	"testing"

	"topup/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMoney(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"500", true},
		{"0.01", true},
		{"10.50", true},
		{"0", false},
		{"-1", false},
		{"1.001", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("9876543210"))
	assert.True(t, IsPhone("+919876543210"))
	assert.False(t, IsPhone("12345"))
	assert.False(t, IsPhone("98765-43210"))
	assert.False(t, IsPhone(""))
}

func TestStruct_RegisterRequest(t *testing.T) {
	err := Struct(models.RegisterRequest{
		Name:     "A",
		Email:    "not-an-email",
		Phone:    "12",
		Password: "123",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be at least 2 characters long", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be a valid phone number", details["phone"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestStruct_Recharge(t *testing.T) {
	valid := models.RechargeRequest{
		PhoneNumber: "9876543210",
		Operator:    "Jio",
		Plan:        models.PlanRequest{Amount: decimal.NewFromInt(299)},
	}
	require.NoError(t, Struct(valid))

	bad := valid
	bad.Plan.Amount = decimal.Zero
	bad.PaymentMethod = "cash"
	details := ToDetails(Struct(bad))
	assert.Contains(t, details, "plan.amount")
	assert.Equal(t, "must be one of: wallet, card, upi", details["paymentMethod"])
}

func TestStruct_AddMoneyMissingAmount(t *testing.T) {
	var req models.AddMoneyRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	details := ToDetails(Struct(req))
	assert.Equal(t, "must be a positive amount with at most 2 decimal places", details["amount"])
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var req models.AddMoneyRequest
	err := json.Unmarshal([]byte(`{"amount":`), &req)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestCheck_WrapsErrInvalid(t *testing.T) {
	err := Check(models.ChangePasswordRequest{OldPassword: "old", NewPassword: "123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "must be at least 6 characters long", ToDetails(err)["newPassword"])

	assert.NoError(t, Check(models.ChangePasswordRequest{OldPassword: "old", NewPassword: "123456"}))
}

func TestFieldError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewFieldError("amount", "must be positive"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, map[string]string{"amount": "must be positive"}, ToDetails(err))
}
