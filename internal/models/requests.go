package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest accepts the identifier under any of three keys.
type LoginRequest struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Identifier string `json:"identifier"`
	Password   string `json:"password" validate:"required"`
}

// LoginIdentifier returns the first non-empty identifier.
func (r LoginRequest) LoginIdentifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.Phone} {
		if v != "" {
			return v
		}
	}
	return ""
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type AddMoneyRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
}

type PlanRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"money"`
	Name     string          `json:"name"`
	Validity string          `json:"validity"`
	Data     string          `json:"data"`
}

type RechargeRequest struct {
	PhoneNumber   string      `json:"phoneNumber" validate:"required,phone"`
	Operator      string      `json:"operator" validate:"required"`
	Plan          PlanRequest `json:"plan"`
	PaymentMethod string      `json:"paymentMethod" validate:"omitempty,oneof=wallet card upi"`
	PaymentToken  string      `json:"paymentToken"`
	// IdempotencyKey is taken from the request header, never the body.
	IdempotencyKey string `json:"-"`
}

type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone            *string `json:"phone" validate:"omitempty,phone"`
	TwoFactorEnabled *bool   `json:"twoFactorEnabled"`
}
