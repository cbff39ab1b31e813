package recharge

import (
	"errors"

	"topup/internal/services/payment"
)

var (
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrUnsupportedMethod  = payment.ErrUnsupportedMethod
)

// DeclinedError is returned when the gateway refuses the payment.
type DeclinedError struct {
	Method string
	Reason string
}

func (e *DeclinedError) Error() string {
	if e.Reason == "" {
		return ErrPaymentDeclined.Error()
	}
	return ErrPaymentDeclined.Error() + ": " + e.Reason
}

func (e *DeclinedError) Is(target error) bool {
	return target == ErrPaymentDeclined
}
