package policies

import (
	"context"
	"errors"
)

var ErrPaymentNotFound = errors.New("payments: reference does not resolve")

type PaymentStatus string

const (
	PaymentSucceeded      PaymentStatus = "succeeded"
	PaymentPending        PaymentStatus = "pending"
	PaymentRequiresAction PaymentStatus = "requires_action"
	PaymentFailed         PaymentStatus = "failed"
)

// Payment is the processor's view of a confirmed (or not) payment. HotelID
// and UserID echo the metadata recorded when the payment was initiated.
type Payment struct {
	Ref         string
	Status      PaymentStatus
	AmountCents int64
	HotelID     string
	UserID      string
}

// PaymentsPort looks up payment state by reference at the external processor.
type PaymentsPort interface {
	Retrieve(ctx context.Context, ref string) (Payment, error)
}
