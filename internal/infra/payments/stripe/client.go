package stripe

import (
	"context"
	"errors"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"stayfinder/internal/app/policies"
)

// Client resolves payment references against Stripe payment intents. The
// intent's metadata carries the hotel and user it was created for.
type Client struct {
	api *client.API
}

func New(apiKey string) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api}
}

func (c *Client) Retrieve(ctx context.Context, ref string) (policies.Payment, error) {
	params := &stripego.PaymentIntentParams{
		Params: stripego.Params{Context: ctx},
	}
	intent, err := c.api.PaymentIntents.Get(ref, params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripego.ErrorCodeResourceMissing {
			return policies.Payment{}, policies.ErrPaymentNotFound
		}
		return policies.Payment{}, err
	}
	return policies.Payment{
		Ref:         intent.ID,
		Status:      mapStatus(intent.Status),
		AmountCents: intent.Amount,
		HotelID:     intent.Metadata["hotelId"],
		UserID:      intent.Metadata["userId"],
	}, nil
}

func mapStatus(status stripego.PaymentIntentStatus) policies.PaymentStatus {
	switch status {
	case stripego.PaymentIntentStatusSucceeded:
		return policies.PaymentSucceeded
	case stripego.PaymentIntentStatusProcessing:
		return policies.PaymentPending
	case stripego.PaymentIntentStatusRequiresAction,
		stripego.PaymentIntentStatusRequiresConfirmation,
		stripego.PaymentIntentStatusRequiresPaymentMethod,
		stripego.PaymentIntentStatusRequiresCapture:
		return policies.PaymentRequiresAction
	default:
		return policies.PaymentFailed
	}
}

var _ policies.PaymentsPort = (*Client)(nil)
