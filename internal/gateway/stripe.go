package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway implements PaymentGateway against the Stripe API.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripe.Key = secretKey
	return &StripeGateway{}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*IntentRef, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: make(map[string]string, len(p.Metadata)+1),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.Metadata[k] = v
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	if p.CustomerRef != "" {
		params.ReceiptEmail = stripe.String(p.CustomerRef)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &IntentRef{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	if id == "" {
		return nil, fmt.Errorf("payment intent ID is required")
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	return &Intent{
		ID:        pi.ID,
		Status:    mapStripeStatus(pi.Status),
		RawStatus: string(pi.Status),
		Amount:    pi.Amount,
		Currency:  string(pi.Currency),
		Metadata:  pi.Metadata,
	}, nil
}

func mapStripeStatus(s stripe.PaymentIntentStatus) IntentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture:
		return StatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusUnknown
	}
}
