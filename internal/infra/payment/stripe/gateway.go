// Package stripegateway implements the payment gateway on Stripe.
package stripegateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// Gateway talks to the Stripe API with a fixed secret key and webhook
// signing secret.
type Gateway struct {
	webhookSecret string
}

// NewGateway configures the Stripe client. The API key is process-global in
// stripe-go.
func NewGateway(apiKey, webhookSecret string) (*Gateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API key cannot be empty")
	}
	stripe.Key = apiKey
	return &Gateway{webhookSecret: webhookSecret}, nil
}

// CreateCustomer registers a Stripe customer for the email.
func (g *Gateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer: %w", err)
	}
	return c.ID, nil
}

// CreatePaymentIntent opens a card payment for the amount in cents.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, customerID string, amount int64, plan string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	params.Context = ctx
	params.AddMetadata("plan", plan)
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

// ParseWebhook verifies the Stripe-Signature header and narrows the event
// to what billing consumes.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*service.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: verify webhook signature: %w", err)
	}
	out := &service.WebhookEvent{Type: string(event.Type)}
	if obj, ok := event.Data.Object["id"].(string); ok {
		out.PaymentIntentID = obj
	}
	return out, nil
}
