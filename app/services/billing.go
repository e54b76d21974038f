package services

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/bzinkan/pass-pilot-sub001/app/config"
)

// BillingClient is the narrow Stripe surface the registration state
// machine and the webhook handler call through. Everything behind it is
// a black box.
type BillingClient interface {
	CreateCustomer(email, name, schoolID string) (string, error)
	CreateCheckoutSession(customerID, priceID, schoolID, successURL, cancelURL string) (*stripe.CheckoutSession, error)
	RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
	VerifyWebhookSignature(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeClient struct {
	webhookSecret string
}

// NewBillingClient wires the package-level Stripe key and returns the
// production client.
func NewBillingClient(cfg config.StripeConfig) BillingClient {
	stripe.Key = cfg.SecretKey
	return &stripeClient{webhookSecret: cfg.WebhookSecret}
}

func (s *stripeClient) CreateCustomer(email, name, schoolID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.AddMetadata("school_id", schoolID)

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (s *stripeClient) CreateCheckoutSession(customerID, priceID, schoolID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata("school_id", schoolID)

	return session.New(params)
}

func (s *stripeClient) RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(sessionID, nil)
}

func (s *stripeClient) VerifyWebhookSignature(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
