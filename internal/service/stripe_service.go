package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	customerpkg "github.com/stripe/stripe-go/v82/customer"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
)

// BillingService answers subscription questions and starts Stripe checkouts.
type BillingService interface {
	// IsPro reports whether email belongs to a customer with an active subscription.
	IsPro(ctx context.Context, email string) (bool, error)
	// CreateCheckoutSession returns the hosted checkout URL for a Pro subscription.
	CreateCheckoutSession(ctx context.Context, email, baseURL string) (string, error)
}

// stripeAPI is the slice of the Stripe API the billing service calls.
type stripeAPI interface {
	FindCustomerID(ctx context.Context, email string) (string, error)
	HasActiveSubscription(ctx context.Context, customerID string) (bool, error)
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeClient struct{}

func (stripeClient) FindCustomerID(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	iter := customerpkg.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	return "", iter.Err()
}

func (stripeClient) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	iter := subscriptionpkg.List(params)
	if iter.Next() {
		return true, nil
	}
	return false, iter.Err()
}

func (stripeClient) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return checkoutsession.New(params)
}

type billingService struct {
	api       stripeAPI
	secretKey string
	priceID   string
	logger    zerolog.Logger
}

// NewBillingService sets the Stripe key and returns a service with a scoped logger.
// An empty secretKey is allowed; every call then fails with a ConfigurationError.
func NewBillingService(secretKey, priceID string, logger zerolog.Logger) BillingService {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return newBillingService(stripeClient{}, secretKey, priceID, logger)
}

func newBillingService(api stripeAPI, secretKey, priceID string, logger zerolog.Logger) *billingService {
	return &billingService{
		api:       api,
		secretKey: secretKey,
		priceID:   priceID,
		logger:    logger.With().Str("service", "BillingService").Logger(),
	}
}

func (s *billingService) IsPro(ctx context.Context, email string) (bool, error) {
	if s.secretKey == "" {
		return false, &ConfigurationError{Message: "Stripe not configured"}
	}

	customerID, err := s.api.FindCustomerID(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to look up Stripe customer")
		return false, fmt.Errorf("find stripe customer: %w", err)
	}
	if customerID == "" {
		return false, nil
	}

	active, err := s.api.HasActiveSubscription(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("stripe_customer_id", customerID).Msg("Failed to list Stripe subscriptions")
		return false, fmt.Errorf("list stripe subscriptions: %w", err)
	}
	return active, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, email, baseURL string) (string, error) {
	if s.secretKey == "" || s.priceID == "" {
		return "", &ConfigurationError{Message: "Stripe not configured"}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.priceID), Quantity: stripe.Int64(1)},
		},
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(baseURL + "/success"),
		CancelURL:     stripe.String(baseURL),
		Metadata:      map[string]string{"email": email},
	}
	params.Context = ctx

	sess, err := s.api.NewCheckoutSession(params)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to create Stripe checkout session")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CheckoutBaseURL returns configured when set, otherwise a URL built from the
// request host: http for localhost and https for everything else.
func CheckoutBaseURL(configured, host string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "https"
	if strings.Contains(host, "localhost") {
		scheme = "http"
	}
	return scheme + "://" + host
}
