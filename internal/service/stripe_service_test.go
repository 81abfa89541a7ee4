package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
)

type fakeStripe struct {
	customers   map[string]string
	active      map[string]bool
	listErr     error
	lastSession *stripe.CheckoutSessionParams
	subCalls    int
}

func (f *fakeStripe) FindCustomerID(ctx context.Context, email string) (string, error) {
	if f.listErr != nil {
		return "", f.listErr
	}
	return f.customers[email], nil
}

func (f *fakeStripe) HasActiveSubscription(ctx context.Context, customerID string) (bool, error) {
	f.subCalls++
	return f.active[customerID], nil
}

func (f *fakeStripe) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.lastSession = params
	return &stripe.CheckoutSession{URL: "https://checkout.stripe.com/c/pay/cs_test"}, nil
}

func TestIsPro(t *testing.T) {
	api := &fakeStripe{
		customers: map[string]string{"pro@example.com": "cus_pro", "lapsed@example.com": "cus_lapsed"},
		active:    map[string]bool{"cus_pro": true},
	}
	svc := newBillingService(api, "sk_test", "price_1", zerolog.Nop())

	tests := []struct {
		email string
		want  bool
	}{
		{"pro@example.com", true},
		{"lapsed@example.com", false},
		{"nobody@example.com", false},
	}
	for _, tt := range tests {
		got, err := svc.IsPro(context.Background(), tt.email)
		if err != nil {
			t.Fatalf("IsPro(%q) returned error: %v", tt.email, err)
		}
		if got != tt.want {
			t.Errorf("IsPro(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
	if api.subCalls != 2 {
		t.Errorf("expected subscriptions listed only for known customers, got %d calls", api.subCalls)
	}
}

func TestIsProStripeError(t *testing.T) {
	api := &fakeStripe{listErr: errors.New("boom")}
	svc := newBillingService(api, "sk_test", "", zerolog.Nop())
	if _, err := svc.IsPro(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected error when Stripe fails")
	}
}

func TestBillingNotConfigured(t *testing.T) {
	svc := newBillingService(&fakeStripe{}, "", "price_1", zerolog.Nop())
	var cfgErr *ConfigurationError
	if _, err := svc.IsPro(context.Background(), "a@example.com"); !errors.As(err, &cfgErr) {
		t.Errorf("IsPro without key: expected ConfigurationError, got %v", err)
	}

	svc = newBillingService(&fakeStripe{}, "sk_test", "", zerolog.Nop())
	if _, err := svc.CreateCheckoutSession(context.Background(), "a@example.com", "https://x.example"); !errors.As(err, &cfgErr) {
		t.Errorf("checkout without price: expected ConfigurationError, got %v", err)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	api := &fakeStripe{}
	svc := newBillingService(api, "sk_test", "price_pro", zerolog.Nop())

	url, err := svc.CreateCheckoutSession(context.Background(), "a@example.com", "https://app.example.com/")
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}
	if url != "https://checkout.stripe.com/c/pay/cs_test" {
		t.Errorf("url = %q", url)
	}

	p := api.lastSession
	if *p.Mode != string(stripe.CheckoutSessionModeSubscription) {
		t.Errorf("mode = %q", *p.Mode)
	}
	if *p.LineItems[0].Price != "price_pro" || *p.LineItems[0].Quantity != 1 {
		t.Errorf("unexpected line item %+v", p.LineItems[0])
	}
	if *p.CustomerEmail != "a@example.com" || p.Metadata["email"] != "a@example.com" {
		t.Errorf("customer email not propagated: %v %v", *p.CustomerEmail, p.Metadata)
	}
	if *p.SuccessURL != "https://app.example.com/success" {
		t.Errorf("success url = %q", *p.SuccessURL)
	}
	if *p.CancelURL != "https://app.example.com" {
		t.Errorf("cancel url = %q", *p.CancelURL)
	}
}

func TestCheckoutBaseURL(t *testing.T) {
	tests := []struct {
		configured, host, want string
	}{
		{"https://repurpose.app/", "ignored", "https://repurpose.app"},
		{"", "localhost:3000", "http://localhost:3000"},
		{"", "repurpose.app", "https://repurpose.app"},
	}
	for _, tt := range tests {
		if got := CheckoutBaseURL(tt.configured, tt.host); got != tt.want {
			t.Errorf("CheckoutBaseURL(%q, %q) = %q, want %q", tt.configured, tt.host, got, tt.want)
		}
	}
}
