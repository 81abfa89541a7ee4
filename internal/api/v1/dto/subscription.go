package dto

// SubscriptionRequest is the body of POST /check-subscription and POST /checkout.
type SubscriptionRequest struct {
	Identity string `json:"identity" validate:"max=320"`
	Email    string `json:"email" validate:"max=320"`
}

// GetIdentity returns identity, falling back to email.
func (r SubscriptionRequest) GetIdentity() string {
	return pickIdentity(r.Identity, r.Email)
}

type SubscriptionStatusResponse struct {
	IsPro bool `json:"isPro"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
