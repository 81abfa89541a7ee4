package handler

import (
	"errors"
	"net/http"

	"repurpose/internal/api/v1/dto"
	"repurpose/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SubscriptionHandler handles subscription-related endpoints.
type SubscriptionHandler struct {
	billing       service.BillingService
	publicBaseURL string
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler. publicBaseURL may be
// empty, in which case checkout redirects are built from the request host.
func NewSubscriptionHandler(billing service.BillingService, publicBaseURL string, validate *validator.Validate, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		billing:       billing,
		publicBaseURL: publicBaseURL,
		validate:      validate,
		logger:        logger.With().Str("handler", "SubscriptionHandler").Logger(),
	}
}

// RegisterRoutes registers the subscription endpoints and their legacy aliases.
func (h *SubscriptionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/check-subscription", h.CheckSubscription)
	r.Post("/api/check-subscription", h.CheckSubscription)
	r.Post("/checkout", h.Checkout)
	r.Post("/api/checkout", h.Checkout)
}

func (h *SubscriptionHandler) decodeIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req dto.SubscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", h.logger)
		return "", false
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error(), h.logger)
		return "", false
	}
	identity := req.GetIdentity()
	if identity == "" {
		writeError(w, http.StatusBadRequest, "Email is required", h.logger)
		return "", false
	}
	return identity, true
}

// CheckSubscription godoc
// @Summary Check whether an email has an active Pro subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionRequest true "Identity to check"
// @Success 200 {object} dto.SubscriptionStatusResponse
// @Failure 400 {object} dto.ErrorResponse "email is required"
// @Failure 500 {object} dto.ErrorResponse "failed to check subscription"
// @Router /check-subscription [post]
func (h *SubscriptionHandler) CheckSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.decodeIdentity(w, r)
	if !ok {
		return
	}
	isPro, err := h.billing.IsPro(r.Context(), identity)
	if err != nil {
		var configErr *service.ConfigurationError
		if errors.As(err, &configErr) {
			writeError(w, http.StatusInternalServerError, configErr.Message, h.logger)
			return
		}
		h.logger.Error().Err(err).Msg("failed to check subscription")
		writeError(w, http.StatusInternalServerError, "Failed to check subscription", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionStatusResponse{IsPro: isPro}, h.logger)
}

// Checkout godoc
// @Summary Initiate a Stripe Checkout session for the Pro plan
// @Description Creates a Stripe Checkout session and returns its URL.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionRequest true "Identity to subscribe"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse "email is required"
// @Failure 500 {object} dto.ErrorResponse "failed to create checkout session"
// @Router /checkout [post]
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.decodeIdentity(w, r)
	if !ok {
		return
	}
	baseURL := service.CheckoutBaseURL(h.publicBaseURL, r.Host)
	url, err := h.billing.CreateCheckoutSession(r.Context(), identity, baseURL)
	if err != nil {
		var configErr *service.ConfigurationError
		if errors.As(err, &configErr) {
			writeError(w, http.StatusInternalServerError, configErr.Message, h.logger)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create checkout session")
		writeError(w, http.StatusInternalServerError, "Failed to create checkout session", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckoutResponse{URL: url}, h.logger)
}
