package dto

import (
	"strings"

	"repurpose/internal/model"
)

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	URL          string `json:"url" validate:"max=2048"`
	Platform     string `json:"platform" validate:"max=32"`
	Tone         string `json:"tone" validate:"max=32"`
	ThreadLength int    `json:"threadLength" validate:"gte=0"`
	Niche        string `json:"niche" validate:"max=200"`
	// Identity is the caller's email. Email is accepted for older clients.
	Identity string `json:"identity" validate:"max=320"`
	Email    string `json:"email" validate:"max=320"`
	IsPro    bool   `json:"isPro"`
}

// ToModel converts the request into the service input.
func (r GenerateRequest) ToModel() model.GenerationRequest {
	return model.GenerationRequest{
		URL:          r.URL,
		Platform:     strings.ToLower(strings.TrimSpace(r.Platform)),
		Tone:         strings.ToLower(strings.TrimSpace(r.Tone)),
		ThreadLength: r.ThreadLength,
		Niche:        r.Niche,
		Identity:     pickIdentity(r.Identity, r.Email),
		IsPro:        r.IsPro,
	}
}

// GenerateResponse is returned on a successful generation.
type GenerateResponse = model.GenerationResult

// QuotaExceededResponse is the 429 body. Usage carries the counters so the UI
// can show "used of limit".
type QuotaExceededResponse struct {
	Error        string              `json:"error"`
	LimitReached bool                `json:"limitReached"`
	Usage        model.UsageSnapshot `json:"usage"`
	Limit        int                 `json:"limit"`
}

func pickIdentity(identity, email string) string {
	if s := strings.TrimSpace(identity); s != "" {
		return s
	}
	return strings.TrimSpace(email)
}
