package handler

import (
	"errors"
	"net/http"

	"repurpose/internal/api/v1/dto"
	"repurpose/internal/model"
	"repurpose/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// GenerateHandler serves post generation.
type GenerateHandler struct {
	svc      service.GenerationService
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewGenerateHandler(svc service.GenerationService, validate *validator.Validate, logger zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{svc: svc, validate: validate, logger: logger.With().Str("handler", "GenerateHandler").Logger()}
}

// RegisterRoutes registers the generation endpoint and its legacy alias.
func (h *GenerateHandler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.Generate)
	r.Post("/api/repurpose", h.Generate)
}

// Generate godoc
// @Summary Turn an article into a social post
// @Description Fetches the article, generates a post for the chosen platform and counts the free-tier usage.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Generation request"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse "invalid request"
// @Failure 429 {object} dto.QuotaExceededResponse "daily limit reached"
// @Failure 500 {object} dto.ErrorResponse "generation failed"
// @Router /generate [post]
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error(), h.logger)
		return
	}

	res, err := h.svc.Generate(r.Context(), req.ToModel())
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res, h.logger)
}

func (h *GenerateHandler) writeGenerateError(w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		quotaErr      *service.QuotaExceededError
		configErr     *service.ConfigurationError
		fetchErr      *service.FetchError
		genErr        *service.GenerationError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message, h.logger)
	case errors.As(err, &quotaErr):
		writeJSON(w, http.StatusTooManyRequests, dto.QuotaExceededResponse{
			Error:        quotaErr.Error(),
			LimitReached: true,
			Usage:        model.NewUsageSnapshot(quotaErr.Used, quotaErr.Limit),
			Limit:        quotaErr.Limit,
		}, h.logger)
	case errors.As(err, &configErr):
		writeError(w, http.StatusInternalServerError, configErr.Message, h.logger)
	case errors.As(err, &fetchErr):
		h.logger.Warn().Err(err).Str("url", fetchErr.URL).Int("status", fetchErr.StatusCode).Msg("generation aborted by fetch failure")
		writeError(w, http.StatusInternalServerError, "Failed to fetch article", h.logger)
	case errors.As(err, &genErr):
		writeError(w, http.StatusInternalServerError, "Failed to generate content", h.logger)
	default:
		h.logger.Error().Err(err).Msg("generation failed")
		writeError(w, http.StatusInternalServerError, "Something went wrong", h.logger)
	}
}
