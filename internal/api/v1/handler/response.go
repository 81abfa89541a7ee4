package handler

import (
	"encoding/json"
	"net/http"

	"repurpose/internal/api/v1/dto"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, body any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger zerolog.Logger) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg}, logger)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// MethodNotAllowed answers wrong-verb requests on API routes.
func MethodNotAllowed(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", logger)
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func Health(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"}, logger)
	}
}
