package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/service"
)

// PredictionHandler handles HTTP requests for the prediction flow.
type PredictionHandler struct {
	svc    *service.PredictionService
	logger *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(svc *service.PredictionService, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		svc:    svc,
		logger: logger,
	}
}

// History handles GET /api/v1/predict/history?bean_name=X. Returns the
// caller's brews of the named bean over the last year, oldest first. A
// bean with no brews yields an empty array, not an error.
func (h *PredictionHandler) History(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	entries, err := h.svc.History(r.Context(), caller, r.URL.Query().Get("bean_name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Predict handles POST /api/v1/predict/coffee. The predictor's response
// body is passed through verbatim.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req model.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Predict(r.Context(), caller, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("prediction_served",
		"user_id", caller.ID,
		"bean_name", req.BeanName,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}

// Weather handles GET /api/v1/predict/weather. Provider failures are
// absorbed; the response always carries a usable reading.
func (h *PredictionHandler) Weather(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	reading := h.svc.CurrentWeather(r.Context())
	writeJSON(w, http.StatusOK, reading)
}

// handleServiceError maps prediction service errors to HTTP responses.
func (h *PredictionHandler) handleServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	var rejected *service.PredictionRejectedError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.As(err, &rejected):
		writeError(w, http.StatusBadGateway, "PREDICTOR_REJECTED", rejected.Detail)
	case errors.Is(err, service.ErrPredictorUnavailable):
		writeError(w, http.StatusBadGateway, "PREDICTOR_UNAVAILABLE", "Prediction service is unavailable")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
