package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brewlog/brewlog/internal/handler/dto"
	"github.com/brewlog/brewlog/internal/service"
)

// BeanHandler handles HTTP requests for bean operations.
type BeanHandler struct {
	svc    *service.BeanService
	logger *slog.Logger
}

// NewBeanHandler creates a new BeanHandler.
func NewBeanHandler(svc *service.BeanService, logger *slog.Logger) *BeanHandler {
	return &BeanHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/beans.
func (h *BeanHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req dto.CreateBeanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bean, err := h.svc.CreateBean(r.Context(), caller, service.CreateBeanInput{
		Name:   req.Name,
		Origin: req.Origin,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("bean_created",
		"bean_id", bean.ID,
		"owner_id", bean.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ToBeanResponse(bean))
}

// Get handles GET /api/v1/beans/{id}.
func (h *BeanHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	bean, err := h.svc.GetBean(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBeanResponse(bean))
}

// List handles GET /api/v1/beans.
func (h *BeanHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	beans, err := h.svc.ListBeans(r.Context(), caller)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBeanListResponse(beans))
}

// ListForUser handles GET /api/v1/beans/user/{userID}.
func (h *BeanHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	beans, err := h.svc.ListBeansForUser(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBeanListResponse(beans))
}

// Update handles PUT /api/v1/beans/{id}.
func (h *BeanHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req dto.UpdateBeanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	bean, err := h.svc.UpdateBean(r.Context(), caller, chi.URLParam(r, "id"), service.UpdateBeanInput{
		Name:   req.Name,
		Origin: req.Origin,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("bean_updated", "bean_id", bean.ID)

	writeJSON(w, http.StatusOK, dto.ToBeanResponse(bean))
}

// Delete handles DELETE /api/v1/beans/{id}. All recipes recorded against
// the bean are removed in the same transaction.
func (h *BeanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteBean(r.Context(), caller, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("bean_deleted", "bean_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps bean service errors to HTTP responses.
func (h *BeanHandler) handleServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.Is(err, service.ErrBeanNotFound):
		writeError(w, http.StatusNotFound, "BEAN_NOT_FOUND", "Bean not found")
	case errors.Is(err, service.ErrBeanNameExists):
		writeError(w, http.StatusConflict, "BEAN_NAME_TAKEN", "Bean name already exists")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access to this resource is forbidden")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
