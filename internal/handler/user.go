package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brewlog/brewlog/internal/auth"
	"github.com/brewlog/brewlog/internal/handler/dto"
	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/v1/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  *dto.ToUserResponse(user),
	})
}

// Logout handles POST /api/v1/users/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), bearerToken(r)); err != nil {
		h.handleServiceError(w, err)
		return
	}

	if caller != nil {
		h.logger.Info("user_logged_out", "user_id", caller.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserResponse(caller))
}

// UpdateMe handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), caller.ID, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// DeleteMe handles DELETE /api/v1/users/me. Every bean and recipe the
// caller owns goes with the account.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), caller.ID, bearerToken(r)); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", caller.ID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps user service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
	case errors.Is(err, service.ErrUserNameTaken):
		writeError(w, http.StatusConflict, "NAME_TAKEN", "Name already taken")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// mustCaller resolves the authenticated user or writes a 401.
func mustCaller(w http.ResponseWriter, r *http.Request) *model.User {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or missing session token")
	}
	return caller
}

// bearerToken extracts the raw bearer token from the request, if any.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
