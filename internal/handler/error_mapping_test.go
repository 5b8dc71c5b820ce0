package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brewlog/brewlog/internal/handler/dto"
	"github.com/brewlog/brewlog/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestUserHandlerErrorMapping(t *testing.T) {
	h := NewUserHandler(nil, testLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &service.ValidationError{Message: "Name is required"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"email_taken", service.ErrEmailExists, http.StatusConflict, "EMAIL_TAKEN"},
		{"name_taken", service.ErrUserNameTaken, http.StatusConflict, "NAME_TAKEN"},
		{"not_found", service.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, test.err)

			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
			if resp := decodeError(t, rec); resp.Code != test.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, test.wantCode)
			}
		})
	}
}

func TestUserHandlerValidationMessagePassedThrough(t *testing.T) {
	h := NewUserHandler(nil, testLogger())
	rec := httptest.NewRecorder()

	h.handleServiceError(rec, &service.ValidationError{Message: "Password must be at least 6 characters"})

	if resp := decodeError(t, rec); resp.Error != "Password must be at least 6 characters" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestBeanHandlerErrorMapping(t *testing.T) {
	h := NewBeanHandler(nil, testLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &service.ValidationError{Message: "Bean name is required"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not_found", service.ErrBeanNotFound, http.StatusNotFound, "BEAN_NOT_FOUND"},
		{"name_taken", service.ErrBeanNameExists, http.StatusConflict, "BEAN_NAME_TAKEN"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, test.err)

			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
			if resp := decodeError(t, rec); resp.Code != test.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, test.wantCode)
			}
		})
	}
}

func TestRecipeHandlerErrorMapping(t *testing.T) {
	h := NewRecipeHandler(nil, testLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"recipe_not_found", service.ErrRecipeNotFound, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"bean_not_found", service.ErrBeanNotFound, http.StatusNotFound, "BEAN_NOT_FOUND"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"validation", &service.ValidationError{Message: "gram must be positive"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, test.err)

			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
			if resp := decodeError(t, rec); resp.Code != test.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, test.wantCode)
			}
		})
	}
}

func TestPredictionHandlerErrorMapping(t *testing.T) {
	h := NewPredictionHandler(nil, testLogger())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "rejected_surfaces_detail",
			err:        &service.PredictionRejectedError{Detail: "model not trained for this bean"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "PREDICTOR_REJECTED",
			wantError:  "model not trained for this bean",
		},
		{
			name:       "unavailable",
			err:        service.ErrPredictorUnavailable,
			wantStatus: http.StatusBadGateway,
			wantCode:   "PREDICTOR_UNAVAILABLE",
			wantError:  "Prediction service is unavailable",
		},
		{
			name:       "validation",
			err:        &service.ValidationError{Message: "bean_name is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantError:  "bean_name is required",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, test.err)

			if rec.Code != test.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, test.wantStatus)
			}
			resp := decodeError(t, rec)
			if resp.Code != test.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, test.wantCode)
			}
			if resp.Error != test.wantError {
				t.Errorf("error = %q, want %q", resp.Error, test.wantError)
			}
		})
	}
}
