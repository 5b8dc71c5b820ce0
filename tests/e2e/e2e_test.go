//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type beanResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Origin  string `json:"origin"`
}

type recipeResponse struct {
	ID     string `json:"id"`
	BeanID string `json:"bean_id"`
	Date   string `json:"date"`
}

type weatherResponse struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"weather"`
	Fallback    bool    `json:"fallback"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// TestE2ESmoke walks the full account lifecycle against a running server:
// register, login, record beans and brews, read them back scoped to the
// owner, query the weather reading, and tear the account down.
func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("BREWLOG_BASE_URL", "http://localhost:8080")

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("e2e-%d@example.com", suffix)
	name := fmt.Sprintf("e2e-%d", suffix)

	// Register
	var registered userResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/users/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret1",
	}, &registered)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}

	// Short password is rejected up front.
	var rejected errorResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/users/register", "", map[string]any{
		"name":     name + "-short",
		"email":    fmt.Sprintf("short-%d@example.com", suffix),
		"password": "12345",
	}, &rejected)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for a 5 character password, got %d", status)
	}

	// Login
	var login loginResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/users/login", "", map[string]any{
		"email":    email,
		"password": "secret1",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", status)
	}
	if login.Token == "" {
		t.Fatal("login response missing token")
	}
	token := login.Token

	// Create a bean
	var bean beanResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/beans", token, map[string]any{
		"name":   "Yirgacheffe",
		"origin": "Ethiopia",
	}, &bean)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from bean create, got %d", status)
	}
	if bean.OwnerID != login.User.ID {
		t.Fatalf("bean owner = %q, want the caller %q", bean.OwnerID, login.User.ID)
	}

	// Duplicate name for the same owner conflicts.
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/beans", token, map[string]any{
		"name":   "Yirgacheffe",
		"origin": "Ethiopia",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate bean name, got %d", status)
	}

	// Record a brew
	var recipe recipeResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/recipes", token, map[string]any{
		"bean_id":         bean.ID,
		"date":            time.Now().UTC().Format("2006-01-02"),
		"weather":         "Clear",
		"temperature":     24.5,
		"humidity":        55,
		"gram":            15.0,
		"mesh":            5.0,
		"extraction_time": 120.0,
	}, &recipe)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from recipe create, got %d", status)
	}

	// History includes the brew, oldest first.
	var history []map[string]any
	status = doJSON(t, http.MethodGet, baseURL+"/api/v1/predict/history?bean_name=Yirgacheffe", token, nil, &history)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from history, got %d", status)
	}
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}

	// A second account cannot see the first account's bean.
	otherToken := registerAndLogin(t, baseURL, fmt.Sprintf("other-%d", suffix), fmt.Sprintf("other-%d@example.com", suffix))
	status = doJSON(t, http.MethodGet, baseURL+"/api/v1/beans/"+bean.ID, otherToken, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign bean, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/api/v1/beans/user/"+login.User.ID, otherToken, nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign user listing, got %d", status)
	}

	// Weather endpoint always answers, live or fallback.
	var weather weatherResponse
	status = doJSON(t, http.MethodGet, baseURL+"/api/v1/predict/weather", token, nil, &weather)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from weather, got %d", status)
	}
	if weather.Condition == "" {
		t.Fatal("weather response missing condition")
	}

	// Delete the account; bean and recipe go with it.
	status = doJSON(t, http.MethodDelete, baseURL+"/api/v1/users/me", token, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 from account delete, got %d", status)
	}
	status = doJSON(t, http.MethodGet, baseURL+"/api/v1/users/me", token, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after account delete, got %d", status)
	}
}

func registerAndLogin(t *testing.T, baseURL, name, email string) string {
	t.Helper()

	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/users/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret1",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}

	var login loginResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/v1/users/login", "", map[string]any{
		"email":    email,
		"password": "secret1",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", status)
	}
	return login.Token
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
