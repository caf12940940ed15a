package http_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	delivery "main/internal/delivery/http"
	authHandler "main/internal/delivery/http/auth_handler"
	metrics "main/internal/metrics"
	sessionRepo "main/internal/storage/memory/session"
	userRepo "main/internal/storage/memory/user"
	authUs "main/internal/usecase/auth"
	errHandler "main/pkg/error_handler"
	"main/pkg/hasher"
	"main/pkg/token"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)
	logger := slog.New(slog.DiscardHandler)

	usecase := authUs.NewAuthUsecase(
		userRepo.NewUserRepo(m),
		sessionRepo.NewSessionRepo(m),
		hasher.New(),
		token.NewGenerator(32),
		24*time.Hour,
		logger,
		m,
	)

	e := echo.New()
	e.HTTPErrorHandler = errHandler.HandleError
	delivery.MapRoutes(e, authHandler.NewAuthHandler(usecase), usecase, logger, m, registry)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response %q is not JSON: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func register(t *testing.T, e *echo.Echo, email, password string) map[string]any {
	t.Helper()
	rec, body := doJSON(t, e, http.MethodPost, "/auth/register",
		fmt.Sprintf(`{"email":%q,"password":%q,"confirmPassword":%q}`, email, password, password), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	return body
}

func login(t *testing.T, e *echo.Echo, email, password string) map[string]any {
	t.Helper()
	rec, body := doJSON(t, e, http.MethodPost, "/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	return body
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	e := newTestServer(t)

	regBody := register(t, e, "john@example.com", "SecurePass123")
	user, ok := regBody["user"].(map[string]any)
	if !ok {
		t.Fatalf("register body has no user object: %v", regBody)
	}
	if user["email"] != "john@example.com" {
		t.Errorf("registered email = %v", user["email"])
	}

	loginBody := login(t, e, "john@example.com", "SecurePass123")
	tok, _ := loginBody["token"].(string)
	if tok == "" {
		t.Fatal("login response carries no token")
	}
	if loginBody["sessionId"] == "" || loginBody["expiresAt"] == "" {
		t.Errorf("login response incomplete: %v", loginBody)
	}

	rec, profile := doJSON(t, e, http.MethodGet, "/auth/profile", "",
		map[string]string{echo.HeaderAuthorization: "Bearer " + tok})
	if rec.Code != http.StatusOK {
		t.Fatalf("profile returned %d: %s", rec.Code, rec.Body.String())
	}
	if profile["id"] != user["id"] || profile["email"] != "john@example.com" {
		t.Errorf("profile = %v, want id %v", profile, user["id"])
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("profile response leaks a password field: %s", rec.Body.String())
	}
}

func TestRegisterFailures(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "john@example.com", "SecurePass123")

	tests := []struct {
		name string
		body string
	}{
		{"duplicate email", `{"email":"john@example.com","password":"SecurePass123","confirmPassword":"SecurePass123"}`},
		{"short password", `{"email":"new@example.com","password":"short","confirmPassword":"short"}`},
		{"mismatched confirmation", `{"email":"new@example.com","password":"SecurePass123","confirmPassword":"Nope"}`},
		{"missing fields", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, e, http.MethodPost, "/auth/register", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if body["error"] == "" {
				t.Errorf("error body missing: %v", body)
			}
		})
	}
}

func TestLoginFailureStatuses(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "john@example.com", "SecurePass123")

	rec, body := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"john@example.com","password":"WrongPass999"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("wrong password error = %v", body["error"])
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/login", `{"email":"no-at-sign","password":"SecurePass123"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed email status = %d, want 400", rec.Code)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "john@example.com", "SecurePass123")
	loginBody := login(t, e, "john@example.com", "SecurePass123")
	sessionID, _ := loginBody["sessionId"].(string)

	rec, body := doJSON(t, e, http.MethodPost, "/auth/logout", "",
		map[string]string{"X-Session-Id": sessionID})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout returned %d: %s", rec.Code, rec.Body.String())
	}
	if body["success"] != true {
		t.Errorf("logout body = %v", body)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/logout", "",
		map[string]string{"X-Session-Id": sessionID})
	if rec.Code != http.StatusNotFound {
		t.Errorf("second logout status = %d, want 404", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/logout", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("logout without header status = %d, want 400", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "john@example.com", "SecurePass123")
	loginBody := login(t, e, "john@example.com", "SecurePass123")
	tok, _ := loginBody["token"].(string)

	rec, body := doJSON(t, e, http.MethodPost, "/auth/validate", "",
		map[string]string{echo.HeaderAuthorization: "Bearer " + tok})
	if rec.Code != http.StatusOK {
		t.Fatalf("validate returned %d: %s", rec.Code, rec.Body.String())
	}
	if body["valid"] != true || body["userId"] == "" {
		t.Errorf("validate body = %v", body)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/validate", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("validate without header status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/validate", "",
		map[string]string{echo.HeaderAuthorization: "Bearer bogus"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("validate with bogus token status = %d, want 401", rec.Code)
	}
}

func TestLogoutAllEndpoint(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "john@example.com", "SecurePass123")
	login(t, e, "john@example.com", "SecurePass123")
	loginBody := login(t, e, "john@example.com", "SecurePass123")
	tok, _ := loginBody["token"].(string)

	rec, body := doJSON(t, e, http.MethodPost, "/auth/logout-all", "",
		map[string]string{echo.HeaderAuthorization: "Bearer " + tok})
	if rec.Code != http.StatusOK {
		t.Fatalf("logout-all returned %d: %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Logged out from 2 session(s)" {
		t.Errorf("logout-all message = %v", body["message"])
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/auth/logout-all", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("logout-all without auth status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", rec.Code, body)
	}
}
