package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/teacher-portal-api/internal/gateway"
	"github.com/campusworks/teacher-portal-api/internal/middleware"
	"github.com/campusworks/teacher-portal-api/internal/navigation"
	"github.com/campusworks/teacher-portal-api/internal/service"
)

// newPortalApp wires a full application against one fake upstream serving
// both the analytics backend and the student directory.
func newPortalApp(t *testing.T, upstream http.Handler) *fiber.App {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	logger := zerolog.Nop()

	gw, err := gateway.New(gateway.Config{
		BackendBaseURL: server.URL,
		StudentBaseURL: server.URL,
		HTTPClient:     server.Client(),
		Logger:         logger,
	})
	require.NoError(t, err)

	sessions := service.NewSessionService(redisClient, "test-secret", time.Hour, logger)
	progress := service.NewProgressService(gw, logger)
	registry := navigation.NewRegistry(gw, progress, logger)

	app := fiber.New()

	auth := app.Group("/api/v1/auth")
	NewAuthHandler(gw, sessions, registry, time.Hour, logger).Register(auth)

	portal := app.Group("/api/v1/portal", middleware.RequireSession(sessions))
	NewPortalHandler(registry, logger).Register(portal)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func loginUpstream(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/auth/teacher/login" {
		_, _ = w.Write([]byte(`{"success":true,"teacher":{"teacher_name":"Dr. Rao","assigned_sections":["CSE-A","CSE-B"]}}`))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(loginUpstream))

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1", "password": "secret"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
}

func TestLoginRejectedCredentials(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid credentials"}`))
	}))

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1", "password": "wrong"}, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginMissingFields(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(loginUpstream))

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1"}, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginUpstreamOutage(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	resp := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1", "password": "secret"}, nil)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestLogoutDestroysSession(t *testing.T) {
	app := newPortalApp(t, http.HandlerFunc(loginUpstream))

	login := postJSON(t, app, "/api/v1/auth/login", map[string]string{"uni_reg_id": "REG-1", "password": "secret"}, nil)
	cookie := sessionCookie(t, login)

	logout := postJSON(t, app, "/api/v1/auth/logout", nil, cookie)
	require.Equal(t, fiber.StatusOK, logout.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/state", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
