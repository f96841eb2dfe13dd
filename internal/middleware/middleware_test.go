package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/service/auth"
)

func newApp() *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger)})
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound("order not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db exploded") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "order not found", errorBody(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", errorBody(t, resp))
}

func TestRequireSelf(t *testing.T) {
	me := uuid.New()

	app := newApp()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(BusinessIDContextKey, me)
		return c.Next()
	})
	app.Get("/businesses/:id", RequireSelf("id"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"Self", "/businesses/" + me.String(), http.StatusOK},
		{"Other", "/businesses/" + uuid.NewString(), http.StatusForbidden},
		{"Malformed", "/businesses/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireSelf_Unauthenticated(t *testing.T) {
	app := newApp()
	app.Get("/businesses/:id", RequireSelf("id"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/businesses/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	app := newApp()
	app.Use(RateLimit(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests from this IP, please try again later", errorBody(t, resp))
}

func TestSecurityHeaders(t *testing.T) {
	app := newApp()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
}

func TestExtractToken(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(extractToken(c)) })

	read := func(req *http.Request) string {
		resp, err := app.Test(req)
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}

	req := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
	req.Header.Set("Authorization", "Bearer header")
	assert.Equal(t, "header", read(req))

	assert.Equal(t, "query", read(httptest.NewRequest(http.MethodGet, "/?token=query", nil)))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie"})
	assert.Equal(t, "cookie", read(req))

	req = httptest.NewRequest(http.MethodGet, "/?token=query", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "query", read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie"})
	assert.Equal(t, "cookie", read(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", read(req))
}

type stubAuthenticator struct {
	businesses map[uuid.UUID]*domain.Business
	tokens     map[string]uuid.UUID
}

func (s *stubAuthenticator) ValidateAccessToken(token string) (*auth.Claims, error) {
	id, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Claims{UserID: id}, nil
}

func (s *stubAuthenticator) GetBusinessByID(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	return s.businesses[id], nil
}

func TestAuthRequired(t *testing.T) {
	known := &domain.Business{ID: uuid.New(), BusinessName: "Bakery"}
	deleted := uuid.New()

	stub := &stubAuthenticator{
		businesses: map[uuid.UUID]*domain.Business{known.ID: known},
		tokens:     map[string]uuid.UUID{"known": known.ID, "deleted": deleted},
	}

	app := newApp()
	app.Get("/me", AuthRequired(stub), func(c *fiber.Ctx) error {
		return c.SendString(GetCurrentBusiness(c).BusinessName)
	})

	tests := []struct {
		name    string
		token   string
		want    int
		message string
	}{
		{"Valid", "known", http.StatusOK, ""},
		{"Missing", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"Invalid", "forged", http.StatusUnauthorized, "Invalid or expired token"},
		{"AccountGone", "deleted", http.StatusUnauthorized, "Business account not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			if tt.message != "" {
				assert.Equal(t, tt.message, errorBody(t, resp))
				return
			}
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, "Bakery", string(body))
		})
	}
}
