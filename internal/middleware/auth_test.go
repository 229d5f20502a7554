package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/logging"
)

// generateAPIKey generates a valid API key of specified length
func generateAPIKey(length int) string {
	key := make([]byte, length)
	for i := range key {
		key[i] = 'a' + byte(i%26)
	}
	return string(key)
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{"exactly 32 chars", generateAPIKey(32), true},
		{"longer than 32 chars", generateAPIKey(64), true},
		{"too short", generateAPIKey(31), false},
		{"empty", "", false},
		{"32 spaces", "                                ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAPIKey(tt.key); got != tt.expected {
				t.Errorf("ValidateAPIKey(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func authApp(t *testing.T, apiKeys []string, enabled bool) *fiber.App {
	t.Helper()

	logger := logging.NewDevelopment()
	app := fiber.New()
	app.Use(APIKeyAuth(logger, apiKeys, enabled))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := authApp(t, nil, false)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with auth disabled, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	app := authApp(t, []string{generateAPIKey(32)}, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_ValidKeyHeaders(t *testing.T) {
	key := generateAPIKey(32)
	app := authApp(t, []string{key}, true)

	headers := []struct {
		name   string
		header string
		value  string
	}{
		{"X-API-Key", "X-API-Key", key},
		{"Bearer", "Authorization", "Bearer " + key},
		{"plain Authorization", "Authorization", key},
	}

	for _, h := range headers {
		t.Run(h.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set(h.header, h.value)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}

			if resp.StatusCode != fiber.StatusOK {
				t.Errorf("Expected 200 with valid key, got %d", resp.StatusCode)
			}
		})
	}
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	app := authApp(t, []string{generateAPIKey(32)}, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", generateAPIKey(40))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_ShortConfiguredKeyRejected(t *testing.T) {
	// A configured key below the minimum length is dropped, so requests
	// presenting it are rejected.
	shortKey := "short-key"
	app := authApp(t, []string{shortKey}, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", shortKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for short configured key, got %d", resp.StatusCode)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("abcdefgh"); got != "abcd****" {
		t.Errorf("Expected abcd****, got %q", got)
	}
	if got := maskAPIKey("abc"); got != "****" {
		t.Errorf("Expected ****, got %q", got)
	}
}
