package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// App de teste com o mesmo ErrorHandler do servidor real, para validar o
// corpo JSON das respostas de erro.
func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro interno do servidor"})
		},
	})

	protected := app.Group("", JWTMiddleware(cfg))
	protected.Get("/protegido", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals(CtxUserIDKey),
			"role":    c.Locals(CtxUserRoleKey),
		})
	})
	return app
}

func errBody(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload.Error
}

func TestGuardMissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protegido", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Token de acesso obrigatório", errBody(t, resp.Body))
}

func TestGuardMalformedHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Token de acesso obrigatório", errBody(t, resp.Body))
}

func TestGuardInvalidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer token-invalido")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Token inválido ou expirado", errBody(t, resp.Body))
}

func TestGuardTokenSignedWithOtherSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := testApp(cfg)

	otherSecret := "outro-segredo-com-32-caracteres!"
	token, err := GenerateToken(otherSecret, testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Token inválido ou expirado", errBody(t, resp.Body))
}

func TestGuardValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := testApp(cfg)

	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, uint(42), payload.UserID)
	require.Equal(t, string(models.RoleAdmin), payload.Role)
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	adminOnly := app.Group("", JWTMiddleware(cfg), RequireRole(models.RoleAdmin))
	adminOnly.Get("/admin", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	// admin passa
	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// user comum não passa
	regular := testUser()
	regular.Role = models.RoleUser
	token, err = GenerateToken(cfg.JWTSecret, regular)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
