package auth

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func scopeApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/scoped", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		scope, err := ScopeFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"company_id": scope.CompanyID,
			"branch_id":  scope.BranchID,
		})
	})
	return app
}

func doScoped(t *testing.T, app *fiber.App, token, query string) (int, map[string]uint) {
	t.Helper()
	req := httptest.NewRequest("GET", "/scoped"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	if resp.StatusCode != fiber.StatusOK {
		return resp.StatusCode, nil
	}
	var payload map[string]uint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestScopeUserUsesClaimsBranch(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	user := testUser()
	user.Role = models.RoleUser
	token, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	status, payload := doScoped(t, app, token, "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, uint(7), payload["company_id"])
	require.Equal(t, uint(3), payload["branch_id"])
}

// Usuário comum não escolhe filial: o parâmetro é ignorado e vale o token.
func TestScopeUserCannotOverrideBranch(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	user := testUser()
	user.Role = models.RoleUser
	token, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	status, payload := doScoped(t, app, token, "?branch_id=99")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, uint(3), payload["branch_id"])
}

func stubBranchCheck(t *testing.T, fn func(branchID, companyID uint) (bool, error)) {
	t.Helper()
	orig := branchInCompany
	branchInCompany = fn
	t.Cleanup(func() { branchInCompany = orig })
}

func TestScopeAdminOverridesBranchOfOwnCompany(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	stubBranchCheck(t, func(branchID, companyID uint) (bool, error) {
		return branchID == 9 && companyID == 7, nil
	})

	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)

	status, payload := doScoped(t, app, token, "?branch_id=9")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, uint(7), payload["company_id"])
	require.Equal(t, uint(9), payload["branch_id"])
}

// Filial de outra empresa (ou inexistente) não passa, mesmo para admin.
func TestScopeAdminCannotUseBranchOfOtherCompany(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	stubBranchCheck(t, func(branchID, companyID uint) (bool, error) {
		return false, nil
	})

	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)

	status, _ := doScoped(t, app, token, "?branch_id=42")
	require.Equal(t, fiber.StatusForbidden, status)
}

func TestScopeAdminDefaultsToOwnBranch(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)

	status, payload := doScoped(t, app, token, "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, uint(3), payload["branch_id"])
}

func TestScopeWithoutCompany(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	user := testUser()
	user.CompanyID = nil
	token, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	status, _ := doScoped(t, app, token, "")
	require.Equal(t, fiber.StatusForbidden, status)
}

func TestScopeInvalidBranchParam(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := scopeApp(cfg)

	token, err := GenerateToken(cfg.JWTSecret, testUser())
	require.NoError(t, err)

	status, _ := doScoped(t, app, token, "?branch_id=abc")
	require.Equal(t, fiber.StatusBadRequest, status)
}
