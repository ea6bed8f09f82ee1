package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Cartera-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "cartera-test"
	testExpMin    = 60
)

// buildTestApp aplicación Fiber mínima con AuthMiddleware + RequireRole y un handler dummy.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{
		UserID: testUserID, CompanyID: testCompanyID, Role: role,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitido(t *testing.T) {
	app := buildTestApp(pkgjwt.RoleAdmin, pkgjwt.RoleCartera)
	resp := doRequest(t, app, tokenForRole(t, pkgjwt.RoleCartera))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, pkgjwt.RoleCartera, body["role"])
}

func TestRequireRole_RolNoPermitido(t *testing.T) {
	app := buildTestApp(pkgjwt.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, pkgjwt.RoleConsulta))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(pkgjwt.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildTestApp(pkgjwt.RoleAdmin), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	resp := doRequest(t, buildTestApp(pkgjwt.RoleAdmin), "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	resp := doRequest(t, buildTestApp(pkgjwt.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, pkgjwt.RoleAdmin, body["role"])
}
