package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/pkg/jwt"
)

// Locals keys para UserID, CompanyID y Role en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, CompanyID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalCompanyID, claims.CompanyID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del token está en roles.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string { return localString(c, LocalCompanyID) }

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
