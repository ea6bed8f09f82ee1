package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por el middleware de la API de cartera.
const (
	RoleAdmin    = "admin"    // lectura y registro de ítems
	RoleCartera  = "cartera"  // analista de cartera: lectura y registro de ítems
	RoleConsulta = "consulta" // solo lectura de saldos
)

// ErrInvalidToken token mal formado, expirado o con firma incorrecta.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Subject identidad a firmar en el token.
type Subject struct {
	UserID    string
	CompanyID string
	Role      string
}

// Generate genera un token HS256 para el sujeto con expiración en minutos.
func Generate(secret, issuer string, expMinutes int, sub Subject) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    sub.UserID,
		CompanyID: sub.CompanyID,
		Role:      sub.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
