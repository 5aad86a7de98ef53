package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"learning-platform/backend/config"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is what a verified token says about its bearer.
type TokenClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateJWTToken(userID uint, role string, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTTTL())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// ParseToken verifies an HS256 token. A "Bearer " prefix is accepted.
func ParseToken(raw string, cfg *config.Config) (TokenClaims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	var claims TokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID == 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	return claims, nil
}

func ExtractClaimsFromToken(c *fiber.Ctx, cfg *config.Config) (TokenClaims, error) {
	return ParseToken(c.Get(fiber.HeaderAuthorization), cfg)
}
