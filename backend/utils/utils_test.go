package utils

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning-platform/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "testsecret", JWTTTLHours: 1}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateJWTToken(7, "admin", cfg)
	require.NoError(t, err)

	claims, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	claims, err = ParseToken("Bearer "+token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestParseToken_Rejects(t *testing.T) {
	cfg := testConfig()

	other := &config.Config{JWTSecret: "other", JWTTTLHours: 1}
	foreign, err := GenerateJWTToken(1, "student", other)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"wrong key":   foreign,
		"expired":     expiredString,
		"bearer only": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token, cfg)
			assert.Error(t, err)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Email    string `json:"email" validate:"required,email"`
		PassMark int    `json:"pass_mark_percentage" validate:"gte=0,lte=100"`
	}

	assert.Nil(t, ValidateStruct(input{Email: "a@example.com", PassMark: 70}))

	errs := ValidateStruct(input{Email: "nope", PassMark: 120})
	assert.Equal(t, "must be a valid email", errs["email"])
	assert.Equal(t, "must be less than or equal to 100", errs["pass_mark_percentage"])
}

func TestInitLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := InitLogger(LoggerConfig{Format: "json", Level: "debug", Output: &buf})
	log.Debug("hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "v", line["k"])
	assert.Equal(t, "learning-platform", line["app"])
}
