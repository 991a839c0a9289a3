package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/config"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:    testSecret,
		Issuer:    "storefront",
		AdminRole: "admin",
	})
}

func newTestClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    "storefront",
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    "42",
		Username:  "finance",
		Roles:     []string{"admin"},
		TokenType: TokenTypeAccess,
	}
}

func sign(t *testing.T, method jwt.SigningMethod, claims *Claims, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestNewJWTService(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", Issuer: "iss", AdminRole: "ops", Leeway: time.Second})

	assert.Equal(t, []byte("s"), svc.secret)
	assert.Equal(t, "iss", svc.issuer)
	assert.Equal(t, "ops", svc.AdminRole())
	assert.Equal(t, time.Second, svc.leeway)
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	token := sign(t, jwt.SigningMethodHS256, newTestClaims(), []byte(testSecret))

	claims, err := svc.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "finance", claims.Username)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("seller"))
	assert.Greater(t, claims.GetRemainingTTL(), 14*time.Minute)
}

func TestValidateAccessToken_Failures(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   func() string { return "not.a.token" },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   func() string { return sign(t, jwt.SigningMethodHS256, newTestClaims(), []byte("another-secret-that-is-long-enough")) },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "other HMAC algorithm",
			token:   func() string { return sign(t, jwt.SigningMethodHS512, newTestClaims(), []byte(testSecret)) },
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func() string {
				c := newTestClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func() string {
				c := newTestClaims()
				c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "no expiry",
			token: func() string {
				c := newTestClaims()
				c.ExpiresAt = nil
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := newTestClaims()
				c.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token",
			token: func() string {
				c := newTestClaims()
				c.TokenType = TokenTypeRefresh
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrInvalidTokenType,
		},
		{
			name: "missing user",
			token: func() string {
				c := newTestClaims()
				c.UserID = ""
				return sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			wantErr: ErrMissingUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAccessToken_Leeway(t *testing.T) {
	c := newTestClaims()
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-10 * time.Second))
	token := sign(t, jwt.SigningMethodHS256, c, []byte(testSecret))

	_, err := newTestJWTService().ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	lenient := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "storefront", Leeway: time.Minute})
	_, err = lenient.ValidateAccessToken(token)
	assert.NoError(t, err)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).GetRemainingTTL())

	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, c.GetRemainingTTL())
}
