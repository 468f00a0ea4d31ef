package auth

import (
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-for-testing"

func TestGenerateOperatorToken(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
	}{
		{name: "valid token", secret: testSecret, ttl: time.Hour},
		{name: "empty secret", secret: "", ttl: time.Hour, wantErr: true},
		{name: "zero ttl", secret: testSecret, ttl: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateOperatorToken("admin", tt.secret, tt.ttl)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)

			claims, err := ValidateOperatorToken(token, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, "admin", claims.Subject)
			assert.Equal(t, OperatorRole, claims.Role)
		})
	}
}

func TestValidateOperatorToken(t *testing.T) {
	valid, err := GenerateOperatorToken("admin", testSecret, time.Hour)
	require.NoError(t, err)

	expired := signClaims(t, OperatorClaims{
		Role: OperatorRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	wrongRole := signClaims(t, OperatorClaims{
		Role: "visitor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noExpiry := signClaims(t, OperatorClaims{
		Role:             OperatorRole,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin", Issuer: issuer},
	})

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "another-secret-key-that-is-long-enough"},
		{name: "expired", token: expired, secret: testSecret},
		{name: "wrong role", token: wrongRole, secret: testSecret},
		{name: "missing expiry", token: noExpiry, secret: testSecret},
		{name: "garbage", token: "not.a.token", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateOperatorToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.AuthError, appErr.Type)
		})
	}
}

func signClaims(t *testing.T, claims OperatorClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}
