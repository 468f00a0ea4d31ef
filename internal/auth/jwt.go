// Package auth issues and validates the HS256 tokens that guard the operator
// routes.
package auth

import (
	"fmt"
	"time"

	"github.com/NomadCrew/portfolio-backend/errors"
	"github.com/golang-jwt/jwt/v5"
)

const (
	OperatorRole = "operator"
	issuer       = "portfolio-backend"
)

// OperatorClaims are the claims carried by an operator token.
type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateOperatorToken signs a token for subject that expires after ttl.
func GenerateOperatorToken(subject, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	now := time.Now()
	claims := OperatorClaims{
		Role: OperatorRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateOperatorToken parses tokenString and checks signature, expiry and
// role.
func ValidateOperatorToken(tokenString, secret string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.AuthenticationFailed("Invalid operator token")
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || claims.Role != OperatorRole {
		return nil, errors.AuthenticationFailed("Invalid token structure")
	}
	return claims, nil
}
