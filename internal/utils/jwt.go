package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal collections a token can belong to. Customer and admin accounts
// live in separate tables, so the token must say which one it references.
const (
	PrincipalUser  = "user"
	PrincipalAdmin = "admin"
)

// TokenClaims binds an account id to its role and backing collection.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Principal string `json:"principal"`
	jwt.RegisteredClaims
}

// Identity is the parsed, validated content of a bearer token.
type Identity struct {
	ID        uuid.UUID
	Role      string
	Principal string
}

// GenerateToken creates a signed JWT for the provided account.
func GenerateToken(secret string, id uuid.UUID, role, principal string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		UserID:    id.String(),
		Role:      role,
		Principal: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the embedded identity.
func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	return Identity{ID: id, Role: claims.Role, Principal: claims.Principal}, nil
}
