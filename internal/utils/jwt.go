package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims is what a validated token asserts about the requester.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// GenerateToken creates a signed JWT carrying the user's ID, email and
// role claims.
func GenerateToken(secret string, userID uuid.UUID, email, role string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns its claims.
func ParseToken(secret, tokenString string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenClaims{}, err
	}

	return TokenClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
