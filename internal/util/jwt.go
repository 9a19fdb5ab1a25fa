package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer tags every session token this service signs, so tokens
// minted elsewhere are rejected even when the secret leaks into reuse.
const tokenIssuer = "school-fees"

// OperatorClaims is the JWT payload for a signed-in operator. The system
// runs with a single operator account, but the id is carried so the
// middleware can confirm the account still exists on every request.
type OperatorClaims struct {
	OperatorID uint `json:"operator_id"`
	jwt.RegisteredClaims
}

// SignSession issues a session token for the operator with the given TTL.
func SignSession(secret string, operatorID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &OperatorClaims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifySession parses a session token. Tokens without an expiry, with a
// foreign issuer, or signed with anything but HMAC are rejected.
func VerifySession(secret, tokenStr string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &OperatorClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
