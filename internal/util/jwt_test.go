package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := SignSession("secret", 7, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := VerifySession("secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.OperatorID != 7 {
		t.Errorf("operator id = %d, want 7", claims.OperatorID)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, _ := SignSession("secret", 1, time.Hour)
	if _, err := VerifySession("other", token); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	claims := &OperatorClaims{
		OperatorID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := VerifySession("secret", token); err == nil {
		t.Error("expired token verified")
	}
}

func TestSessionTokenForeignIssuer(t *testing.T) {
	claims := &OperatorClaims{
		OperatorID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := VerifySession("secret", token); err == nil {
		t.Error("token from a foreign issuer verified")
	}
}

func TestSessionTokenMissingExpiry(t *testing.T) {
	claims := &OperatorClaims{
		OperatorID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: tokenIssuer,
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := VerifySession("secret", token); err == nil {
		t.Error("token without an expiry verified")
	}
}
