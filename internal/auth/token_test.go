package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndValidate(t *testing.T) {
	svc := NewTokenService("secret", 0)

	token, err := svc.Sign(42)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestSignWithTTLSetsExpiry(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Sign(3)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil }); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Errorf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewTokenService("secret", 0)
	good, _ := svc.Sign(1)

	otherSecret, _ := NewTokenService("other", 0).Sign(1)
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString([]byte("secret"))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{name: "Garbage", token: "not-a-token"},
		{name: "Tampered", token: good + "x"},
		{name: "Wrong secret", token: otherSecret},
		{name: "Expired", token: expired},
		{name: "Unsigned", token: none},
		{name: "Missing user id", token: noUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
