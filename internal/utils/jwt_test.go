package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT(testSecret, 42)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if claims.UserID != 42 || claims.IsAdmin() {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestAdminToken(t *testing.T) {
	token, err := GenerateAdminJWT(testSecret)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	claims, err := ValidateToken(testSecret, token)
	if err != nil || !claims.IsAdmin() {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _ := GenerateJWT(testSecret, 1)
	if _, err := ValidateToken("other", token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestValidateExpired(t *testing.T) {
	token, _ := sign(testSecret, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if _, err := ValidateToken(testSecret, token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := GenerateJWT("", 1); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("err = %v", err)
	}
	if _, err := ValidateToken("", "x.y.z"); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("err = %v", err)
	}
}
