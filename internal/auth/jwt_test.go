package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	a := NewJWTAuthenticator("secret", time.Hour, "allspace", "allspace")

	signed, err := a.GenerateToken(42, "admin")
	if err != nil {
		t.Fatal(err)
	}

	token, err := a.ValidateToken(signed)
	if err != nil {
		t.Fatal(err)
	}
	if !token.Valid {
		t.Fatal("token reported invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type %T", token.Claims)
	}
	if claims["sub"].(float64) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Errorf("role = %v, want admin", claims["role"])
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("secret", time.Hour, "allspace", "allspace")
	b := NewJWTAuthenticator("other", time.Hour, "allspace", "allspace")

	signed, err := a.GenerateToken(1, "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.ValidateToken(signed); err == nil {
		t.Fatal("token signed with another secret validated")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	a := NewJWTAuthenticator("secret", -time.Minute, "allspace", "allspace")

	signed, err := a.GenerateToken(1, "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.ValidateToken(signed); err == nil {
		t.Fatal("expired token validated")
	}
}
