package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhvt/bus-ticketing/internal/model"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}

func TestNewBookingCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewBookingCode()
		if !strings.HasPrefix(code, "BK-") || len(code) != 15 {
			t.Fatalf("unexpected code shape: %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code not uppercase: %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 95 {
		t.Fatalf("codes look non-random: %d distinct out of 100", len(seen))
	}
}

func TestAccessTokenCarriesSubjectAndRole(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, model.RoleCompany, 15)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse error: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if model.Role(claims["role"].(float64)) != model.RoleCompany {
		t.Fatalf("role = %v, want company", claims["role"])
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right-secret", 1, model.RolePassenger, 15)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if rt.Raw == "" {
		t.Fatal("empty refresh token")
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash is not deterministic")
	}
	if HashRefreshRaw(rt.Raw) == rt.Raw {
		t.Fatal("hash equals raw token")
	}
}
