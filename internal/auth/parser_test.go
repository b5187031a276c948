package auth

import (
	"testing"
	"time"
)

func TestParserRoundTrip(t *testing.T) {
	p := NewParser("test-secret")

	token, err := p.Sign("user-1", "staff", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := p.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "staff" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParserRejectsWrongSecret(t *testing.T) {
	token, err := NewParser("secret-a").Sign("user-1", "staff", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewParser("secret-b").Parse(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParserRejectsExpired(t *testing.T) {
	p := NewParser("test-secret")
	token, err := p.Sign("user-1", "staff", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := p.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParserRejectsGarbage(t *testing.T) {
	if _, err := NewParser("test-secret").Parse("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
