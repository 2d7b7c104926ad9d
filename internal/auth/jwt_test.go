package auth

import (
	"testing"
	"time"

	"decaptrack/internal/models"
)

var testUser = models.User{
	ID:       42,
	Username: "supervisor",
	Name:     "Ahmed Bouhmidi",
	Role:     models.RoleSupervisor,
}

func TestSignAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Sign(testUser, "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "supervisor" || claims.Role != models.RoleSupervisor {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("session id = %q", claims.SessionID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.Sign(testUser, "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Sign(testUser, "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected wrong-secret token to be rejected")
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "admin123"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch to fail")
	}
}
