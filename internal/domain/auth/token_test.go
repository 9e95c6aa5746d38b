package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	issued, err := GenerateToken(secret, Claims{
		UserID:     "u-1",
		EmployeeID: "e-1",
		RoleName:   RoleSupervisor,
		SessionID:  "s-1",
	}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken(secret, issued)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.EmployeeID != "e-1" || claims.RoleName != RoleSupervisor || claims.SessionID != "s-1" {
		t.Fatalf("claims mangled: %+v", claims)
	}

	if _, err := ParseToken("wrong-secret", issued); err == nil {
		t.Fatal("wrong secret must fail")
	}
}

func TestTokenExpiry(t *testing.T) {
	issued, err := GenerateToken("test-secret", Claims{UserID: "u-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("test-secret", issued); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "hunter2hunter2"); err != nil {
		t.Fatalf("matching password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestHashTokenStable(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	if a != b {
		t.Fatal("digest must be deterministic")
	}
	if a == HashToken("abd") {
		t.Fatal("distinct tokens must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}
