package security_test

import (
	"testing"

	"github.com/folioworks/portfolio-api/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}

	if err := security.CheckPassword(hash, "wrong password"); err == nil {
		t.Error("expected mismatching password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := security.HashPassword("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	b, err := security.HashPassword("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
