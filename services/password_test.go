package services

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	password := "Str0ng!pass"

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if strings.Count(hashed, "$") != 1 {
		t.Errorf("expected salt$hash format, got %q", hashed)
	}

	ok, err := VerifyPassword(hashed, password)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = VerifyPassword(hashed, "Wr0ng!pass")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password must not verify")
	}
}

func TestHashPasswordRejectsWeakPasswords(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"Too short", "a1!"},
		{"No number", "password!"},
		{"No special character", "password1"},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HashPassword(tt.password); err == nil {
				t.Errorf("expected error for %q", tt.password)
			}
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	password := "Str0ng!pass"

	first, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	if _, err := VerifyPassword("not-a-valid-hash", "anything"); err == nil {
		t.Error("expected error for malformed stored password")
	}
	if _, err := VerifyPassword("a$b$c", "anything"); err == nil {
		t.Error("expected error for too many segments")
	}
}
