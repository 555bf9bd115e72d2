package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("expected a PHC argon2id prefix, got %q", hash)
	}
	if got := strings.Count(hash, "$"); got != 5 {
		t.Errorf("expected 5 segment separators, got %d", got)
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"matching", "correct-horse", true},
		{"wrong", "battery-staple", false},
		{"empty", "", false},
		{"case_sensitive", "Correct-horse", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := VerifyPassword(test.password, hash)
			if err != nil {
				t.Fatalf("VerifyPassword: %v", err)
			}
			if got != test.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", test.password, got, test.want)
			}
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"not_phc", "plaintext", ErrInvalidHash},
		{"wrong_algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrInvalidHash},
		{"missing_segments", "$argon2id$v=19$m=65536,t=3,p=4", ErrInvalidHash},
		{"bad_version", "$argon2id$v=16$m=65536,t=3,p=4$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"bad_params", "$argon2id$v=19$bogus$c2FsdA$aGFzaA", ErrInvalidHash},
		{"bad_salt_encoding", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA", ErrInvalidHash},
		{"bad_key_encoding", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!", ErrInvalidHash},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := VerifyPassword("whatever", test.hash); !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestQuickHash(t *testing.T) {
	a := QuickHash("token-a")
	b := QuickHash("token-b")

	if a == b {
		t.Error("different inputs must hash differently")
	}
	if a != QuickHash("token-a") {
		t.Error("QuickHash must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
