package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", config.PasswordConfig{}); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestCheckPolicy(t *testing.T) {
	cases := map[string]bool{
		"short1":      false,
		"onlyletters": false,
		"1234567890":  false,
		"oficina2026": true,
		"çãoàéíõ9":    true,
	}
	for password, ok := range cases {
		err := security.CheckPolicy(password)
		if ok && err != nil {
			t.Fatalf("%q: unexpected error %v", password, err)
		}
		if !ok && err == nil {
			t.Fatalf("%q: expected policy error", password)
		}
	}
}

func TestVerifyPasswordRejectsTamperedParams(t *testing.T) {
	hash, err := security.HashPassword("oficina2026", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	parts := strings.Split(hash, "$")

	cases := map[string]string{
		"huge memory":   strings.Replace(hash, parts[3], "m=99999999,t=1,p=1", 1),
		"wrong version": strings.Replace(hash, "v=19", "v=16", 1),
		"empty salt":    strings.Join([]string{"", parts[1], parts[2], parts[3], "", parts[5]}, "$"),
		"argon2i":       strings.Replace(hash, "argon2id", "argon2i", 1),
	}
	for name, tampered := range cases {
		if _, err := security.VerifyPassword("oficina2026", tampered); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("%s: expected ErrInvalidHash, got %v", name, err)
		}
	}
}
