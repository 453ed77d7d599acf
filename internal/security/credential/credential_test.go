package credential

import (
	"strings"
	"testing"
)

// testConfig keeps Argon2id cost low so the suite stays fast.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func TestDeriveAndMatches_OK(t *testing.T) {
	cfg := testConfig()

	v, err := cfg.Derive("password123")
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	ok, err := cfg.Matches("password123", v)
	if err != nil {
		t.Fatalf("Matches error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestMatches_WrongSecret(t *testing.T) {
	cfg := testConfig()

	v, err := cfg.Derive("password123")
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	ok, err := cfg.Matches("wrong password", v)
	if err != nil {
		t.Fatalf("Matches error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestDerive_FreshSaltPerCall(t *testing.T) {
	cfg := testConfig()

	v1, err := cfg.Derive("password123")
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	v2, err := cfg.Derive("password123")
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	if v1 == v2 {
		t.Fatalf("expected distinct verifiers for independent derivations")
	}
	for _, v := range []string{v1, v2} {
		if strings.Contains(v, "password123") {
			t.Fatalf("verifier leaks plaintext: %q", v)
		}
	}
}

func TestValidate_MinMax(t *testing.T) {
	cfg := testConfig()
	cfg.Policy.MinLength = 8
	cfg.Policy.MaxLength = 16

	if err := cfg.Validate("short"); err != ErrSecretTooShort {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}

	if err := cfg.Validate("this secret is definitely too long"); err != ErrSecretTooLong {
		t.Fatalf("expected ErrSecretTooLong, got %v", err)
	}

	if err := cfg.Validate("goodpassw0rd"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestMatches_MalformedVerifier(t *testing.T) {
	cfg := testConfig()

	for _, bad := range []string{
		"",
		"not-a-verifier",
		"$argon2i$v=19$m=8192,t=1,p=1$AAAAAAAA$AAAAAAAA",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAAAAAA$AAAAAAAA",
		"$argon2id$v=19$m=0,t=1,p=1$AAAAAAAA$AAAAAAAA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAAAAAA",
	} {
		ok, err := cfg.Matches("whatever", bad)
		if err != ErrInvalidVerifier {
			t.Fatalf("verifier %q: expected ErrInvalidVerifier, got %v", bad, err)
		}
		if ok {
			t.Fatalf("verifier %q: expected false", bad)
		}
	}
}

func TestMatches_RejectsPathologicalParams(t *testing.T) {
	cfg := testConfig()

	// Memory far above configured limits must be refused before hashing.
	hostile := "$argon2id$v=19$m=1048576,t=1,p=1$AAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	ok, err := cfg.Matches("whatever", hostile)
	if err != ErrInvalidVerifier {
		t.Fatalf("expected ErrInvalidVerifier, got %v", err)
	}
	if ok {
		t.Fatalf("expected false")
	}
}
