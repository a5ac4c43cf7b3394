package auth

import (
	"testing"
	"time"
)

func TestHashSecretIsStable(t *testing.T) {
	// sha256("password"), hex
	const want = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got := HashSecret("password"); got != want {
		t.Fatalf("digest mismatch: %s", got)
	}
	if HashSecret("a") == HashSecret("b") {
		t.Fatalf("distinct inputs collided")
	}
}

func TestSignAndParseSession(t *testing.T) {
	token, err := SignSession("01ARZ3NDEKTSV4RRFFQ69G5FAV", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := ParseSession(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Fatalf("wrong subject %q", id)
	}
}

func TestParseSessionRejectsWrongSecret(t *testing.T) {
	token, err := SignSession("sess-1", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSession(token, "other"); err == nil {
		t.Fatalf("expected a signature failure")
	}
}

func TestParseSessionRejectsExpired(t *testing.T) {
	token, err := SignSession("sess-1", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSession(token, "secret"); err == nil {
		t.Fatalf("expected an expiry failure")
	}
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	if _, err := ParseSession("not-a-token", "secret"); err == nil {
		t.Fatalf("expected a parse failure")
	}
}
