package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify(h, "correct horse battery staple") {
		t.Error("verify rejected the right password")
	}
	if Verify(h, "wrong password") {
		t.Error("verify accepted the wrong password")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashRejectsOverlong(t *testing.T) {
	if _, err := Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for password over 72 bytes")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
