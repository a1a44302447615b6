package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret")
	uid := uuid.New()

	raw, err := m.Issue(Access, uid, "alice", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(raw, Access)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != uid {
		t.Errorf("userID = %s, want %s", claims.UserID, uid)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q", claims.Username)
	}
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	m := NewManager("test-secret")

	raw, err := m.Issue(Refresh, uuid.New(), "", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(raw, Access); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("test-secret")

	raw, err := m.Issue(Access, uuid.New(), "bob", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(raw, Access); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewManager("secret-a").Issue(Access, uuid.New(), "", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b").Verify(raw, Access); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}
