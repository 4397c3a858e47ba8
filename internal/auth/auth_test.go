package auth

import (
	"errors"
	"testing"
	"time"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret-at-least-16b", time.Hour)

	token, err := m.Issue(Identity{UserID: "user-1", Email: "dona@padaria.br", Plan: PlanPro})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	id, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if id.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", id.UserID)
	}
	if id.Email != "dona@padaria.br" {
		t.Errorf("Email = %q, want dona@padaria.br", id.Email)
	}
	if id.Plan != PlanPro {
		t.Errorf("Plan = %q, want %q", id.Plan, PlanPro)
	}
}

func TestManager_Issue_RequiresUserID(t *testing.T) {
	m := NewManager("test-secret-at-least-16b", time.Hour)

	if _, err := m.Issue(Identity{}); err == nil {
		t.Error("Issue() should fail without a user id")
	}
}

func TestManager_Parse_DefaultsPlanToFree(t *testing.T) {
	m := NewManager("test-secret-at-least-16b", time.Hour)

	token, err := m.Issue(Identity{UserID: "user-2"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	id, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if id.Plan != PlanFree {
		t.Errorf("Plan = %q, want %q", id.Plan, PlanFree)
	}
}

func TestManager_Parse_RejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-one-16-bytes!", time.Hour)
	verifier := NewManager("secret-two-16-bytes!", time.Hour)

	token, err := issuer.Issue(Identity{UserID: "user-3"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
	}
}

func TestManager_Parse_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret-at-least-16b", -time.Minute)

	token, err := m.Issue(Identity{UserID: "user-4"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
	}
}

func TestManager_Parse_RejectsGarbage(t *testing.T) {
	m := NewManager("test-secret-at-least-16b", time.Hour)

	if _, err := m.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
	}
}
