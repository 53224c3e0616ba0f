package cache

import (
	"context"
	"testing"
)

func TestMemoryStore_LoadAbsentReturnsNil(t *testing.T) {
	s := NewMemorySessionStore()
	payload, err := s.Load(context.Background(), "assessment", "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if payload != nil {
		t.Fatalf("expected nil payload for absent session, got %q", payload)
	}
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	if err := s.Save(ctx, "assessment", "sid", []byte(`{"currentStep":2}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	payload, err := s.Load(ctx, "assessment", "sid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload) != `{"currentStep":2}` {
		t.Fatalf("unexpected payload: %s", payload)
	}

	// Namespaces do not bleed into each other.
	other, err := s.Load(ctx, "onboarding", "sid")
	if err != nil {
		t.Fatalf("load other namespace: %v", err)
	}
	if other != nil {
		t.Fatalf("namespace leak: %s", other)
	}

	if err := s.Delete(ctx, "assessment", "sid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	payload, err = s.Load(ctx, "assessment", "sid")
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if payload != nil {
		t.Fatalf("session survived delete: %s", payload)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()
	original := []byte("abc")
	if err := s.Save(ctx, "n", "sid", original); err != nil {
		t.Fatalf("save: %v", err)
	}
	original[0] = 'z'
	payload, _ := s.Load(ctx, "n", "sid")
	if string(payload) != "abc" {
		t.Fatalf("store shared the caller's slice: %s", payload)
	}
	payload[0] = 'z'
	again, _ := s.Load(ctx, "n", "sid")
	if string(again) != "abc" {
		t.Fatalf("load leaked internal slice: %s", again)
	}
}
