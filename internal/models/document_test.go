package models

import (
	"testing"
)

func TestNewDocMap(t *testing.T) {
	docs := []Document{
		{Title: "Intro", URL: "/docs/", Content: "Guide"},
		{Title: "Usage", URL: "/docs/usage/", Content: "Create a table"},
	}
	m := NewDocMap(docs)
	if len(m) != 2 {
		t.Fatalf("len = %d, want 2", len(m))
	}
	if url, ok := m.Lookup("Usage"); !ok || url != "/docs/usage/" {
		t.Errorf("Lookup(Usage) = %q, %v", url, ok)
	}
	if _, ok := m.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should report false")
	}
}

func TestNewDocMap_empty(t *testing.T) {
	m := NewDocMap(nil)
	if m == nil || len(m) != 0 {
		t.Errorf("expected empty non-nil map, got %v", m)
	}
}
