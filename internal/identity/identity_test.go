package identity

import (
	"context"
	"testing"
)

func TestFileProviderStableID(t *testing.T) {
	ctx := context.Background()
	p := &FileProvider{Path: t.TempDir() + "/id"}

	first, err := p.Authenticate(ctx)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if first == "" {
		t.Fatal("Authenticate returned an empty id")
	}

	second, err := p.Authenticate(ctx)
	if err != nil {
		t.Fatalf("second Authenticate: %v", err)
	}
	if second != first {
		t.Errorf("id changed between sessions: %q then %q", first, second)
	}
}

func TestFileProviderDistinctPerPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := (&FileProvider{Path: dir + "/a"}).Authenticate(ctx)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	b, err := (&FileProvider{Path: dir + "/b"}).Authenticate(ctx)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if a == b {
		t.Error("two identity files produced the same id")
	}
}
