package localfs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aumigobot/aumigobot/internal/storage"
)

func TestPutOpenRoundTrip(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	ctx := context.Background()

	if err := p.Put(ctx, "assets/pet.jpg", strings.NewReader("jpeg-bytes")); err != nil {
		t.Fatalf("put: %v", err)
	}
	r, err := p.Open(ctx, "assets/pet.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenMissingObject(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := p.Open(context.Background(), "assets/nope.jpg"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	tests := []string{"", "/etc/passwd", "../escape", "a/../../escape"}
	for _, key := range tests {
		if err := p.Put(context.Background(), key, strings.NewReader("x")); !errors.Is(err, storage.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestAccessURL(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir(), "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if got := p.AccessURL("audio/x.mp3"); got != "https://cdn.example.com/audio/x.mp3" {
		t.Fatalf("unexpected url %q", got)
	}
}
