package store

import (
	"context"
	"errors"
	"testing"
)

type item struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var got []item
	found, err := s.Load(ctx, "k", &got)
	if err != nil || found {
		t.Fatalf("Load on empty = (%v, %v)", found, err)
	}

	in := []item{{ID: "a", Tags: []string{"x"}}}
	if err := s.Save(ctx, "k", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in[0].Tags[0] = "mutated"

	found, err = s.Load(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("Load = (%v, %v)", found, err)
	}
	if len(got) != 1 || got[0].Tags[0] != "x" {
		t.Fatalf("got %+v", got)
	}
}

func TestMemoryStoreCorrupt(t *testing.T) {
	s := NewMemoryStore()
	s.SetRaw("k", []byte("{not json"))

	var got []item
	if _, err := s.Load(context.Background(), "k", &got); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestStoreImplementations(t *testing.T) {
	var _ Store = NewMemoryStore()
	var _ Store = (*RedisStore)(nil)
}
