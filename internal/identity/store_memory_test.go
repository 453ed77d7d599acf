package identity

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_InsertConflict(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	id := Identity{Key: "a@x.com", Verifier: "v1", DisplayName: "A", CreatedAt: time.Now().UTC()}
	if err := st.Insert(ctx, id); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := st.Insert(ctx, id); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryStore_OrderSurvivesDelete(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if err := st.Insert(ctx, Identity{Key: key, Verifier: "v", DisplayName: key}); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}

	ok, err := st.Delete(ctx, "b@x.com")
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}

	all, err := st.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(all) != 2 || all[0].Key != "a@x.com" || all[1].Key != "c@x.com" {
		t.Fatalf("unexpected order after delete: %+v", all)
	}
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	st := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := st.Insert(ctx, Identity{Key: "a@x.com"}); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := st.GetAll(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
