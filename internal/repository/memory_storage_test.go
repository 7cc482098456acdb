package repository

import (
	"context"
	"testing"
)

func TestMemoryStorage_SetGetRemove(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "lastQuote"); ok {
		t.Fatal("expected key to be absent initially")
	}

	if err := m.Set(ctx, "lastQuote", []byte(`{"text":"Hi"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok, err := m.Get(ctx, "lastQuote")
	if err != nil || !ok {
		t.Fatalf("expected key to be present, ok=%v err=%v", ok, err)
	}
	if string(data) != `{"text":"Hi"}` {
		t.Errorf("unexpected value %q", data)
	}

	if err := m.Remove(ctx, "lastQuote"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "lastQuote"); ok {
		t.Error("expected key to be removed")
	}
}

func TestMemoryStorage_ValuesAreCopied(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()

	value := []byte("abc")
	_ = m.Set(ctx, "k", value)
	value[0] = 'z'

	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}

	got[0] = 'y'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

func TestMemoryStorage_Clear(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()
	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	m.Clear()

	for _, key := range []string{"a", "b"} {
		if _, ok, _ := m.Get(ctx, key); ok {
			t.Errorf("expected %s to be cleared", key)
		}
	}
}
