package cache

import (
	"context"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	got := Key("price", " 명동교자 ", "서울 중구|명동", "2")
	if got != "price|명동교자|서울 중구/명동|2" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMemoryJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	type entry struct {
		Price int `json:"price"`
	}
	var got entry
	if GetJSON(ctx, c, "k", &got) {
		t.Fatal("empty cache should miss")
	}
	SetJSON(ctx, c, "k", entry{Price: 15000})
	if !GetJSON(ctx, c, "k", &got) || got.Price != 15000 {
		t.Fatalf("expected hit with 15000, got %+v", got)
	}

	c.Set(ctx, "bad", []byte("{"))
	if GetJSON(ctx, c, "bad", &got) {
		t.Fatal("undecodable entry should miss")
	}
}

func TestNoopAndNil(t *testing.T) {
	ctx := context.Background()
	var v int
	SetJSON(ctx, Noop{}, "k", 1)
	if GetJSON(ctx, Noop{}, "k", &v) {
		t.Fatal("noop cache should never hit")
	}
	SetJSON(ctx, nil, "k", 1)
	if GetJSON(ctx, nil, "k", &v) {
		t.Fatal("nil cache should never hit")
	}
}
