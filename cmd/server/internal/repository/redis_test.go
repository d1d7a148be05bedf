package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/repository"
)

func newRedisStore(t *testing.T) (*repository.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return repository.NewRedisStore(rdb), mr
}

func TestRedisStore_MissingSymbol(t *testing.T) {
	s, _ := newRedisStore(t)

	_, ok, err := s.LastPrice(context.Background(), "RELIANCE.NS")
	if err != nil {
		t.Fatalf("LastPrice: %v", err)
	}
	if ok {
		t.Error("Unseen symbol should report ok=false")
	}
}

func TestRedisStore_SetThenGet(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if err := s.SetLastPrice(ctx, "TCS.NS", 3500.25); err != nil {
		t.Fatalf("SetLastPrice: %v", err)
	}

	price, ok, err := s.LastPrice(ctx, "TCS.NS")
	if err != nil || !ok || price != 3500.25 {
		t.Errorf("Expected 3500.25, got %v (ok=%v, err=%v)", price, ok, err)
	}

	// Keys are namespaced so other tenants of the instance don't collide.
	if got, _ := mr.Get("lastprice:TCS.NS"); got != "3500.25" {
		t.Errorf("Expected key lastprice:TCS.NS = 3500.25, got %q", got)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Set("lastprice:TCS.NS", "not-a-number")

	if _, _, err := s.LastPrice(context.Background(), "TCS.NS"); err == nil {
		t.Error("Corrupt stored value should surface as an error")
	}
}

func TestRedisStore_ServerGone(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	if _, _, err := s.LastPrice(context.Background(), "TCS.NS"); err == nil {
		t.Error("Expected error when Redis is unreachable")
	}
	if err := s.SetLastPrice(context.Background(), "TCS.NS", 1); err == nil {
		t.Error("Expected error when Redis is unreachable")
	}
}
