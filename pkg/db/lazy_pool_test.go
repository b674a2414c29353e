package db

import (
	"context"
	"errors"
	"testing"
)

func TestLazyPoolWithoutDSN(t *testing.T) {
	l := NewLazyPool(PoolConfig{})
	if _, err := l.Get(context.Background()); !errors.Is(err, ErrNoDSN) {
		t.Fatalf("expected ErrNoDSN, got %v", err)
	}
	l.Close()
	// неудачная попытка не запоминается, повтор снова идёт в Get
	if _, err := l.Get(context.Background()); !errors.Is(err, ErrNoDSN) {
		t.Fatalf("expected ErrNoDSN on retry, got %v", err)
	}
}
