package service

import "testing"

func TestResolveExact(t *testing.T) {
	r, substituted := Resolve(Resolutions, 15)
	if substituted {
		t.Fatal("15 is supported, no substitution expected")
	}
	if r.Token != "15m" {
		t.Fatalf("token = %q, want 15m", r.Token)
	}
}

func TestResolveNearest(t *testing.T) {
	exact, _ := Resolve(Resolutions, 15)
	r, substituted := Resolve(Resolutions, 17)
	if !substituted {
		t.Fatal("17 is not supported, substitution expected")
	}
	if r.Token != exact.Token {
		t.Fatalf("token = %q, want %q", r.Token, exact.Token)
	}
}

func TestResolveTieKeepsFirst(t *testing.T) {
	// 10 одинаково далеко от 5 и 15
	r, substituted := Resolve(Resolutions, 10)
	if !substituted || r.Minutes != 5 {
		t.Fatalf("got %+v substituted=%v, want 5m substituted", r, substituted)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	if r, _ := Resolve(Resolutions, 100000); r.Token != "1w" {
		t.Fatalf("got %q, want 1w", r.Token)
	}
	if r, _ := Resolve(Resolutions, 0); r.Token != "1m" {
		t.Fatalf("got %q, want 1m", r.Token)
	}
}
