package service

import (
	"reflect"
	"testing"

	"strategy_orchestrator/internal/models"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("b", func() models.Strategy { return &stubStrategy{} })
	r.Register("a", func() models.Strategy { return &stubStrategy{} })

	if _, ok := r.Lookup("a"); !ok {
		t.Fatal("a must be registered")
	}
	if _, ok := r.Lookup("c"); ok {
		t.Fatal("c must not be registered")
	}
	if got := r.Entries(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("entries = %v", got)
	}
}
