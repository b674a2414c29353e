package service

import (
	"sort"
	"sync"

	"strategy_orchestrator/internal/models"
)

type Factory func() models.Strategy

// Registry точки входа (поле entry дескриптора) -> конструктор пайплайна.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register повторная регистрация того же entry заменяет фабрику.
func (r *Registry) Register(entry string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[entry] = f
}

func (r *Registry) Lookup(entry string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[entry]
	return f, ok
}

func (r *Registry) Entries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for e := range r.factories {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
