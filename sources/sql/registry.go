package exportsql

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-excel-response/export"
)

// Definition is a named query. Validate, when set, checks the arguments
// before the query reaches the database.
type Definition struct {
	Name     string
	Query    string
	Validate func(args []any) error
}

// Registry holds named query definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def. Names are trimmed and must be unique.
func (r *Registry) Register(def Definition) error {
	def.Name = strings.TrimSpace(def.Name)
	switch {
	case def.Name == "":
		return export.NewError(export.KindValidation, "query name is required", nil)
	case strings.TrimSpace(def.Query) == "":
		return export.NewError(export.KindValidation, fmt.Sprintf("query %q has no SQL", def.Name), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return export.NewError(export.KindValidation, fmt.Sprintf("query %q already registered", def.Name), nil)
	}
	r.defs[def.Name] = def
	return nil
}

func (r *Registry) Resolve(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[strings.TrimSpace(name)]
	return def, ok
}

// Names lists the registered query names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
