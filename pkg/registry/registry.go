package registry

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/hpos-config/pkg/schema"
)

// PredicateFunc defines the signature for a predicate implementation.
// It receives the raw data value and must not modify it.
type PredicateFunc func(value any) bool

// Registry manages the named predicates available to schema documents.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	preds map[string]*schema.Predicate
}

var _ schema.PredicateLookup = (*Registry)(nil)

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		preds: make(map[string]*schema.Predicate),
	}
}

// Default returns a registry preloaded with the built-in predicates:
// is_email, non_empty and base64.
func Default() *Registry {
	r := NewRegistry()
	r.Register("is_email", IsEmail)
	r.Register("non_empty", NonEmpty)
	r.Register("base64", IsBase64)
	return r
}

// Register adds a predicate to the registry.
// If a predicate with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn PredicateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preds[name] = schema.Pred(name, fn)
}

// Lookup returns the schema node for a registered predicate.
func (r *Registry) Lookup(name string) (*schema.Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[name]
	return p, ok
}

// MustLookup is Lookup for names known at build time.
func (r *Registry) MustLookup(name string) *schema.Predicate {
	p, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("predicate not found: %s", name))
	}
	return p
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.preds))
	for name := range r.preds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmail reports whether value is a string containing "@".
func IsEmail(value any) bool {
	s, ok := value.(string)
	return ok && strings.Contains(s, "@")
}

// NonEmpty reports whether value is a non-empty string, list or map.
func NonEmpty(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	default:
		return false
	}
}

// IsBase64 reports whether value is a string in standard base64, padded or not.
func IsBase64(value any) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return false
	}
	if _, err := base64.StdEncoding.DecodeString(s); err == nil {
		return true
	}
	_, err := base64.RawStdEncoding.DecodeString(s)
	return err == nil
}
