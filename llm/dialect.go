package llm

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Dialect translates between the universal completion types and one
// vendor's chat API. OpenRouter speaks the "openai" dialect.
type Dialect interface {
	Name() string
	// ChatPath is joined to the configured base URL.
	ChatPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

type dialectRegistry struct {
	mu    sync.RWMutex
	byKey map[string]Dialect
}

var registered = &dialectRegistry{byKey: map[string]Dialect{}}

// RegisterDialect makes d available to New under name. Dialect packages
// call it from init; a later registration replaces an earlier one.
func RegisterDialect(name string, d Dialect) {
	registered.mu.Lock()
	registered.byKey[name] = d
	registered.mu.Unlock()
}

// GetDialect looks a dialect up by name. The error for an unknown name
// lists what is registered, which is usually a missing blank import.
func GetDialect(name string) (Dialect, error) {
	registered.mu.RLock()
	d, ok := registered.byKey[name]
	registered.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm: no dialect %q registered (have: %s)", name, strings.Join(Dialects(), ", "))
	}
	return d, nil
}

// Dialects lists registered dialect names in order.
func Dialects() []string {
	registered.mu.RLock()
	defer registered.mu.RUnlock()
	return slices.Sorted(maps.Keys(registered.byKey))
}
