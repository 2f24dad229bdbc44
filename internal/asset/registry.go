package asset

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe index of known tokens by address and price slug.
type Registry struct {
	mu        sync.RWMutex
	byAddress map[common.Address]*Asset
	bySlug    map[string]*Asset
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byAddress: make(map[common.Address]*Asset),
		bySlug:    make(map[string]*Asset),
	}
}

// Register adds a token. Registering the same address twice panics.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAddress[a.Address()]; exists {
		panic(fmt.Sprintf("asset: %s already registered", a.Address().Hex()))
	}
	r.byAddress[a.Address()] = a
	if a.Slug() != "" {
		r.bySlug[a.Slug()] = a
	}
}

// ByAddress looks a token up by contract address.
func (r *Registry) ByAddress(addr common.Address) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byAddress[addr]
	return a, ok
}

// BySlug looks a token up by price slug.
func (r *Registry) BySlug(slug string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.bySlug[strings.ToLower(slug)]
	return a, ok
}

// Slugs returns every registered slug, sorted.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.bySlug))
	for s := range r.bySlug {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Symbol returns the registered symbol for addr, or a shortened address.
func (r *Registry) Symbol(addr common.Address) string {
	if a, ok := r.ByAddress(addr); ok {
		return a.Symbol()
	}
	return addr.Hex()[:10]
}
