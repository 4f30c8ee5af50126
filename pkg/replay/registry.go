package replay

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps instrument symbols to their replay players in a
// thread-safe manner. Players register once at startup; lookups come
// from API handlers on arbitrary goroutines.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Register adds a player. Returns an error if the symbol is taken.
func (r *Registry) Register(p *Player) error {
	if p == nil {
		return fmt.Errorf("cannot register nil player")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[p.Symbol()]; exists {
		return fmt.Errorf("instrument %s already registered", p.Symbol())
	}
	r.players[p.Symbol()] = p
	return nil
}

// Lookup retrieves a player by symbol.
func (r *Registry) Lookup(symbol string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[symbol]
	return p, ok
}

// Symbols returns all registered symbols, sorted for stable listings.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.players))
	for s := range r.players {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
