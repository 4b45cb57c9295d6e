// Package registry resolves exchange symbols to configured spot pairs.
package registry

import (
	"github.com/pkg/errors"

	"ticker_bot/internal/models"
)

var ErrDuplicateSymbol = errors.New("duplicate symbol in configuration")

// DuplicatePolicy decides what happens when two pairs collapse to the same symbol.
type DuplicatePolicy int

const (
	// DuplicateOverwrite keeps the later pair in configuration order.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails construction.
	DuplicateReject
)

// Registry is immutable after New and safe for concurrent reads.
type Registry struct {
	pairs   map[string]models.SymbolPairConfig
	symbols []string // configuration order, first occurrence
}

func New(pairs []models.SymbolPairConfig, policy DuplicatePolicy) (*Registry, error) {
	r := &Registry{
		pairs:   make(map[string]models.SymbolPairConfig, len(pairs)),
		symbols: make([]string, 0, len(pairs)),
	}

	for _, p := range pairs {
		if p.BaseAsset == "" || p.QuoteAsset == "" {
			return nil, errors.Errorf("pair %q/%q: empty asset", p.BaseAsset, p.QuoteAsset)
		}
		if !p.MinQuoteAmount.IsPositive() {
			return nil, errors.Errorf("pair %s: min quote amount must be > 0", p.Symbol())
		}

		sym := p.Symbol()
		if _, dup := r.pairs[sym]; dup {
			if policy == DuplicateReject {
				return nil, errors.Wrap(ErrDuplicateSymbol, sym)
			}
		} else {
			r.symbols = append(r.symbols, sym)
		}
		r.pairs[sym] = p
	}

	return r, nil
}

// Resolve looks the symbol up case-insensitively.
func (r *Registry) Resolve(symbol string) (models.SymbolPairConfig, bool) {
	p, ok := r.pairs[models.NormSymbol(symbol)]
	return p, ok
}

// Symbols returns the distinct configured symbols in configuration order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

func (r *Registry) Len() int { return len(r.pairs) }
