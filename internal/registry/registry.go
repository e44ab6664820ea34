// Package registry holds the immutable per-process snapshot of spam category
// definitions: term lists, priority order and confidence thresholds. A
// snapshot never changes once built; reloads build a fresh snapshot and swap
// it atomically so concurrent classifications always see a consistent view.
package registry

import (
	"context"
	"sync/atomic"

	"github.com/mikey/mailsift/internal/core"
	"go.uber.org/zap"
)

// UniversalCategory is the term store category holding generic spam
// indicators used as a last-resort content scan.
const UniversalCategory = "Universal Spam Indicators"

// DefaultThreshold is the minimum confidence required to accept a category
// match when no per-category override exists.
const DefaultThreshold = 0.7

// CategorySpec is one category's definition inside a snapshot.
type CategorySpec struct {
	Category  core.Category
	Terms     []core.Term
	Threshold float64 // 0 means fall back to the caller's global threshold
}

// Registry is an immutable snapshot of category definitions, laid out in the
// fixed spam priority order.
type Registry struct {
	specs     []CategorySpec
	universal []core.Term
	threshold float64
}

// Build constructs a snapshot from a term store. Categories the store names
// but the taxonomy does not know are logged and skipped; a store failure for
// one category drops that category rather than failing the whole build.
// Threshold overrides above 1.0 are interpreted as percentages.
func Build(ctx context.Context, store core.TermStore, thresholds map[string]float64, logger *zap.Logger) (*Registry, error) {
	names, err := store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[core.Category][]core.Term)
	var universal []core.Term
	for _, name := range names {
		terms, err := store.Terms(ctx, name)
		if err != nil {
			logger.Warn("Skipping category with failing term lookup",
				zap.String("category", name),
				zap.Error(err))
			continue
		}
		if name == UniversalCategory {
			universal = terms
			continue
		}
		cat, ok := core.ParseCategory(name)
		if !ok || cat.Priority() < 0 {
			logger.Warn("Ignoring unknown term store category", zap.String("category", name))
			continue
		}
		byCategory[cat] = terms
	}

	specs := make([]CategorySpec, 0, len(byCategory))
	for _, cat := range core.SpamPriority {
		terms, ok := byCategory[cat]
		if !ok {
			continue
		}
		specs = append(specs, CategorySpec{
			Category:  cat,
			Terms:     terms,
			Threshold: NormalizeThreshold(thresholds[cat.String()]),
		})
	}

	return &Registry{
		specs:     specs,
		universal: universal,
		threshold: DefaultThreshold,
	}, nil
}

// NormalizeThreshold maps raw threshold values into [0,1]. Values above 1.0
// are percentages.
func NormalizeThreshold(v float64) float64 {
	if v > 1.0 {
		return v / 100.0
	}
	if v < 0 {
		return 0
	}
	return v
}

// Specs returns the category definitions in priority order. Callers must not
// mutate the returned slice.
func (r *Registry) Specs() []CategorySpec {
	return r.specs
}

// Universal returns the generic spam indicator terms.
func (r *Registry) Universal() []core.Term {
	return r.universal
}

// Threshold returns the accept threshold for a category, falling back to the
// supplied global threshold and finally the built-in default.
func (r *Registry) Threshold(cat core.Category, global float64) float64 {
	for _, spec := range r.specs {
		if spec.Category == cat && spec.Threshold > 0 {
			return spec.Threshold
		}
	}
	if global > 0 {
		return NormalizeThreshold(global)
	}
	return r.threshold
}

// Len returns the number of categories in the snapshot.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Handle is a shared pointer to the current snapshot. Readers call Current on
// every classification; a reload builds a new Registry and calls Swap, which
// never blocks readers.
type Handle struct {
	current atomic.Pointer[Registry]
}

// NewHandle creates a handle holding an initial snapshot.
func NewHandle(r *Registry) *Handle {
	h := &Handle{}
	h.current.Store(r)
	return h
}

// Current returns the active snapshot.
func (h *Handle) Current() *Registry {
	return h.current.Load()
}

// Swap atomically replaces the active snapshot.
func (h *Handle) Swap(r *Registry) {
	h.current.Store(r)
}
