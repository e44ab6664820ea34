// Package store provides the term, domain, protected-pattern and result
// stores behind the classification core: in-memory implementations seeded
// with the built-in defaults, plus SQLite and MySQL backings.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mikey/mailsift/internal/core"
)

// MemoryTermStore is an in-memory term store. It preserves insertion order of
// categories, which defines registry priority order.
type MemoryTermStore struct {
	mu         sync.RWMutex
	categories []string
	terms      map[string][]core.Term
}

// NewMemoryTermStore creates a term store seeded with the built-in term
// lists. Pass nil to start empty.
func NewMemoryTermStore(seed map[string][]core.Term, order []string) *MemoryTermStore {
	s := &MemoryTermStore{terms: make(map[string][]core.Term)}
	for _, name := range order {
		if terms, ok := seed[name]; ok {
			s.categories = append(s.categories, name)
			s.terms[name] = terms
		}
	}
	return s
}

// NewDefaultTermStore creates a term store with the built-in category terms.
func NewDefaultTermStore() *MemoryTermStore {
	return NewMemoryTermStore(DefaultTerms(), DefaultCategoryOrder())
}

// Categories implements core.TermStore.
func (s *MemoryTermStore) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// Terms implements core.TermStore.
func (s *MemoryTermStore) Terms(_ context.Context, category string) ([]core.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	terms, ok := s.terms[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	out := make([]core.Term, len(terms))
	copy(out, terms)
	return out, nil
}

// SetTerms replaces one category's term list, appending the category if new.
func (s *MemoryTermStore) SetTerms(category string, terms []core.Term) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[category]; !ok {
		s.categories = append(s.categories, category)
	}
	s.terms[category] = terms
}

// MemoryDomainStore is an in-memory known-company-domain set.
type MemoryDomainStore struct {
	mu      sync.RWMutex
	domains map[string]bool
}

// NewMemoryDomainStore creates a domain store from a domain list. Pass nil to
// start empty.
func NewMemoryDomainStore(domains []string) *MemoryDomainStore {
	s := &MemoryDomainStore{domains: make(map[string]bool, len(domains))}
	for _, d := range domains {
		s.domains[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return s
}

// NewDefaultDomainStore creates a domain store seeded with the built-in
// known-company list.
func NewDefaultDomainStore() *MemoryDomainStore {
	return NewMemoryDomainStore(DefaultKnownDomains())
}

// IsKnownCompanyDomain implements core.DomainStore.
func (s *MemoryDomainStore) IsKnownCompanyDomain(_ context.Context, domain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domains[strings.ToLower(domain)], nil
}

// Add inserts a domain into the known set.
func (s *MemoryDomainStore) Add(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains[strings.ToLower(strings.TrimSpace(domain))] = true
}

// MemoryProtectedStore holds user-curated allow-list patterns in memory.
type MemoryProtectedStore struct {
	mu       sync.RWMutex
	senders  map[string]bool
	domains  map[string]bool
	subjects []string
}

// NewMemoryProtectedStore creates a protected-pattern store.
func NewMemoryProtectedStore(senders, domains, subjectKeywords []string) *MemoryProtectedStore {
	s := &MemoryProtectedStore{
		senders: make(map[string]bool, len(senders)),
		domains: make(map[string]bool, len(domains)),
	}
	for _, v := range senders {
		s.senders[strings.ToLower(strings.TrimSpace(v))] = true
	}
	for _, v := range domains {
		s.domains[strings.ToLower(strings.TrimSpace(v))] = true
	}
	for _, v := range subjectKeywords {
		if kw := strings.ToLower(strings.TrimSpace(v)); kw != "" {
			s.subjects = append(s.subjects, kw)
		}
	}
	return s
}

// Match implements core.ProtectedStore.
func (s *MemoryProtectedStore) Match(_ context.Context, sender, domain, subject string) (bool, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.senders[strings.ToLower(sender)] {
		return true, "sender " + sender, nil
	}
	if s.domains[strings.ToLower(domain)] {
		return true, "domain " + domain, nil
	}
	lowerSubject := strings.ToLower(subject)
	for _, kw := range s.subjects {
		if strings.Contains(lowerSubject, kw) {
			return true, "subject keyword " + kw, nil
		}
	}
	return false, "", nil
}

// AddSender adds a protected sender address.
func (s *MemoryProtectedStore) AddSender(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senders[strings.ToLower(strings.TrimSpace(sender))] = true
}
