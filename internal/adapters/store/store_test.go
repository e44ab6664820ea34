package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/core"
)

func TestMemoryTermStoreOrdering(t *testing.T) {
	s := NewMemoryTermStore(map[string][]core.Term{
		"Phishing": {{Text: "verify your account", Confidence: 0.95}},
		"Gambling": {{Text: "casino", Confidence: 0.85}},
	}, []string{"Gambling", "Phishing"})

	cats, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Gambling", "Phishing"}, cats, "insertion order is preserved")

	terms, err := s.Terms(context.Background(), "Gambling")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "casino", terms[0].Text)

	_, err = s.Terms(context.Background(), "Nonexistent")
	assert.Error(t, err)
}

func TestMemoryTermStoreSetTerms(t *testing.T) {
	s := NewMemoryTermStore(nil, nil)
	s.SetTerms("Phishing", []core.Term{{Text: "verify your account", Confidence: 0.95}})

	cats, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Phishing"}, cats)
}

func TestDefaultTermStoreCoversTaxonomy(t *testing.T) {
	s := NewDefaultTermStore()
	cats, err := s.Categories(context.Background())
	require.NoError(t, err)

	// Every seeded category resolves to a known taxonomy entry or the
	// universal list; the registry relies on this.
	for _, name := range cats {
		if name == "Universal Spam Indicators" {
			continue
		}
		_, ok := core.ParseCategory(name)
		assert.True(t, ok, "unknown seeded category %q", name)
	}
}

func TestMemoryProtectedStore(t *testing.T) {
	s := NewMemoryProtectedStore(
		[]string{"Boss@Example.com"},
		[]string{"school.example.org"},
		[]string{"Soccer Practice"})
	ctx := context.Background()

	ok, pattern, err := s.Match(ctx, "boss@example.com", "example.com", "anything")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sender boss@example.com", pattern)

	ok, pattern, err = s.Match(ctx, "teacher@school.example.org", "school.example.org", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "domain school.example.org", pattern)

	ok, pattern, err = s.Match(ctx, "x@y.net", "y.net", "Re: soccer practice moved to 6pm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "subject keyword soccer practice", pattern)

	ok, _, err = s.Match(ctx, "x@y.net", "y.net", "unrelated")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteTermStoreSeedAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.db")

	s, err := NewSQLiteTermStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	cats, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultCategoryOrder(), cats, "seeded in priority order")

	terms, err := s.Terms(context.Background(), core.CategoryPhishing.String())
	require.NoError(t, err)
	assert.NotEmpty(t, terms)

	// Reopening must not reseed.
	require.NoError(t, s.Close())
	again, err := NewSQLiteTermStore(path, zap.NewNop())
	require.NoError(t, err)
	defer again.Close()

	catsAgain, err := again.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cats, catsAgain)
}

func TestSQLiteDomainStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.db")

	s, err := NewSQLiteDomainStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	known, err := s.IsKnownCompanyDomain(context.Background(), "kohls.com")
	require.NoError(t, err)
	assert.True(t, known, "seeded with the built-in list")

	known, err = s.IsKnownCompanyDomain(context.Background(), "fake-amazon.tk")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, s.Add(context.Background(), "newshop.example.com"))
	known, err = s.IsKnownCompanyDomain(context.Background(), "newshop.example.com")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestSQLiteResultStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := NewSQLiteResultStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	rec := &core.VerdictRecord{
		Sender:       "offers@kohls.com",
		Subject:      "Weekend savings",
		Category:     core.CategoryPromotional.String(),
		Action:       core.ActionPreserve.String(),
		Confidence:   0.95,
		Reasoning:    "business prefix 'offers' on legitimate domain",
		ProcessingID: "test-id-1",
	}
	require.NoError(t, s.Record(context.Background(), rec))
	require.NoError(t, s.RecordCorrection(context.Background(), "test-id-1", core.CategoryNotSpam, "user says keep"))
}
