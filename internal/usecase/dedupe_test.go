package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autoleads/internal/entity"
)

func TestDedupeSingleCandidateKeepsRawPhone(t *testing.T) {
	d := testDeduplicator()
	got := d.Dedupe(nil, []entity.ExtractionCandidate{
		{Phone: "06 12 34 56 78", CompanyName: "Acme", ProductName: "Shoes"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "06 12 34 56 78", got[0].Phone)
	assert.Equal(t, "Acme", got[0].CompanyName)
	assert.Equal(t, "Shoes", got[0].ProductName)
	assert.Equal(t, "lead-1", got[0].ID)
	assert.Equal(t, fixedNow.UnixMilli(), got[0].Timestamp)
}

func TestDedupeAgainstExistingByNormalizedPhone(t *testing.T) {
	d := testDeduplicator()
	existing := []entity.Lead{{ID: "x", Phone: "0612345678"}}

	got := d.Dedupe(existing, []entity.ExtractionCandidate{{Phone: "06-12-34-56-78", CompanyName: "Acme"}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDedupeBelowValidityFloor(t *testing.T) {
	d := testDeduplicator()
	got := d.Dedupe(nil, []entity.ExtractionCandidate{
		{Phone: "1234567"},
		{Phone: "ext 12"},
		{Phone: ""},
	})
	assert.Empty(t, got)
}

func TestDedupeWithinBatchFirstWins(t *testing.T) {
	d := testDeduplicator()
	got := d.Dedupe(nil, []entity.ExtractionCandidate{
		{Phone: "+33 6 12 34 56 78", CompanyName: "First"},
		{Phone: "33612345678", CompanyName: "Second"},
		{Phone: "77 123 45 67", CompanyName: "Other"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].CompanyName)
	assert.Equal(t, "Other", got[1].CompanyName)
	assert.Equal(t, "lead-1", got[0].ID)
	assert.Equal(t, "lead-2", got[1].ID)
}

func TestDedupePreservesInputOrderAndEmptyNames(t *testing.T) {
	d := testDeduplicator()
	got := d.Dedupe(nil, []entity.ExtractionCandidate{
		{Phone: "11111111"},
		{Phone: "123"},
		{Phone: "22222222", CompanyName: "  "},
		{Phone: "33333333"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"11111111", "22222222", "33333333"}, []string{got[0].Phone, got[1].Phone, got[2].Phone})
	assert.Equal(t, "  ", got[1].CompanyName)
}

func TestDedupeInvariants(t *testing.T) {
	d := testDeduplicator()
	existing := []entity.Lead{{Phone: "01 23 45 67 89"}, {Phone: "+221 77 000 00 00"}}
	candidates := []entity.ExtractionCandidate{
		{Phone: "0123456789"}, {Phone: "221770000000"}, {Phone: "98765432"},
		{Phone: "98-76-54-32"}, {Phone: "1234"}, {Phone: "5555 5555"}, {Phone: "(555) 55-555"},
	}

	got := d.Dedupe(existing, candidates)

	existingPhones := map[string]bool{}
	for _, l := range existing {
		existingPhones[l.NormalizedPhone()] = true
	}
	seen := map[string]bool{}
	for _, l := range got {
		p := l.NormalizedPhone()
		assert.False(t, existingPhones[p], "duplicate of existing: %s", p)
		assert.False(t, seen[p], "duplicate inside result: %s", p)
		assert.GreaterOrEqual(t, len(p), entity.MinPhoneDigits)
		seen[p] = true
	}
	assert.Len(t, got, 2)
}

func TestDedupeDoesNotMutateInputs(t *testing.T) {
	d := testDeduplicator()
	existing := []entity.Lead{{ID: "a", Phone: "12345678"}}
	candidates := []entity.ExtractionCandidate{{Phone: "87654321"}}

	d.Dedupe(existing, candidates)
	assert.Equal(t, []entity.Lead{{ID: "a", Phone: "12345678"}}, existing)
	assert.Equal(t, []entity.ExtractionCandidate{{Phone: "87654321"}}, candidates)
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.NewID(), g.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
