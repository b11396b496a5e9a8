package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactName(t *testing.T) {
	cat := loadSample(t)

	found := cat.Resolve("Dolo 650", 3)
	require.NotEmpty(t, found)
	assert.Equal(t, "Dolo 650 Tablet", found[0].Name)
}

func TestResolveStripsParentheses(t *testing.T) {
	cat := loadSample(t)

	// Models like to write "Azithromycin (antibiotic)"; the raw form
	// fails but the cleaned one should match.
	found := cat.Resolve("(Azithromycin)", 3)
	require.NotEmpty(t, found)
	assert.Equal(t, "Azithral 500 Tablet", found[0].Name)
}

func TestResolveFirstWordFallback(t *testing.T) {
	cat := loadSample(t)

	found := cat.Resolve("Crocin neverheardofit extra", 3)
	require.NotEmpty(t, found)
	assert.Equal(t, "Crocin Advance", found[0].Name)
}

func TestResolveEmptyName(t *testing.T) {
	cat := loadSample(t)
	assert.Empty(t, cat.Resolve("", 3))
	assert.Empty(t, cat.Resolve("   ", 3))
}

func TestResolveUnknownName(t *testing.T) {
	cat := loadSample(t)
	assert.Empty(t, cat.Resolve("Xyzzyene", 3))
}

func TestResolveAllDeduplicatesByID(t *testing.T) {
	cat := loadSample(t)

	// "Dolo" and "Paracetamol" both resolve to the Dolo entry first;
	// the duplicate must be dropped, first occurrence wins.
	found := cat.ResolveAll([]string{"Dolo 650", "Paracetamol", "Azithromycin"}, 3)
	require.Len(t, found, 2)
	assert.Equal(t, "Dolo 650 Tablet", found[0].Name)
	assert.Equal(t, "Azithral 500 Tablet", found[1].Name)
}

func TestResolveAllSkipsMisses(t *testing.T) {
	cat := loadSample(t)

	found := cat.ResolveAll([]string{"Nothingol", "Cetirizine"}, 3)
	require.Len(t, found, 1)
	assert.Equal(t, "Cetrizine Tablet", found[0].Name)
}

func TestResolveAllEmptyInput(t *testing.T) {
	cat := loadSample(t)
	assert.Empty(t, cat.ResolveAll(nil, 3))
	assert.Empty(t, cat.ResolveAll([]string{}, 3))
}
