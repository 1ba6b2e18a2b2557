package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmapped(t *testing.T) {
	m, err := BuildMapping(dictSet([]string{"aliases", "canonical"}, [2]string{"ITAQUERA", "FATEC Itaquera"}))
	require.NoError(t, err)

	got, err := Unmapped(unitSet("itaquera", "Itaquerra", "Osasco", " Itaquerra", ""), "Unidade", m)
	require.NoError(t, err)
	assert.Equal(t, []UnmappedLabel{{Value: "Itaquerra", Count: 2}, {Value: "Osasco", Count: 1}}, got)
}

func TestSuggest(t *testing.T) {
	m, err := BuildMapping(dictSet([]string{"aliases", "canonical"},
		[2]string{"ITAQUERA", "Itaquera"},
		[2]string{"OSASCO", "Osasco"},
	))
	require.NoError(t, err)

	got := Suggest([]UnmappedLabel{{Value: "Itaquerra", Count: 1}, {Value: "Jundiaí", Count: 1}}, m, 0.9)
	require.Len(t, got, 1)
	assert.Equal(t, "Itaquerra", got[0].Value)
	assert.Equal(t, "Itaquera", got[0].Canonical)
	assert.GreaterOrEqual(t, got[0].Score, 0.9)

	assert.Nil(t, Suggest([]UnmappedLabel{{Value: "x"}}, NewMapping(), 0))
}
