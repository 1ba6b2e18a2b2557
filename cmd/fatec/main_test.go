package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatecdata/internal/filter"
)

func TestBuildSpecMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtros.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{fields: [{column: "Fatec", values: ["Fatec Sorocaba"]}]}`), 0o644))

	spec, err := buildSpec(path, []string{"Fatec=Fatec Itu", "Curso=ADS|GTI"}, []string{"Curso"}, []string{"Fatec"})
	require.NoError(t, err)
	require.Len(t, spec.Fields, 2)

	assert.Equal(t, filter.Field{Column: "Fatec", Values: []string{"Fatec Sorocaba", "Fatec Itu"}, Exact: true}, spec.Fields[0])
	assert.Equal(t, filter.Field{Column: "Curso", Values: []string{"ADS", "GTI"}, Multi: true}, spec.Fields[1])
}

func TestBuildSpecRejectsBadFlag(t *testing.T) {
	_, err := buildSpec("", []string{"no-equals"}, nil, nil)
	assert.Error(t, err)
}

func TestFormatCountsSortsKeys(t *testing.T) {
	assert.Equal(t, "matched=2 total=10", formatCounts(map[string]int{"total": 10, "matched": 2}))
	assert.Empty(t, formatCounts(nil))
}

func TestRunsListWithEmptyLedger(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_DEVELOPMENT", "false")

	var out bytes.Buffer
	a := &app{out: &out}
	cmd := newRootCmd(a)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "runs.db"), "runs:list"})
	err := cmd.Execute()
	a.teardown()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "COMMAND")
}

func TestUnknownPeriodSourceFails(t *testing.T) {
	t.Chdir(t.TempDir())
	a := &app{out: &bytes.Buffer{}}
	cmd := newRootCmd(a)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "runs.db"), "demand:scrape", "--periods-from", "ftp"})
	err := cmd.Execute()
	a.teardown()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "static or browser")
}
