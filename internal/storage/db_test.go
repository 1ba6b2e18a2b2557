package storage

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatecdata/internal"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "fatec.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunLedger(t *testing.T) {
	db := openTemp(t)

	first, err := db.InsertRun(internal.RunRecord{
		Command: "alias:apply",
		Timings: map[string]float64{"apply": 1.5},
		Counts:  map[string]int{"rows": 10, "mapped": 7},
	})
	require.NoError(t, err)
	second, err := db.InsertRun(internal.RunRecord{Command: "notices:report", Status: StatusEmpty})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "notices:report", runs[0].Command)
	assert.Equal(t, StatusEmpty, runs[0].Status)
	assert.Empty(t, runs[0].Counts)

	assert.Equal(t, "alias:apply", runs[1].Command)
	assert.Equal(t, StatusOK, runs[1].Status)
	assert.Equal(t, map[string]int{"rows": 10, "mapped": 7}, runs[1].Counts)
	assert.InDelta(t, 1.5, runs[1].Timings["apply"], 1e-9)
	_, err = uuid.Parse(runs[1].TraceID)
	assert.NoError(t, err)
	assert.NotEmpty(t, runs[1].CreatedAt)

	limited, err := db.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMetadata(t *testing.T) {
	db := openTemp(t)

	value, err := db.GetMetadata("notices.last_fetch")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, db.SetMetadata("notices.last_fetch", "2025-01-01T00:00:00Z"))
	require.NoError(t, db.SetMetadata("notices.last_fetch", "2025-02-01T00:00:00Z"))
	value, err = db.GetMetadata("notices.last_fetch")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "2025-02-01T00:00:00Z", *value)
}
