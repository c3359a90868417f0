package archive_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/dazzo/dazzod/internal/archive"
	"codeberg.org/dazzo/dazzod/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestRecordAndReopen(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	dbPath := filepath.Join(t.TempDir(), "samples.db")
	recorder, err := archive.NewService(archive.Config{DBPath: dbPath})
	require.NoError(t, err)

	entry := &archive.Entry{
		Timestamp: time.Unix(1700000000, 42),
		X:         1.5,
		Y:         -2.25,
		Z:         9.81,
		Magnitude: 10.18,
		Activity:  "active",
	}
	require.NoError(t, recorder.Record(context.Background(), entry))
	require.NoError(t, recorder.Close())

	// The archive persists across process restarts.
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var x, y, z, magnitude float64
	var activity string
	row := db.QueryRow("SELECT x, y, z, magnitude, activity FROM samples WHERE timestamp = ?",
		entry.Timestamp.UnixNano())
	require.NoError(t, row.Scan(&x, &y, &z, &magnitude, &activity))

	assert.InDelta(t, 1.5, x, 1e-9)
	assert.InDelta(t, -2.25, y, 1e-9)
	assert.InDelta(t, 9.81, z, 1e-9)
	assert.InDelta(t, 10.18, magnitude, 1e-9)
	assert.Equal(t, "active", activity)
}

func TestRecordNilEntry(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	dbPath := filepath.Join(t.TempDir(), "samples.db")
	recorder, err := archive.NewService(archive.Config{DBPath: dbPath})
	require.NoError(t, err)
	defer recorder.Close()

	assert.Error(t, recorder.Record(context.Background(), nil))
}

func TestEmptyPathUsesNoopRecorder(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	recorder, err := archive.NewService(archive.Config{})
	require.NoError(t, err)

	assert.NoError(t, recorder.Record(context.Background(), &archive.Entry{}))
	assert.NoError(t, recorder.Close())
}
