package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
	"github.com/maxamas123/district-line-tracker/internal/testutil"
)

func newTestFileManager(t *testing.T, store *models.ReportStore) *FileManager {
	t.Helper()
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)

	metrics := providers.NewMetricsProvider(&structures.Config{}, store)
	return NewFileManager(compressor, store, &testutil.MockLogger{}, metrics)
}

func TestFileManager_SaveAndLoadRoundTrip(t *testing.T) {
	store := models.NewReportStore()
	id, token := store.Create(&models.Report{
		IncidentDate: "2025-07-14", IncidentTime: "08:30",
		Station: "Wimbledon", Category: "Signal Failure",
	})
	store.Upvote(id)
	store.AppendSnapshot(models.StatusSnapshot{
		CheckedAt: time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC), StatusSeverity: 6,
	})

	path := filepath.Join(t.TempDir(), "reports.dat")
	require.NoError(t, newTestFileManager(t, store).SaveToFile(path))

	restored := models.NewReportStore()
	require.NoError(t, newTestFileManager(t, restored).LoadFromFile(path))

	assert.Equal(t, 1, restored.Count())
	assert.Equal(t, 1, restored.SnapshotCount())

	r, ok := restored.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Wimbledon", r.Station)
	assert.Equal(t, 1, r.Upvotes)
	assert.Equal(t, token, r.OwnerToken)
}

func TestFileManager_MissingFileIsFreshInstall(t *testing.T) {
	store := models.NewReportStore()
	err := newTestFileManager(t, store).LoadFromFile(filepath.Join(t.TempDir(), "absent.dat"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())
}

func TestFileManager_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not a data file"), 0644))

	err := newTestFileManager(t, models.NewReportStore()).LoadFromFile(path)
	assert.Error(t, err)
}

func TestFileManager_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.dat")
	require.NoError(t, newTestFileManager(t, models.NewReportStore()).SaveToFile(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_OverwritesPreviousSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.dat")

	store := models.NewReportStore()
	fm := newTestFileManager(t, store)
	require.NoError(t, fm.SaveToFile(path))

	store.Create(&models.Report{IncidentDate: "2025-07-14", IncidentTime: "08:30", Station: "Wimbledon"})
	require.NoError(t, fm.SaveToFile(path))

	restored := models.NewReportStore()
	require.NoError(t, newTestFileManager(t, restored).LoadFromFile(path))
	assert.Equal(t, 1, restored.Count())
}
