package tracker

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/tracker/interfaces"
)

type FileManager struct {
	store      *models.ReportStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, store *models.ReportStore, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
		metrics:    metrics,
	}
}

// SaveToFile writes the full store snapshot through a temp file so a crash
// mid-write never corrupts the previous good copy.
func (f *FileManager) SaveToFile(fileName string) error {
	started := time.Now()

	jsonData, err := json.Marshal(f.store.Snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}

	f.metrics.ObservePersistenceDuration(time.Since(started))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the store from disk. A missing file is a fresh
// install, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeApp, "No data file at %s, starting empty", fileName)
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("data file version %d is newer than supported version %d", storage.Version, models.StorageVersion)
	}

	f.store.Restore(&storage)
	f.logger.Infof(providers.TypeApp, "Restored %d reports and %d status snapshots from %s", f.store.Count(), f.store.SnapshotCount(), fileName)
	return nil
}
