package models

// StorageVersion is the current persistence envelope version.
const StorageVersion = 1

// Storage is the on-disk envelope: every report keyed by id plus the
// append-only status log.
type Storage struct {
	Version   int                `json:"version"`
	Reports   map[string]*Report `json:"reports"`
	StatusLog []StatusSnapshot   `json:"status_log"`
}
