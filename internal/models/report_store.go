package models

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrTokenMismatch = errors.New("owner token mismatch")
)

// ListFilter narrows and pages the report feed. Zero values mean "no filter";
// Limit must be normalized by the caller before it reaches the store.
type ListFilter struct {
	Station  string
	Category string
	Limit    int
	Offset   int
}

// ReportEdit is the owner-editable field set. The attached TfL status and the
// confirmation counter are deliberately absent: the former is frozen at
// submission, the latter only moves through Upvote/Downvote.
type ReportEdit struct {
	IncidentDate string `json:"incident_date"`
	IncidentTime string `json:"incident_time"`
	Station      string `json:"station"`
	Direction    string `json:"direction"`
	Category     string `json:"category"`
	DelayMinutes *int   `json:"delay_minutes"`
	Description  string `json:"description"`
}

// ReportStore keeps all reports and the status snapshot log under one
// RWMutex. Counter mutations and the token check happen inside the lock, so
// concurrent confirms cannot lose updates and edits cannot race the check.
type ReportStore struct {
	mu        sync.RWMutex
	reports   map[string]*Report
	snapshots []StatusSnapshot
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*Report),
	}
}

// Create assigns a fresh id and owner token, stamps CreatedAt and persists
// the report. The returned token is the only copy the caller will ever get.
func (s *ReportStore) Create(r *Report) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.ID = uuid.NewString()
	stored.OwnerToken = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	stored.Upvotes = 0
	s.reports[stored.ID] = &stored
	return stored.ID, stored.OwnerToken
}

func (s *ReportStore) Get(id string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, false
	}
	cp := *r
	return &cp, true
}

// Update applies the editable field set if the token matches. The record is
// untouched on any error.
func (s *ReportStore) Update(id, token string, edit ReportEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	if r.OwnerToken != token {
		return ErrTokenMismatch
	}
	r.IncidentDate = edit.IncidentDate
	r.IncidentTime = edit.IncidentTime
	r.Station = edit.Station
	r.Direction = edit.Direction
	r.Category = edit.Category
	r.DelayMinutes = edit.DelayMinutes
	r.Description = edit.Description
	return nil
}

// Delete hard-deletes the report if the token matches. Irreversible.
func (s *ReportStore) Delete(id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	if r.OwnerToken != token {
		return ErrTokenMismatch
	}
	delete(s.reports, id)
	return nil
}

// Upvote atomically increments the confirmation counter and returns the new
// value.
func (s *ReportStore) Upvote(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return 0, ErrNotFound
	}
	r.Upvotes++
	return r.Upvotes, nil
}

// Downvote atomically decrements the counter, flooring at zero.
func (s *ReportStore) Downvote(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return 0, ErrNotFound
	}
	if r.Upvotes > 0 {
		r.Upvotes--
	}
	return r.Upvotes, nil
}

// List returns a newest-incident-first page of report copies.
func (s *ReportStore) List(f ListFilter) []*Report {
	s.mu.RLock()
	matched := make([]*Report, 0, len(s.reports))
	for _, r := range s.reports {
		if f.Station != "" && r.Station != f.Station {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		cp := *r
		matched = append(matched, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.IncidentDate != b.IncidentDate {
			return a.IncidentDate > b.IncidentDate
		}
		if a.IncidentTime != b.IncidentTime {
			return a.IncidentTime > b.IncidentTime
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if f.Offset >= len(matched) {
		return []*Report{}
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched
}

// All returns copies of every report, unordered. Input for the aggregation
// engine, which does its own grouping.
func (s *ReportStore) All() []*Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Report, 0, len(s.reports))
	for _, r := range s.reports {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// AppendSnapshot adds one sample to the status log.
func (s *ReportStore) AppendSnapshot(snap StatusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
}

// SnapshotAtOrBefore returns the most recent snapshot with CheckedAt <= t.
func (s *ReportStore) SnapshotAtOrBefore(t time.Time) (StatusSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best StatusSnapshot
	found := false
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		snap := s.snapshots[i]
		if snap.CheckedAt.After(t) {
			continue
		}
		if !found || snap.CheckedAt.After(best.CheckedAt) {
			best = snap
			found = true
		}
	}
	return best, found
}

func (s *ReportStore) SnapshotCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Snapshot copies the full store state into a persistence envelope.
func (s *ReportStore) Snapshot() *Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Storage{
		Version:   StorageVersion,
		Reports:   make(map[string]*Report, len(s.reports)),
		StatusLog: make([]StatusSnapshot, len(s.snapshots)),
	}
	for id, r := range s.reports {
		cp := *r
		st.Reports[id] = &cp
	}
	copy(st.StatusLog, s.snapshots)
	return st
}

// Restore replaces the store state from a persistence envelope.
func (s *ReportStore) Restore(st *Storage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = make(map[string]*Report, len(st.Reports))
	for id, r := range st.Reports {
		cp := *r
		s.reports[id] = &cp
	}
	s.snapshots = make([]StatusSnapshot, len(st.StatusLog))
	copy(s.snapshots, st.StatusLog)
	sort.Slice(s.snapshots, func(i, j int) bool {
		return s.snapshots[i].CheckedAt.Before(s.snapshots[j].CheckedAt)
	})
}
