package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

type StatusServiceInterface interface {
	// Live returns the current official status, served from a short-lived
	// cache and refetched when stale. When the upstream is down and nothing
	// is cached the error wraps ErrNoStatus.
	Live(ctx context.Context) (*models.StatusSnapshot, error)
	// Sample fetches the current status and appends one snapshot to the log.
	// On fetch or parse failure nothing is written.
	Sample(ctx context.Context) error
	// ResolveForIncident picks the status to freeze onto a report for the
	// given incident timestamp. Best-effort: returns nil when nothing is
	// available, never an error.
	ResolveForIncident(ctx context.Context, incidentAt time.Time) *models.ResolvedStatus
}

// Wire shape of the TfL line status response.
type tflLineStatus struct {
	StatusSeverity            int    `json:"statusSeverity"`
	StatusSeverityDescription string `json:"statusSeverityDescription"`
	Reason                    string `json:"reason"`
}

type tflLine struct {
	LineStatuses []tflLineStatus `json:"lineStatuses"`
}

type StatusService struct {
	conf    *structures.Config
	logger  providers.Logger
	store   *models.ReportStore
	metrics providers.MetricsProviderInterface
	client  *http.Client
	now     func() time.Time

	mu        sync.Mutex
	live      *models.StatusSnapshot
	fetchedAt time.Time
}

func NewStatusService(conf *structures.Config, logger providers.Logger, store *models.ReportStore, metrics providers.MetricsProviderInterface) StatusServiceInterface {
	return &StatusService{
		conf:    conf,
		logger:  logger,
		store:   store,
		metrics: metrics,
		client:  &http.Client{Timeout: conf.Tfl.RequestTimeout},
		now:     time.Now,
	}
}

// fetch pulls the line status from the upstream feed and normalizes it to
// the single worst entry (lowest severity) when several branches are
// disrupted at once.
func (s *StatusService) fetch(ctx context.Context) (*models.StatusSnapshot, error) {
	url := fmt.Sprintf("%s/Line/%s/Status", strings.TrimRight(s.conf.Tfl.ApiUrl, "/"), s.conf.Tfl.Line)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.IncUpstreamErrors()
		return nil, fmt.Errorf("tfl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.IncUpstreamErrors()
		return nil, fmt.Errorf("tfl returned status %d", resp.StatusCode)
	}

	var lines []tflLine
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		s.metrics.IncUpstreamErrors()
		return nil, fmt.Errorf("tfl response decode failed: %w", err)
	}
	if len(lines) == 0 || len(lines[0].LineStatuses) == 0 {
		s.metrics.IncUpstreamErrors()
		return nil, fmt.Errorf("unexpected tfl response shape")
	}

	worst := lines[0].LineStatuses[0]
	for _, st := range lines[0].LineStatuses[1:] {
		if st.StatusSeverity < worst.StatusSeverity {
			worst = st
		}
	}

	return &models.StatusSnapshot{
		CheckedAt:         s.now().UTC(),
		StatusSeverity:    worst.StatusSeverity,
		StatusDescription: worst.StatusSeverityDescription,
		Reason:            worst.Reason,
	}, nil
}

func (s *StatusService) cached() (*models.StatusSnapshot, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return nil, time.Time{}
	}
	cp := *s.live
	return &cp, s.fetchedAt
}

func (s *StatusService) storeLive(snap *models.StatusSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.live = &cp
	s.fetchedAt = s.now()
}

func (s *StatusService) Live(ctx context.Context) (*models.StatusSnapshot, error) {
	if snap, at := s.cached(); snap != nil && s.now().Sub(at) <= s.conf.Tfl.LiveMaxAge {
		return snap, nil
	}

	snap, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warnf(providers.TypeTfl, "Live status fetch failed: %s", err)
		// Serve the stale value rather than nothing; the banner degrades
		// gracefully and the caller treats nil as "no status available".
		if stale, _ := s.cached(); stale != nil {
			return stale, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrNoStatus, err)
	}
	s.storeLive(snap)
	return snap, nil
}

func (s *StatusService) Sample(ctx context.Context) error {
	snap, err := s.fetch(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeTfl, "Sampler tick failed: %s", err)
		return err
	}

	s.store.AppendSnapshot(*snap)
	s.storeLive(snap)
	s.logger.Infof(providers.TypeTfl, "Logged TfL status: %s (severity %d)", snap.StatusDescription, snap.StatusSeverity)
	return nil
}

func (s *StatusService) ResolveForIncident(ctx context.Context, incidentAt time.Time) *models.ResolvedStatus {
	now := s.now()

	// Recent incidents use the live status directly; no log lookup.
	diff := now.Sub(incidentAt)
	if diff < 0 {
		diff = -diff
	}
	if diff <= s.conf.Tfl.LiveWindow {
		if live, err := s.Live(ctx); err == nil {
			return &models.ResolvedStatus{StatusSnapshot: *live, Historical: false}
		}
		return nil
	}

	if snap, ok := s.store.SnapshotAtOrBefore(incidentAt); ok {
		return &models.ResolvedStatus{StatusSnapshot: snap, Historical: true}
	}

	// No snapshot predates the incident; fall back to live, flagged as
	// non-historical.
	if live, err := s.Live(ctx); err == nil {
		return &models.ResolvedStatus{StatusSnapshot: *live, Historical: false}
	}
	return nil
}
