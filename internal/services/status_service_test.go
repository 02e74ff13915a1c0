package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

func tflConfig(apiURL string) *structures.Config {
	return &structures.Config{
		Tfl: structures.TflConfig{
			ApiUrl:         apiURL,
			Line:           "district",
			PollInterval:   15 * time.Minute,
			RequestTimeout: 2 * time.Second,
			LiveMaxAge:     time.Minute,
			LiveWindow:     time.Hour,
		},
	}
}

func newTestStatusService(store *models.ReportStore, conf *structures.Config) *StatusService {
	return &StatusService{
		conf:    conf,
		logger:  &svcTestLogger{},
		store:   store,
		metrics: providers.NewMetricsProvider(conf, store),
		client:  &http.Client{Timeout: conf.Tfl.RequestTimeout},
		now:     time.Now,
	}
}

func lineStatusBody(statuses string) string {
	return `[{"id":"district","name":"District","lineStatuses":[` + statuses + `]}]`
}

func TestStatusService_FetchPicksWorstSeverity(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/Line/district/Status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(lineStatusBody(
			`{"statusSeverity":10,"statusSeverityDescription":"Good Service"},` +
				`{"statusSeverity":5,"statusSeverityDescription":"Part Closure","reason":"No service between Richmond and Turnham Green"}`)))
	}))
	defer server.Close()

	svc := newTestStatusService(models.NewReportStore(), tflConfig(server.URL))

	snap, err := svc.Live(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, snap.StatusSeverity)
	assert.Equal(t, "Part Closure", snap.StatusDescription)
	assert.False(t, snap.IsGoodService())
	assert.Equal(t, models.RelevanceOtherBranch, snap.Relevance())
}

func TestStatusService_LiveServedFromCache(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte(lineStatusBody(`{"statusSeverity":10,"statusSeverityDescription":"Good Service"}`)))
	}))
	defer server.Close()

	svc := newTestStatusService(models.NewReportStore(), tflConfig(server.URL))

	_, err := svc.Live(context.Background())
	require.NoError(t, err)
	_, err = svc.Live(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), requests.Load())
}

func TestStatusService_LiveServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(lineStatusBody(`{"statusSeverity":9,"statusSeverityDescription":"Minor Delays"}`)))
	}))
	defer server.Close()

	svc := newTestStatusService(models.NewReportStore(), tflConfig(server.URL))

	_, err := svc.Live(context.Background())
	require.NoError(t, err)

	// Expire the cache, then break the upstream
	svc.mu.Lock()
	svc.fetchedAt = svc.fetchedAt.Add(-2 * time.Minute)
	svc.mu.Unlock()
	fail.Store(true)

	snap, err := svc.Live(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, snap.StatusSeverity)
}

func TestStatusService_LiveFailsWithNothingCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"malformed":`))
	}))
	defer server.Close()

	svc := newTestStatusService(models.NewReportStore(), tflConfig(server.URL))

	_, err := svc.Live(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoStatus)
}

func TestStatusService_SampleAppendsSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(lineStatusBody(`{"statusSeverity":6,"statusSeverityDescription":"Severe Delays","reason":"Signal failure at Parsons Green"}`)))
	}))
	defer server.Close()

	store := models.NewReportStore()
	svc := newTestStatusService(store, tflConfig(server.URL))

	require.NoError(t, svc.Sample(context.Background()))
	assert.Equal(t, 1, store.SnapshotCount())

	snap, ok := store.SnapshotAtOrBefore(time.Now().UTC())
	require.True(t, ok)
	assert.Equal(t, 6, snap.StatusSeverity)
	assert.Equal(t, models.RelevanceAffected, snap.Relevance())
}

func TestStatusService_FailedSampleWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store := models.NewReportStore()
	svc := newTestStatusService(store, tflConfig(server.URL))

	assert.Error(t, svc.Sample(context.Background()))
	assert.Equal(t, 0, store.SnapshotCount())
}

func TestResolveForIncident_RecentUsesLiveStatus(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestStatusService(store, tflConfig("http://unreachable.invalid"))

	// Pre-warm the live cache so no network call happens
	svc.storeLive(&models.StatusSnapshot{CheckedAt: time.Now().UTC(), StatusSeverity: 9})

	resolved := svc.ResolveForIncident(context.Background(), time.Now().Add(-30*time.Minute))
	require.NotNil(t, resolved)
	assert.False(t, resolved.Historical)
	assert.Equal(t, 9, resolved.StatusSeverity)
}

func TestResolveForIncident_OldIncidentUsesSnapshotLog(t *testing.T) {
	store := models.NewReportStore()
	incidentAt := time.Now().Add(-6 * time.Hour)
	store.AppendSnapshot(models.StatusSnapshot{CheckedAt: incidentAt.Add(-10 * time.Minute), StatusSeverity: 4})

	svc := newTestStatusService(store, tflConfig("http://unreachable.invalid"))
	svc.storeLive(&models.StatusSnapshot{CheckedAt: time.Now().UTC(), StatusSeverity: 10})

	resolved := svc.ResolveForIncident(context.Background(), incidentAt)
	require.NotNil(t, resolved)
	assert.True(t, resolved.Historical)
	assert.Equal(t, 4, resolved.StatusSeverity)
}

func TestResolveForIncident_NoSnapshotFallsBackToLive(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestStatusService(store, tflConfig("http://unreachable.invalid"))
	svc.storeLive(&models.StatusSnapshot{CheckedAt: time.Now().UTC(), StatusSeverity: 10})

	resolved := svc.ResolveForIncident(context.Background(), time.Now().Add(-6*time.Hour))
	require.NotNil(t, resolved)
	assert.False(t, resolved.Historical)
	assert.Equal(t, 10, resolved.StatusSeverity)
}

func TestResolveForIncident_NothingAvailable(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestStatusService(store, tflConfig("http://unreachable.invalid"))

	resolved := svc.ResolveForIncident(context.Background(), time.Now().Add(-6*time.Hour))
	assert.Nil(t, resolved)
}
