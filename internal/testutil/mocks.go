package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockStatusService implements services.StatusServiceInterface with
// injectable results.
type MockStatusService struct {
	mu           sync.Mutex
	LiveResult   *models.StatusSnapshot
	LiveErr      error
	SampleErr    error
	Resolved     *models.ResolvedStatus
	SampleCalls  int
	ResolveCalls []time.Time
}

func (m *MockStatusService) Live(_ context.Context) (*models.StatusSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LiveResult, m.LiveErr
}

func (m *MockStatusService) Sample(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SampleCalls++
	return m.SampleErr
}

func (m *MockStatusService) ResolveForIncident(_ context.Context, incidentAt time.Time) *models.ResolvedStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveCalls = append(m.ResolveCalls, incidentAt)
	return m.Resolved
}

// MockReportService implements services.ReportServiceInterface.
type MockReportService struct {
	mu             sync.Mutex
	SubmitResult   *services.CreatedReport
	SubmitErr      error
	SubmitCalls    []*services.SubmitReport
	UpdateErr      error
	DeleteErr      error
	ListResult     []models.PublicReport
	VoteResult     int
	VoteErr        error
	ConfirmCalls   []string
	UnconfirmCalls []string
}

func (m *MockReportService) Submit(_ context.Context, payload *services.SubmitReport, _ string) (*services.CreatedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitCalls = append(m.SubmitCalls, payload)
	return m.SubmitResult, m.SubmitErr
}

func (m *MockReportService) Update(_, _ string, _ models.ReportEdit) error {
	return m.UpdateErr
}

func (m *MockReportService) Delete(_, _ string) error {
	return m.DeleteErr
}

func (m *MockReportService) List(_, _ string, _, _ int) []models.PublicReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListResult
}

func (m *MockReportService) Confirm(id, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmCalls = append(m.ConfirmCalls, id)
	return m.VoteResult, m.VoteErr
}

func (m *MockReportService) Unconfirm(id, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnconfirmCalls = append(m.UnconfirmCalls, id)
	return m.VoteResult, m.VoteErr
}

// MockAggregationService implements services.AggregationServiceInterface.
type MockAggregationService struct {
	Result *models.DashboardStats
}

func (m *MockAggregationService) Dashboard() *models.DashboardStats {
	return m.Result
}

// MockRateLimiter implements providers.RateLimiterInterface.
type MockRateLimiter struct {
	mu           sync.Mutex
	Allow        bool
	RetryAfter   int
	AcquireCalls []string
	CleanupCalls int
}

func (m *MockRateLimiter) Acquire(addr string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcquireCalls = append(m.AcquireCalls, addr)
	if m.Allow {
		return 0, true
	}
	return m.RetryAfter, false
}

func (m *MockRateLimiter) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanupCalls++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}
