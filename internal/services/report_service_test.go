package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

// local mocks to avoid import cycle with testutil

type svcTestLogger struct{}

func (m *svcTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *svcTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *svcTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Close()                                                  {}

type svcTestLimiter struct {
	allow      bool
	retryAfter int
	calls      int
}

func (m *svcTestLimiter) Acquire(_ string) (int, bool) {
	m.calls++
	if m.allow {
		return 0, true
	}
	return m.retryAfter, false
}

func (m *svcTestLimiter) Cleanup() {}

type svcTestStatus struct {
	resolved *models.ResolvedStatus
}

func (m *svcTestStatus) Live(_ context.Context) (*models.StatusSnapshot, error) { return nil, nil }
func (m *svcTestStatus) Sample(_ context.Context) error                         { return nil }
func (m *svcTestStatus) ResolveForIncident(_ context.Context, _ time.Time) *models.ResolvedStatus {
	return m.resolved
}

func reportsConfig() *structures.Config {
	return &structures.Config{
		Reports: structures.ReportsConfig{
			CollectionStartDate: "2025-06-02",
			ClosureStart:        "01:00",
			ClosureEnd:          "04:59",
			MaxDelayMinutes:     60,
			ConfirmThreshold:    30,
			PageSize:            20,
			MaxPageSize:         100,
		},
	}
}

func newTestReportService(store *models.ReportStore, limiter providers.RateLimiterInterface, status StatusServiceInterface) *ReportService {
	conf := reportsConfig()
	return &ReportService{
		conf:    conf,
		logger:  &svcTestLogger{},
		store:   store,
		limiter: limiter,
		status:  status,
		metrics: providers.NewMetricsProvider(conf, store),
		now:     func() time.Time { return time.Date(2025, 7, 15, 12, 0, 0, 0, time.Local) },
	}
}

func validSubmission() *SubmitReport {
	delay := 10
	return &SubmitReport{
		IncidentDate: "2025-07-14",
		IncidentTime: "08:30",
		Station:      "Wimbledon",
		Direction:    "Eastbound (towards City)",
		Category:     "Signal Failure",
		DelayMinutes: &delay,
		Description:  "stuck outside Earls Court",
	}
}

func TestSubmit_CreatesReportWithDefaults(t *testing.T) {
	store := models.NewReportStore()
	sev := 6
	status := &svcTestStatus{resolved: &models.ResolvedStatus{
		StatusSnapshot: models.StatusSnapshot{StatusSeverity: sev, StatusDescription: "Minor Delays", Reason: "signal failure at Tower Hill"},
		Historical:     true,
	}}
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, status)

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.OwnerToken)

	r, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Anonymous", r.ReporterName)
	require.NotNil(t, r.TflStatusSeverity)
	assert.Equal(t, sev, *r.TflStatusSeverity)
	assert.Equal(t, "Minor Delays", r.TflStatusDescription)
	assert.True(t, r.TflStatusHistorical)
}

func TestSubmit_SurvivesMissingStatus(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	r, _ := store.Get(created.ID)
	assert.Nil(t, r.TflStatusSeverity)
}

func TestSubmit_ValidationRunsBeforeRateLimiter(t *testing.T) {
	limiter := &svcTestLimiter{allow: true}
	svc := newTestReportService(models.NewReportStore(), limiter, &svcTestStatus{})

	payload := validSubmission()
	payload.Station = "Richmond"
	_, err := svc.Submit(context.Background(), payload, "10.0.0.1")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "station", vErr.Field)
	assert.Equal(t, 0, limiter.calls)
}

func TestSubmit_RateLimited(t *testing.T) {
	svc := newTestReportService(models.NewReportStore(), &svcTestLimiter{retryAfter: 90}, &svcTestStatus{})

	_, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 90, rlErr.RetryAfter)
}

func TestSubmit_ValidationCases(t *testing.T) {
	svc := newTestReportService(models.NewReportStore(), &svcTestLimiter{allow: true}, &svcTestStatus{})

	cases := []struct {
		name   string
		mutate func(*SubmitReport)
		field  string
	}{
		{"malformed date", func(p *SubmitReport) { p.IncidentDate = "14/07/2025" }, "incident_date"},
		{"before collection start", func(p *SubmitReport) { p.IncidentDate = "2025-05-30" }, "incident_date"},
		{"future date", func(p *SubmitReport) { p.IncidentDate = "2025-08-01" }, "incident_date"},
		{"malformed time", func(p *SubmitReport) { p.IncidentTime = "8.30am" }, "incident_time"},
		{"inside closure window", func(p *SubmitReport) { p.IncidentTime = "03:00" }, "incident_time"},
		{"unknown station", func(p *SubmitReport) { p.Station = "Morden" }, "station"},
		{"unknown direction", func(p *SubmitReport) { p.Direction = "Northbound" }, "direction"},
		{"unknown category", func(p *SubmitReport) { p.Category = "Wrong Type Of Snow" }, "category"},
		{"negative delay", func(p *SubmitReport) { p.DelayMinutes = intPtr(-1) }, "delay_minutes"},
		{"delay above cap", func(p *SubmitReport) { p.DelayMinutes = intPtr(61) }, "delay_minutes"},
		{"large delay unconfirmed", func(p *SubmitReport) { p.DelayMinutes = intPtr(45) }, "delay_minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validSubmission()
			tc.mutate(payload)

			_, err := svc.Submit(context.Background(), payload, "10.0.0.1")
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestSubmit_LargeDelayConfirmed(t *testing.T) {
	svc := newTestReportService(models.NewReportStore(), &svcTestLimiter{allow: true}, &svcTestStatus{})

	payload := validSubmission()
	payload.DelayMinutes = intPtr(45)
	payload.ConfirmLargeDelay = true

	_, err := svc.Submit(context.Background(), payload, "10.0.0.1")
	assert.NoError(t, err)
}

func TestSubmit_ClosureWindowBoundaries(t *testing.T) {
	svc := newTestReportService(models.NewReportStore(), &svcTestLimiter{allow: true}, &svcTestStatus{})

	payload := validSubmission()
	payload.IncidentTime = "00:59"
	_, err := svc.Submit(context.Background(), payload, "10.0.0.1")
	assert.NoError(t, err)

	payload = validSubmission()
	payload.IncidentTime = "05:00"
	_, err = svc.Submit(context.Background(), payload, "10.0.0.2")
	assert.NoError(t, err)

	payload = validSubmission()
	payload.IncidentTime = "04:59"
	_, err = svc.Submit(context.Background(), payload, "10.0.0.3")
	assert.Error(t, err)
}

func TestUpdate_KeepsStatusFrozen(t *testing.T) {
	store := models.NewReportStore()
	sev := 10
	status := &svcTestStatus{resolved: &models.ResolvedStatus{
		StatusSnapshot: models.StatusSnapshot{StatusSeverity: sev, StatusDescription: "Good Service"},
	}}
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, status)

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	// A different status is live now; the edit must not pick it up
	status.resolved = &models.ResolvedStatus{
		StatusSnapshot: models.StatusSnapshot{StatusSeverity: 2, StatusDescription: "Severe Delays"},
	}

	err = svc.Update(created.ID, created.OwnerToken, models.ReportEdit{
		IncidentDate: "2025-07-13",
		IncidentTime: "09:15",
		Station:      "Southfields",
		Direction:    "Both / General",
		Category:     "Overcrowding",
	})
	require.NoError(t, err)

	r, _ := store.Get(created.ID)
	assert.Equal(t, "Southfields", r.Station)
	assert.Equal(t, "Good Service", r.TflStatusDescription)
	assert.Equal(t, 10, *r.TflStatusSeverity)
}

func TestUpdate_RevalidatesFields(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	err = svc.Update(created.ID, created.OwnerToken, models.ReportEdit{
		IncidentDate: "2025-07-13",
		IncidentTime: "03:00",
		Station:      "Southfields",
		Direction:    "Both / General",
		Category:     "Overcrowding",
	})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateAndDelete_WrongToken(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	edit := models.ReportEdit{
		IncidentDate: "2025-07-13", IncidentTime: "09:15",
		Station: "Southfields", Direction: "Both / General", Category: "Overcrowding",
	}
	assert.ErrorIs(t, svc.Update(created.ID, "bogus", edit), models.ErrTokenMismatch)
	assert.ErrorIs(t, svc.Delete(created.ID, "bogus"), models.ErrTokenMismatch)
	assert.NoError(t, svc.Delete(created.ID, created.OwnerToken))
}

func TestConfirm_RejectsOwnToken(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	created, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.Confirm(created.ID, created.OwnerToken)
	assert.ErrorIs(t, err, ErrSelfConfirm)

	n, err := svc.Confirm(created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Unconfirm(created.ID, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestConfirm_UnknownReport(t *testing.T) {
	svc := newTestReportService(models.NewReportStore(), &svcTestLimiter{allow: true}, &svcTestStatus{})
	_, err := svc.Confirm("missing", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestList_NormalizesPaging(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	for i := 0; i < 25; i++ {
		store.Create(&models.Report{
			IncidentDate: "2025-07-14", IncidentTime: "08:30",
			Station: "Wimbledon", Direction: "Both / General", Category: "Other",
		})
	}

	assert.Len(t, svc.List("", "", 0, 0), 20)
	assert.Len(t, svc.List("", "", 500, 0), 25)
	assert.Len(t, svc.List("", "", 10, 20), 5)
	assert.Empty(t, svc.List("Southfields", "", 0, 0))
}

func TestList_NeverExposesOwnerToken(t *testing.T) {
	store := models.NewReportStore()
	svc := newTestReportService(store, &svcTestLimiter{allow: true}, &svcTestStatus{})

	_, err := svc.Submit(context.Background(), validSubmission(), "10.0.0.1")
	require.NoError(t, err)

	out := svc.List("", "", 0, 0)
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
}
