package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxamas123/district-line-tracker/internal/models"
	"github.com/maxamas123/district-line-tracker/internal/providers"
	"github.com/maxamas123/district-line-tracker/internal/structures"
)

const (
	dateLayout         = "2006-01-02"
	timeLayout         = "15:04"
	maxDescriptionLen  = 1000
	defaultReporter    = "Anonymous"
	maxReporterNameLen = 100
)

// SubmitReport is the creation payload. ConfirmLargeDelay must be set when
// the claimed delay exceeds the re-confirmation threshold.
type SubmitReport struct {
	IncidentDate      string `json:"incident_date"`
	IncidentTime      string `json:"incident_time"`
	Station           string `json:"station"`
	Direction         string `json:"direction"`
	Category          string `json:"category"`
	DelayMinutes      *int   `json:"delay_minutes"`
	Description       string `json:"description"`
	ReporterName      string `json:"reporter_name"`
	ConfirmLargeDelay bool   `json:"confirm_large_delay"`
}

// CreatedReport is the only response that ever carries the owner token.
type CreatedReport struct {
	ID         string `json:"id"`
	OwnerToken string `json:"owner_token"`
}

type ReportServiceInterface interface {
	Submit(ctx context.Context, payload *SubmitReport, addr string) (*CreatedReport, error)
	Update(id, token string, edit models.ReportEdit) error
	Delete(id, token string) error
	List(station, category string, limit, offset int) []models.PublicReport
	Confirm(id, callerToken string) (int, error)
	Unconfirm(id, callerToken string) (int, error)
}

type ReportService struct {
	conf    *structures.Config
	logger  providers.Logger
	store   *models.ReportStore
	limiter providers.RateLimiterInterface
	status  StatusServiceInterface
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewReportService(conf *structures.Config, logger providers.Logger, store *models.ReportStore, limiter providers.RateLimiterInterface, status StatusServiceInterface, metrics providers.MetricsProviderInterface) ReportServiceInterface {
	return &ReportService{
		conf:    conf,
		logger:  logger,
		store:   store,
		limiter: limiter,
		status:  status,
		metrics: metrics,
		now:     time.Now,
	}
}

// Submit validates, rate-limits, resolves the official status for the
// incident's timestamp and persists the report. Validation runs before the
// rate limiter so a rejected payload never burns the caller's cooldown slot.
func (rs *ReportService) Submit(ctx context.Context, payload *SubmitReport, addr string) (*CreatedReport, error) {
	if err := rs.validateSubmission(payload); err != nil {
		return nil, err
	}

	if retryAfter, ok := rs.limiter.Acquire(addr); !ok {
		rs.metrics.IncRateLimited()
		rs.logger.Infof(providers.TypePost, "Rate limited submission from %s, retry in %ds", addr, retryAfter)
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	report := models.Report{
		IncidentDate: payload.IncidentDate,
		IncidentTime: payload.IncidentTime,
		Station:      payload.Station,
		Direction:    payload.Direction,
		Category:     payload.Category,
		DelayMinutes: payload.DelayMinutes,
		Description:  strings.TrimSpace(payload.Description),
		ReporterName: reporterOrDefault(payload.ReporterName),
	}

	// Status attachment is best-effort and must never block submission.
	if resolved := rs.status.ResolveForIncident(ctx, rs.incidentTimestamp(payload.IncidentDate, payload.IncidentTime)); resolved != nil {
		sev := resolved.StatusSeverity
		report.TflStatusSeverity = &sev
		report.TflStatusDescription = resolved.StatusDescription
		report.TflStatusReason = resolved.Reason
		report.TflStatusHistorical = resolved.Historical
	}

	id, token := rs.store.Create(&report)
	rs.logger.Infof(providers.TypePost, "Report %s created: %s / %s on %s", id, report.Station, report.Category, report.IncidentDate)
	return &CreatedReport{ID: id, OwnerToken: token}, nil
}

// Update re-validates the editable fields and applies them if the owner
// token matches. The frozen TfL status is deliberately not re-resolved.
func (rs *ReportService) Update(id, token string, edit models.ReportEdit) error {
	if err := rs.validateFields(edit.IncidentDate, edit.IncidentTime, edit.Station, edit.Direction, edit.Category, edit.DelayMinutes, edit.Description); err != nil {
		return err
	}
	edit.Description = strings.TrimSpace(edit.Description)
	if err := rs.store.Update(id, token, edit); err != nil {
		return err
	}
	rs.logger.Infof(providers.TypePost, "Report %s updated", id)
	return nil
}

func (rs *ReportService) Delete(id, token string) error {
	if err := rs.store.Delete(id, token); err != nil {
		return err
	}
	rs.logger.Infof(providers.TypePost, "Report %s deleted", id)
	return nil
}

func (rs *ReportService) List(station, category string, limit, offset int) []models.PublicReport {
	if limit <= 0 {
		limit = rs.conf.Reports.PageSize
	}
	if limit > rs.conf.Reports.MaxPageSize {
		limit = rs.conf.Reports.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	reports := rs.store.List(models.ListFilter{
		Station:  station,
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})

	out := make([]models.PublicReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Public())
	}
	return out
}

// Confirm increments the confirmation counter. A caller presenting the
// report's own owner token is confirming their own report and is rejected;
// a caller withholding the token cannot be told apart from anyone else, so
// this guard covers honest clients only.
func (rs *ReportService) Confirm(id, callerToken string) (int, error) {
	if err := rs.rejectSelfConfirm(id, callerToken); err != nil {
		return 0, err
	}
	return rs.store.Upvote(id)
}

func (rs *ReportService) Unconfirm(id, callerToken string) (int, error) {
	if err := rs.rejectSelfConfirm(id, callerToken); err != nil {
		return 0, err
	}
	return rs.store.Downvote(id)
}

func (rs *ReportService) rejectSelfConfirm(id, callerToken string) error {
	r, ok := rs.store.Get(id)
	if !ok {
		return models.ErrNotFound
	}
	if callerToken != "" && r.OwnerToken == callerToken {
		return ErrSelfConfirm
	}
	return nil
}

func reporterOrDefault(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultReporter
	}
	if len(name) > maxReporterNameLen {
		name = name[:maxReporterNameLen]
	}
	return name
}

func (rs *ReportService) incidentTimestamp(date, clock string) time.Time {
	ts, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
	if err != nil {
		return rs.now()
	}
	return ts
}

func (rs *ReportService) validateSubmission(p *SubmitReport) error {
	if err := rs.validateFields(p.IncidentDate, p.IncidentTime, p.Station, p.Direction, p.Category, p.DelayMinutes, p.Description); err != nil {
		return err
	}
	if p.DelayMinutes != nil && *p.DelayMinutes > rs.conf.Reports.ConfirmThreshold && !p.ConfirmLargeDelay {
		return &ValidationError{
			Field:   "delay_minutes",
			Message: fmt.Sprintf("delays above %d minutes must be explicitly confirmed", rs.conf.Reports.ConfirmThreshold),
		}
	}
	return nil
}

func (rs *ReportService) validateFields(date, clock, station, direction, category string, delay *int, description string) error {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return &ValidationError{Field: "incident_date", Message: "must be YYYY-MM-DD"}
	}
	start, _ := time.ParseInLocation(dateLayout, rs.conf.Reports.CollectionStartDate, time.Local)
	if day.Before(start) {
		return &ValidationError{Field: "incident_date", Message: "before data collection started (" + rs.conf.Reports.CollectionStartDate + ")"}
	}
	if day.After(rs.now()) {
		return &ValidationError{Field: "incident_date", Message: "cannot be in the future"}
	}

	clockT, err := time.Parse(timeLayout, clock)
	if err != nil {
		return &ValidationError{Field: "incident_time", Message: "must be HH:MM"}
	}
	if rs.inClosureWindow(clockT) {
		return &ValidationError{
			Field:   "incident_time",
			Message: fmt.Sprintf("the line does not run between %s and %s", rs.conf.Reports.ClosureStart, rs.conf.Reports.ClosureEnd),
		}
	}

	if !models.IsValidStation(station) {
		return &ValidationError{Field: "station", Message: "unknown station"}
	}
	if !models.IsValidDirection(direction) {
		return &ValidationError{Field: "direction", Message: "unknown direction"}
	}
	if !models.IsValidCategory(category) {
		return &ValidationError{Field: "category", Message: "unknown category"}
	}

	if delay != nil {
		if *delay < 0 {
			return &ValidationError{Field: "delay_minutes", Message: "cannot be negative"}
		}
		if *delay > rs.conf.Reports.MaxDelayMinutes {
			return &ValidationError{
				Field:   "delay_minutes",
				Message: fmt.Sprintf("capped at %d minutes", rs.conf.Reports.MaxDelayMinutes),
			}
		}
	}

	if len(description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("longer than %d characters", maxDescriptionLen)}
	}
	return nil
}

// inClosureWindow checks whether a clock time falls in the overnight
// shutdown. The window may wrap midnight.
func (rs *ReportService) inClosureWindow(clock time.Time) bool {
	minute := clock.Hour()*60 + clock.Minute()
	start := parseMinutes(rs.conf.Reports.ClosureStart)
	end := parseMinutes(rs.conf.Reports.ClosureEnd)
	if start <= end {
		return minute >= start && minute <= end
	}
	return minute >= start || minute <= end
}

func parseMinutes(clock string) int {
	t, err := time.Parse(timeLayout, clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}
