package services

import (
	"math"
	"sort"
	"time"

	"github.com/maxamas123/district-line-tracker/internal/models"
)

var dayOfWeekLabels = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Two-hour bands covering the reporting day. Incident times outside every
// band (late night, early morning) are excluded from the band breakdown.
var timeBandLabels = []string{
	"06-08", "08-10", "10-12", "12-14", "14-16", "16-18", "18-20", "20-22",
}

const firstBandHour = 6

type AggregationServiceInterface interface {
	// Dashboard computes the full stats set purely from the current report
	// list; the same list always produces the same result.
	Dashboard() *models.DashboardStats
}

type AggregationService struct {
	store *models.ReportStore
	now   func() time.Time
}

func NewAggregationService(store *models.ReportStore) AggregationServiceInterface {
	return &AggregationService{store: store, now: time.Now}
}

func (as *AggregationService) Dashboard() *models.DashboardStats {
	reports := as.store.All()
	now := as.now()
	weekCutoff := now.Add(-7 * 24 * time.Hour)
	monthCutoff := now.Add(-30 * 24 * time.Hour)

	stats := &models.DashboardStats{
		ByWeek:      []models.Bucket{},
		ByMonth:     []models.Bucket{},
		ByDayOfWeek: fixedBuckets(dayOfWeekLabels),
		ByTimeBand:  fixedBuckets(timeBandLabels),
		ByStation:   fixedBuckets(models.Stations),
	}

	weekBuckets := make(map[string]*models.Bucket)
	monthBuckets := make(map[string]*models.Bucket)
	categoryBuckets := make(map[string]*models.Bucket)
	stationIndex := indexOf(models.Stations)

	delaySum := 0
	for _, r := range reports {
		lost := r.TimeLostMinutes()
		stats.TotalReports++
		stats.TotalTimeLostMinutes += lost

		if r.HasDelay() {
			stats.DelayedReports++
			delaySum += *r.DelayMinutes
			if *r.DelayMinutes > stats.MaxDelayMinutes {
				stats.MaxDelayMinutes = *r.DelayMinutes
			}
		}
		if r.IsDiscrepancy() {
			stats.DiscrepancyCount++
		}

		if idx, ok := stationIndex[r.Station]; ok {
			addTo(&stats.ByStation[idx], lost)
		}
		addTo(mapBucket(categoryBuckets, r.Category), lost)

		day, err := time.ParseInLocation("2006-01-02", r.IncidentDate, time.Local)
		if err != nil {
			continue
		}
		if !day.Before(weekCutoff) {
			stats.WeekTimeLostMinutes += lost
		}
		if !day.Before(monthCutoff) {
			stats.MonthTimeLostMinutes += lost
		}

		addTo(mapBucket(weekBuckets, mondayOf(day).Format("2006-01-02")), lost)
		addTo(mapBucket(monthBuckets, day.Format("2006-01")), lost)
		addTo(&stats.ByDayOfWeek[mondayFirstIndex(day.Weekday())], lost)

		if t, err := time.Parse("15:04", r.IncidentTime); err == nil {
			if band, ok := timeBandIndex(t.Hour()); ok {
				addTo(&stats.ByTimeBand[band], lost)
			}
		}
	}

	if stats.DelayedReports > 0 {
		stats.AvgDelayMinutes = int(math.Round(float64(delaySum) / float64(stats.DelayedReports)))
		stats.DiscrepancyRate = int(math.Round(float64(stats.DiscrepancyCount) / float64(stats.DelayedReports) * 100))
	}

	stats.ByWeek = sortedByLabel(weekBuckets)
	stats.ByMonth = sortedByLabel(monthBuckets)
	stats.ByCategory = sortedByFrequency(categoryBuckets)
	return stats
}

func fixedBuckets(labels []string) []models.Bucket {
	out := make([]models.Bucket, len(labels))
	for i, l := range labels {
		out[i] = models.Bucket{Label: l}
	}
	return out
}

func indexOf(labels []string) map[string]int {
	out := make(map[string]int, len(labels))
	for i, l := range labels {
		out[l] = i
	}
	return out
}

func mapBucket(m map[string]*models.Bucket, label string) *models.Bucket {
	b, ok := m[label]
	if !ok {
		b = &models.Bucket{Label: label}
		m[label] = b
	}
	return b
}

func addTo(b *models.Bucket, lost int) {
	b.Reports++
	b.TimeLostMinutes += lost
}

// mondayOf anchors the week bucket on the Monday of the incident's week, so
// a Tuesday and the following Monday land in different buckets no matter
// what day the aggregation runs on.
func mondayOf(day time.Time) time.Time {
	return day.AddDate(0, 0, -mondayFirstIndex(day.Weekday()))
}

func mondayFirstIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func timeBandIndex(hour int) (int, bool) {
	if hour < firstBandHour || hour >= firstBandHour+2*len(timeBandLabels) {
		return 0, false
	}
	return (hour - firstBandHour) / 2, true
}

func sortedByLabel(m map[string]*models.Bucket) []models.Bucket {
	out := make([]models.Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// sortedByFrequency orders categories by report count, most frequent first;
// ties break alphabetically so the output is stable.
func sortedByFrequency(m map[string]*models.Bucket) []models.Bucket {
	out := make([]models.Bucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reports != out[j].Reports {
			return out[i].Reports > out[j].Reports
		}
		return out[i].Label < out[j].Label
	})
	return out
}
