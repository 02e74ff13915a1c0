package models

// Bucket is one bar of a dashboard breakdown.
type Bucket struct {
	Label           string `json:"label"`
	Reports         int    `json:"reports"`
	TimeLostMinutes int    `json:"time_lost_minutes"`
}

// DashboardStats is the full aggregation result. It is computed purely from
// the report list. An empty list yields the zero value with empty (never
// nil) breakdown slices.
type DashboardStats struct {
	TotalReports         int `json:"total_reports"`
	TotalTimeLostMinutes int `json:"total_time_lost_minutes"`
	WeekTimeLostMinutes  int `json:"week_time_lost_minutes"`
	MonthTimeLostMinutes int `json:"month_time_lost_minutes"`
	DelayedReports       int `json:"delayed_reports"`
	AvgDelayMinutes      int `json:"avg_delay_minutes"`
	MaxDelayMinutes      int `json:"max_delay_minutes"`
	DiscrepancyCount     int `json:"discrepancy_count"`
	DiscrepancyRate      int `json:"discrepancy_rate_percent"`

	ByWeek      []Bucket `json:"by_week"`
	ByMonth     []Bucket `json:"by_month"`
	ByDayOfWeek []Bucket `json:"by_day_of_week"`
	ByTimeBand  []Bucket `json:"by_time_band"`
	ByStation   []Bucket `json:"by_station"`
	ByCategory  []Bucket `json:"by_category"`
}
