package models

import (
	"time"
)

// Report is one commuter-submitted incident. The TflStatus* fields are a
// frozen copy of the official line status as resolved for the incident's
// timestamp; they are captured once at submission and never recomputed.
// OwnerToken gates edit/delete and is only ever transmitted in the create
// response.
type Report struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	IncidentDate         string    `json:"incident_date"`
	IncidentTime         string    `json:"incident_time"`
	Station              string    `json:"station"`
	Direction            string    `json:"direction"`
	Category             string    `json:"category"`
	DelayMinutes         *int      `json:"delay_minutes"`
	Description          string    `json:"description,omitempty"`
	ReporterName         string    `json:"reporter_name"`
	TflStatusSeverity    *int      `json:"tfl_status_severity"`
	TflStatusDescription string    `json:"tfl_status_description,omitempty"`
	TflStatusReason      string    `json:"tfl_status_reason,omitempty"`
	TflStatusHistorical  bool      `json:"tfl_status_historical"`
	Upvotes              int       `json:"upvotes"`
	OwnerToken           string    `json:"owner_token,omitempty"`
}

// PublicReport is the feed representation: everything except the owner token.
type PublicReport struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	IncidentDate         string    `json:"incident_date"`
	IncidentTime         string    `json:"incident_time"`
	Station              string    `json:"station"`
	Direction            string    `json:"direction"`
	Category             string    `json:"category"`
	DelayMinutes         *int      `json:"delay_minutes"`
	Description          string    `json:"description,omitempty"`
	ReporterName         string    `json:"reporter_name"`
	TflStatusSeverity    *int      `json:"tfl_status_severity"`
	TflStatusDescription string    `json:"tfl_status_description,omitempty"`
	TflStatusReason      string    `json:"tfl_status_reason,omitempty"`
	TflStatusHistorical  bool      `json:"tfl_status_historical"`
	Upvotes              int       `json:"upvotes"`
}

func (r *Report) Public() PublicReport {
	return PublicReport{
		ID:                   r.ID,
		CreatedAt:            r.CreatedAt,
		IncidentDate:         r.IncidentDate,
		IncidentTime:         r.IncidentTime,
		Station:              r.Station,
		Direction:            r.Direction,
		Category:             r.Category,
		DelayMinutes:         r.DelayMinutes,
		Description:          r.Description,
		ReporterName:         r.ReporterName,
		TflStatusSeverity:    r.TflStatusSeverity,
		TflStatusDescription: r.TflStatusDescription,
		TflStatusReason:      r.TflStatusReason,
		TflStatusHistorical:  r.TflStatusHistorical,
		Upvotes:              r.Upvotes,
	}
}

// HasDelay reports whether a positive delay was recorded.
func (r *Report) HasDelay() bool {
	return r.DelayMinutes != nil && *r.DelayMinutes > 0
}

// PeopleAffected is the reporter plus everyone who confirmed the report.
func (r *Report) PeopleAffected() int {
	return 1 + r.Upvotes
}

// TimeLostMinutes is delay x people affected, or 0 when no delay was recorded.
func (r *Report) TimeLostMinutes() int {
	if !r.HasDelay() {
		return 0
	}
	return *r.DelayMinutes * r.PeopleAffected()
}

// IsDiscrepancy reports whether this delay happened while the official status
// claimed nothing was wrong on the rider's branch: either TfL reported good
// service outright, or the disruption it reported was on another branch of
// the line. Reports without a delay or without a captured status never count.
func (r *Report) IsDiscrepancy() bool {
	if !r.HasDelay() || r.TflStatusSeverity == nil {
		return false
	}
	if *r.TflStatusSeverity >= GoodServiceSeverity {
		return true
	}
	return ClassifyReason(r.TflStatusReason) == RelevanceOtherBranch
}

// Stations of the monitored Wimbledon branch, in line order from the
// terminus. The dashboard renders the station breakdown in this order.
var Stations = []string{
	"Wimbledon",
	"Wimbledon Park",
	"Southfields",
	"East Putney",
	"Putney Bridge",
	"Parsons Green",
	"Fulham Broadway",
	"West Brompton",
	"Earls Court",
}

var Directions = []string{
	"Eastbound (towards City)",
	"Westbound (towards Wimbledon)",
	"Both / General",
}

var Categories = []string{
	"General Delays",
	"Signal Failure",
	"Overcrowding",
	"Train Cancellation",
	"Reduced Service",
	"No Announcements / Poor Comms",
	"Safety Concern",
	"Other",
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidStation(s string) bool   { return contains(Stations, s) }
func IsValidDirection(s string) bool { return contains(Directions, s) }
func IsValidCategory(s string) bool  { return contains(Categories, s) }
