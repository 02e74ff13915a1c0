package models

import "strings"

// BranchRelevance classifies a TfL disruption reason against the monitored
// Wimbledon branch.
type BranchRelevance string

const (
	RelevanceAffected    BranchRelevance = "affected"
	RelevanceOtherBranch BranchRelevance = "other-branch"
	RelevanceUnknown     BranchRelevance = "unknown"
)

// Place names on the Wimbledon branch. Checked before the other-branch list,
// so a reason naming both sides counts as affected.
var wimbledonBranchPlaces = []string{
	"Wimbledon",
	"Southfields",
	"East Putney",
	"Putney Bridge",
	"Parsons Green",
	"Fulham Broadway",
	"West Brompton",
	"Earls Court",
	"Earl's Court",
	"Wimbledon branch",
}

// Place names on the rest of the District line. A disruption that only
// mentions these does not affect the monitored branch.
var otherBranchPlaces = []string{
	"Richmond",
	"Kew Gardens",
	"Gunnersbury",
	"Turnham Green",
	"Stamford Brook",
	"Ravenscourt Park",
	"Hammersmith",
	"Ealing Broadway",
	"Ealing Common",
	"Acton Town",
	"Chiswick Park",
	"Olympia",
	"High Street Kensington",
	"Notting Hill Gate",
	"Bayswater",
	"Paddington",
	"Edgware Road",
	"Tower Hill",
	"Aldgate East",
	"Whitechapel",
	"Stepney Green",
	"Mile End",
	"Bow Road",
	"Bromley-by-Bow",
	"West Ham",
	"Plaistow",
	"Upton Park",
	"East Ham",
	"Barking",
	"Upney",
	"Becontree",
	"Dagenham",
	"Elm Park",
	"Hornchurch",
	"Upminster",
	"Richmond branch",
	"Ealing branch",
}

// ClassifyReason is a deliberate plain substring match over two curated
// lists; the discrepancy statistic's meaning depends on exactly this rule,
// so it must not be upgraded to fuzzy matching.
func ClassifyReason(reason string) BranchRelevance {
	if reason == "" {
		return RelevanceUnknown
	}
	lower := strings.ToLower(reason)
	for _, place := range wimbledonBranchPlaces {
		if strings.Contains(lower, strings.ToLower(place)) {
			return RelevanceAffected
		}
	}
	for _, place := range otherBranchPlaces {
		if strings.Contains(lower, strings.ToLower(place)) {
			return RelevanceOtherBranch
		}
	}
	return RelevanceUnknown
}
