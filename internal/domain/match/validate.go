package match

import "fmt"

// Validate collects human-readable problems with a match record. An empty
// slice means the record is acceptable. Marking a fixture completed
// requires both final scores; the server does not enforce this, so the
// client validation layer is the only gate.
func Validate(m Match) []string {
	var errs []string

	if m.HomeTeam == "" {
		errs = append(errs, "home team is required")
	}
	if m.AwayTeam == "" {
		errs = append(errs, "away team is required")
	}
	if !ValidStatus(NormalizeStatus(m.Status)) {
		errs = append(errs, fmt.Sprintf("unknown status %q", m.Status))
	}
	if !ValidMatchType(m.MatchType) {
		errs = append(errs, fmt.Sprintf("unknown match type %q", m.MatchType))
	}
	if !ValidTeamCategory(m.TeamCategory) {
		errs = append(errs, fmt.Sprintf("unknown team category %q", m.TeamCategory))
	}

	if NormalizeStatus(m.Status) == StatusCompleted {
		if m.HomeScore == nil || m.AwayScore == nil {
			errs = append(errs, "final scores are required to complete a match")
		}
	}
	if m.HomeScore != nil && *m.HomeScore < 0 {
		errs = append(errs, "home score cannot be negative")
	}
	if m.AwayScore != nil && *m.AwayScore < 0 {
		errs = append(errs, "away score cannot be negative")
	}

	return errs
}
