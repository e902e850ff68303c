// Package metrics computes the dashboard KPIs from candidate and interview rows.
package metrics

import (
	"time"

	"github.com/jonathan/recruit-tracker/internal/types"
)

// RecentWindow is how far back a candidate counts as recent.
const RecentWindow = 30 * 24 * time.Hour

// KPIs are the headline numbers of the overview page.
type KPIs struct {
	TotalCandidates   int      `json:"total_candidates"`
	RecentCandidates  int      `json:"recent_candidates"`
	OpenPositions     int      `json:"open_positions"`
	OpenPositionNames []string `json:"open_position_names"`
	ActiveInterviews  int      `json:"active_interviews"`
	SuccessRate       float64  `json:"success_rate"`
}

// Compute derives the KPIs from one snapshot of the tables. It never mutates
// its input and returns the same result for the same rows and now.
func Compute(candidates []types.Candidate, interviews []types.Interview, now time.Time) KPIs {
	k := KPIs{
		TotalCandidates:   len(candidates),
		OpenPositionNames: []string{},
	}

	cutoff := now.Add(-RecentWindow)
	seen := make(map[string]bool)
	hired := 0
	for _, c := range candidates {
		// Strictly after the cutoff: a candidate exactly 30 days old is not recent.
		if c.AppliedDate != nil && c.AppliedDate.After(cutoff) {
			k.RecentCandidates++
		}
		if c.Status == types.CandidateOpen && !seen[c.Position] {
			seen[c.Position] = true
			k.OpenPositionNames = append(k.OpenPositionNames, c.Position)
		}
		if c.Status == types.CandidateHired {
			hired++
		}
	}
	k.OpenPositions = len(k.OpenPositionNames)

	for _, i := range interviews {
		if i.Status == types.InterviewScheduled {
			k.ActiveInterviews++
		}
	}

	if k.TotalCandidates > 0 {
		k.SuccessRate = float64(hired) / float64(k.TotalCandidates) * 100
	}
	return k
}
