package metrics

import (
	"sort"
	"time"

	"github.com/jonathan/recruit-tracker/internal/types"
)

const (
	// FollowUpAfter is the delay between an application and its follow-up.
	FollowUpAfter = 14 * 24 * time.Hour
	// FollowUpHorizon is how far ahead upcoming follow-ups are listed.
	FollowUpHorizon = 7 * 24 * time.Hour
)

// FollowUp is a candidate whose follow-up deadline is coming up.
type FollowUp struct {
	CandidateID int       `json:"candidate_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	Client      string    `json:"client"`
	Deadline    time.Time `json:"deadline"`
}

// FollowUps lists candidates whose deadline (applied_date + 14 days) falls
// within [now, now+7 days], earliest first. Candidates without an applied
// date are skipped.
func FollowUps(candidates []types.Candidate, now time.Time) []FollowUp {
	out := []FollowUp{}
	end := now.Add(FollowUpHorizon)
	for _, c := range candidates {
		if c.AppliedDate == nil {
			continue
		}
		deadline := c.AppliedDate.Add(FollowUpAfter)
		if deadline.Before(now) || deadline.After(end) {
			continue
		}
		out = append(out, FollowUp{
			CandidateID: c.ID,
			Name:        c.Name,
			Position:    c.Position,
			Client:      c.Client,
			Deadline:    deadline,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out
}
