// Package dashboard assembles the per-request view of the recruitment data:
// one snapshot of the tables plus the operator it was loaded for.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/recruit-tracker/internal/charts"
	"github.com/jonathan/recruit-tracker/internal/metrics"
	"github.com/jonathan/recruit-tracker/internal/query"
	"github.com/jonathan/recruit-tracker/internal/store"
)

// SnapshotLoader loads all three tables at once. *store.Store implements it.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*store.Snapshot, error)
}

// Session is the state of one request. Every figure it reports comes from
// the same snapshot. Sessions are not shared between requests.
type Session struct {
	ID       uuid.UUID
	Identity Identity
	Snapshot *store.Snapshot
	Now      time.Time
}

// NewSession loads a fresh snapshot for identity. A zero now falls back to
// the snapshot's load time.
func NewSession(ctx context.Context, loader SnapshotLoader, identity Identity, now time.Time) (*Session, error) {
	snap, err := loader.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if now.IsZero() {
		now = snap.LoadedAt
	}
	return &Session{
		ID:       uuid.New(),
		Identity: identity,
		Snapshot: snap,
		Now:      now,
	}, nil
}

// Metrics computes the KPIs over the whole snapshot.
func (s *Session) Metrics() metrics.KPIs {
	return metrics.Compute(s.Snapshot.Candidates, s.Snapshot.Interviews, s.Now)
}

// Overview is everything the overview page shows.
type Overview struct {
	KPIs          metrics.KPIs             `json:"kpis"`
	Notifications []string                 `json:"notifications"`
	Filter        query.CandidateFilter    `json:"filter"`
	Options       query.CandidateOptionSet `json:"options"`

	// Chart series are nil when there is nothing to plot.
	StatusByClient []charts.StatusCount    `json:"status_by_client"`
	Positions      []charts.PositionCount  `json:"positions"`
	Timeline       []charts.TimelineSeries `json:"timeline"`
}

// Overview computes KPIs on the whole snapshot and the candidate charts on
// the rows that pass filter. The interview timeline is never filtered.
func (s *Session) Overview(filter query.CandidateFilter) Overview {
	kpis := s.Metrics()
	filtered := filter.Candidates(s.Snapshot.Candidates)

	o := Overview{
		KPIs:          kpis,
		Notifications: Notifications(kpis),
		Filter:        filter,
		Options:       query.CandidateOptions(s.Snapshot.Candidates),
	}
	if series, ok := charts.StatusByClient(filtered); ok {
		o.StatusByClient = series
	}
	if series, ok := charts.PositionDistribution(filtered); ok {
		o.Positions = series
	}
	if series, ok := charts.InterviewTimeline(s.Snapshot.Interviews); ok {
		o.Timeline = series
	}
	return o
}

// Notifications renders the banner lines for the overview page.
func Notifications(kpis metrics.KPIs) []string {
	out := []string{}
	if kpis.OpenPositions > 0 {
		out = append(out, fmt.Sprintf("Currently %d open positions: %s",
			kpis.OpenPositions, strings.Join(kpis.OpenPositionNames, ", ")))
	}
	return out
}

// Funnel prepares the recruitment funnel over the filtered candidates.
func (s *Session) Funnel(filter query.CandidateFilter) ([]charts.FunnelStage, bool) {
	return charts.Funnel(filter.Candidates(s.Snapshot.Candidates))
}

// Chart prepares a named chart. Candidate charts honour filter; the
// interview timeline ignores it. known is false for an unknown name.
func (s *Session) Chart(name string, filter query.CandidateFilter) (series any, ok bool, known bool) {
	return charts.Prepare(name, filter.Candidates(s.Snapshot.Candidates), s.Snapshot.Interviews)
}

// FollowUps lists the upcoming follow-up deadlines.
func (s *Session) FollowUps() []metrics.FollowUp {
	return metrics.FollowUps(s.Snapshot.Candidates, s.Now)
}

// Integrity reports duplicate ids, missing ids and dangling references.
func (s *Session) Integrity() []store.IntegrityWarning {
	warnings := store.CheckIntegrity(s.Snapshot)
	if warnings == nil {
		return []store.IntegrityWarning{}
	}
	return warnings
}
