package store

import (
	"context"
	"time"

	"github.com/jonathan/recruit-tracker/internal/metrics"
	"github.com/jonathan/recruit-tracker/internal/types"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the in-memory copy of all three tables taken at one point.
type Snapshot struct {
	Candidates []types.Candidate `json:"candidates"`
	Interviews []types.Interview `json:"interviews"`
	Clients    []types.Client    `json:"clients"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// LoadSnapshot reads the three tables. Each file is read once.
func (s *Store) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{LoadedAt: s.now()}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.LoadCandidates(gCtx)
		snap.Candidates = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.LoadInterviews(gCtx)
		snap.Interviews = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.LoadClients(gCtx)
		snap.Clients = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Metrics loads one snapshot and computes the dashboard KPIs from it.
func (s *Store) Metrics(ctx context.Context) (metrics.KPIs, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return metrics.KPIs{}, err
	}
	return metrics.Compute(snap.Candidates, snap.Interviews, snap.LoadedAt), nil
}
