package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonathan/recruit-tracker/internal/types"
)

// Store owns the data directory holding one spreadsheet file per table.
//
// Every operation reads the file fresh; there is no cache. Mutations inside
// one process are serialised, but two processes writing the same directory
// still race and the later full-file write wins.
type Store struct {
	dir    string
	format Format
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithFormat selects the backing file format (xlsx or csv).
func WithFormat(f Format) Option {
	return func(s *Store) { s.format = f }
}

// WithLogger sets the logger used for saves, uploads and degraded cells.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for metrics.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open prepares dir as a data directory. It creates the directory and an
// empty candidates file when they do not exist yet.
func Open(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:    dir,
		format: FormatXLSX,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := codecFor(s.format); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.Path(Candidates)); errors.Is(err, fs.ErrNotExist) {
		if err := s.SaveCandidates(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to create candidates file: %w", err)
		}
	}

	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Format returns the backing file format.
func (s *Store) Format() Format { return s.format }

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time { return s.now() }

// Path returns the backing file path for a table.
func (s *Store) Path(t TableName) string {
	return filepath.Join(s.dir, string(t)+"."+string(s.format))
}

// -----------------------------------------------------------------------------
// Generic table operations
// -----------------------------------------------------------------------------

// record is satisfied by pointers to the row types.
type record[T any] interface {
	*T
	RecordID() int
	SetRecordID(int)
}

func load[T any](ctx context.Context, s *Store, spec tableSpec[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(spec.name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	codec, err := codecFor(s.format)
	if err != nil {
		return nil, err
	}
	grid, err := codec.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedInputError{Source: path, Message: "unreadable table file", Cause: err}
	}

	rows, degraded, err := decodeGrid(spec, path, grid)
	if err != nil {
		return nil, err
	}
	s.logDegraded(spec.name, path, degraded)
	return rows, nil
}

func save[T any](ctx context.Context, s *Store, spec tableSpec[T], rows []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	codec, err := codecFor(s.format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.encode(&buf, encodeGrid(spec, rows)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", spec.name, err)
	}

	path := s.Path(spec.name)
	if err := writeFileReplace(path, buf.Bytes()); err != nil {
		return err
	}
	s.logger.Debug("table saved", "table", spec.name, "rows", len(rows), "path", path)
	return nil
}

func add[T any, P record[T]](ctx context.Context, s *Store, spec tableSpec[T], row T) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := load(ctx, s, spec)
	if err != nil {
		return 0, err
	}

	id := nextID[T, P](rows)
	P(&row).SetRecordID(id)
	rows = append(rows, row)

	if err := save(ctx, s, spec, rows); err != nil {
		return 0, err
	}
	return id, nil
}

func update[T any, P record[T]](ctx context.Context, s *Store, spec tableSpec[T], id int, apply func(*T)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := load(ctx, s, spec)
	if err != nil {
		return false, err
	}

	for i := range rows {
		if P(&rows[i]).RecordID() != id {
			continue
		}
		apply(&rows[i])
		// A patch never moves a row to another id.
		P(&rows[i]).SetRecordID(id)
		if err := save(ctx, s, spec, rows); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func remove[T any, P record[T]](ctx context.Context, s *Store, spec tableSpec[T], id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := load(ctx, s, spec)
	if err != nil {
		return 0, err
	}

	kept := rows[:0:0]
	for _, row := range rows {
		if P(&row).RecordID() != id {
			kept = append(kept, row)
		}
	}

	// Saved even when nothing matched.
	if err := save(ctx, s, spec, kept); err != nil {
		return 0, err
	}
	return len(rows) - len(kept), nil
}

// nextID returns max(existing)+1, or 1 for an empty table.
func nextID[T any, P record[T]](rows []T) int {
	maxID := 0
	for i := range rows {
		if id := P(&rows[i]).RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// writeFileReplace writes data to a sibling temp file and renames it over
// path so readers never observe a half-written table.
func writeFileReplace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) logDegraded(table TableName, source string, cells []degradedCell) {
	for _, c := range cells {
		s.logger.Warn("unparsable cell treated as empty",
			"table", table, "source", source, "row", c.Row, "column", c.Column, "value", c.Value)
	}
}

// -----------------------------------------------------------------------------
// Candidates
// -----------------------------------------------------------------------------

// LoadCandidates returns every candidate row, or an empty slice when the
// file does not exist.
func (s *Store) LoadCandidates(ctx context.Context) ([]types.Candidate, error) {
	return load(ctx, s, candidateSpec)
}

// SaveCandidates replaces the candidates file with rows.
func (s *Store) SaveCandidates(ctx context.Context, rows []types.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s, candidateSpec, rows)
}

// AddCandidate appends c with a fresh id and returns that id.
func (s *Store) AddCandidate(ctx context.Context, c types.Candidate) (int, error) {
	return add(ctx, s, candidateSpec, c)
}

// UpdateCandidate patches the first candidate with the given id. It reports
// false when no row has that id.
func (s *Store) UpdateCandidate(ctx context.Context, id int, patch types.CandidatePatch) (bool, error) {
	return update(ctx, s, candidateSpec, id, patch.Apply)
}

// DeleteCandidate removes every candidate with the given id and returns how
// many rows were removed.
func (s *Store) DeleteCandidate(ctx context.Context, id int) (int, error) {
	return remove(ctx, s, candidateSpec, id)
}

// -----------------------------------------------------------------------------
// Interviews
// -----------------------------------------------------------------------------

// LoadInterviews returns every interview row.
func (s *Store) LoadInterviews(ctx context.Context) ([]types.Interview, error) {
	return load(ctx, s, interviewSpec)
}

// SaveInterviews replaces the interviews file with rows.
func (s *Store) SaveInterviews(ctx context.Context, rows []types.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s, interviewSpec, rows)
}

// AddInterview appends i with a fresh id and returns that id.
func (s *Store) AddInterview(ctx context.Context, i types.Interview) (int, error) {
	return add(ctx, s, interviewSpec, i)
}

// UpdateInterview patches the first interview with the given id.
func (s *Store) UpdateInterview(ctx context.Context, id int, patch types.InterviewPatch) (bool, error) {
	return update(ctx, s, interviewSpec, id, patch.Apply)
}

// DeleteInterview removes every interview with the given id.
func (s *Store) DeleteInterview(ctx context.Context, id int) (int, error) {
	return remove(ctx, s, interviewSpec, id)
}

// -----------------------------------------------------------------------------
// Clients
// -----------------------------------------------------------------------------

// LoadClients returns every client row.
func (s *Store) LoadClients(ctx context.Context) ([]types.Client, error) {
	return load(ctx, s, clientSpec)
}

// SaveClients replaces the clients file with rows.
func (s *Store) SaveClients(ctx context.Context, rows []types.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s, clientSpec, rows)
}

// AddClient appends c with a fresh id and returns that id.
func (s *Store) AddClient(ctx context.Context, c types.Client) (int, error) {
	return add(ctx, s, clientSpec, c)
}

// UpdateClient patches the first client with the given id.
func (s *Store) UpdateClient(ctx context.Context, id int, patch types.ClientPatch) (bool, error) {
	return update(ctx, s, clientSpec, id, patch.Apply)
}

// DeleteClient removes every client with the given id.
func (s *Store) DeleteClient(ctx context.Context, id int) (int, error) {
	return remove(ctx, s, clientSpec, id)
}

// Delete removes rows with the given id from the named table.
func (s *Store) Delete(ctx context.Context, table TableName, id int) (int, error) {
	switch table {
	case Candidates:
		return s.DeleteCandidate(ctx, id)
	case Interviews:
		return s.DeleteInterview(ctx, id)
	case Clients:
		return s.DeleteClient(ctx, id)
	}
	return 0, &UnknownTableError{Name: string(table)}
}
