package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jonathan/recruit-tracker/internal/schemas"
	"github.com/jonathan/recruit-tracker/internal/types"
)

// MaxUploadBytes bounds an uploaded table file.
const MaxUploadBytes = 16 << 20

// ImportResult summarises a whole-table replacement.
type ImportResult struct {
	Table    TableName          `json:"table"`
	Rows     int                `json:"rows"`
	Warnings []IntegrityWarning `json:"warnings,omitempty"`
}

// Replace overwrites a table with the contents of an uploaded file. The
// decoder is picked from the filename extension (.xlsx, .csv, .json). A file
// that cannot be decoded is rejected with MalformedInputError before anything
// is written, so the existing table stays intact. Duplicate ids in the upload
// are kept and reported as warnings.
func (s *Store) Replace(ctx context.Context, table TableName, filename string, r io.Reader) (*ImportResult, error) {
	format, err := ParseFormat(filepath.Ext(filename))
	if err != nil {
		return nil, &MalformedInputError{Source: filename, Message: "unsupported file type", Cause: err}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, &MalformedInputError{Source: filename, Message: "file too large"}
	}

	grid, err := decodeUpload(table, format, filename, data)
	if err != nil {
		return nil, err
	}

	var result *ImportResult
	switch table {
	case Candidates:
		result, err = replaceTable(ctx, s, candidateSpec, filename, grid)
	case Interviews:
		result, err = replaceTable(ctx, s, interviewSpec, filename, grid)
	case Clients:
		result, err = replaceTable(ctx, s, clientSpec, filename, grid)
	default:
		return nil, &UnknownTableError{Name: string(table)}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("table replaced from upload",
		"table", table, "file", filename, "rows", result.Rows, "warnings", len(result.Warnings))
	return result, nil
}

func replaceTable[T identified](ctx context.Context, s *Store, spec tableSpec[T], filename string, grid [][]string) (*ImportResult, error) {
	rows, degraded, err := decodeGrid(spec, filename, grid)
	if err != nil {
		return nil, err
	}
	s.logDegraded(spec.name, filename, degraded)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := save(ctx, s, spec, rows); err != nil {
		return nil, err
	}

	return &ImportResult{
		Table:    spec.name,
		Rows:     len(rows),
		Warnings: checkIDs(spec.name, ids(rows)),
	}, nil
}

func decodeUpload(table TableName, format Format, filename string, data []byte) ([][]string, error) {
	if format == FormatJSON {
		if err := schemas.ValidateTableJSON(string(table), string(data)); err != nil {
			return nil, &MalformedInputError{Source: filename, Message: "JSON does not match table schema", Cause: err}
		}
		grid, err := jsonToGrid(table, data)
		if err != nil {
			return nil, &MalformedInputError{Source: filename, Message: "unreadable JSON", Cause: err}
		}
		return grid, nil
	}

	codec, err := codecFor(format)
	if err != nil {
		return nil, &MalformedInputError{Source: filename, Message: "unsupported file type", Cause: err}
	}
	grid, err := codec.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedInputError{Source: filename, Message: "unreadable " + string(format) + " file", Cause: err}
	}
	return grid, nil
}

// jsonToGrid flattens an array of objects into a header plus text cells so
// JSON uploads go through the same column checks as spreadsheets. Keys are
// taken from the table's columns followed by any extra keys in sorted order.
func jsonToGrid(table TableName, data []byte) ([][]string, error) {
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, err
	}

	header := append([]string(nil), table.Columns()...)
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}
	var extra []string
	for _, obj := range objects {
		for k := range obj {
			if !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	header = append(header, extra...)

	grid := [][]string{header}
	for _, obj := range objects {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = jsonCell(obj[col])
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func jsonCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// Export writes a table in the requested format.
func (s *Store) Export(ctx context.Context, table TableName, format Format, w io.Writer) error {
	switch table {
	case Candidates:
		return exportTable(ctx, s, candidateSpec, format, w)
	case Interviews:
		return exportTable(ctx, s, interviewSpec, format, w)
	case Clients:
		return exportTable(ctx, s, clientSpec, format, w)
	}
	return &UnknownTableError{Name: string(table)}
}

func exportTable[T any](ctx context.Context, s *Store, spec tableSpec[T], format Format, w io.Writer) error {
	rows, err := load(ctx, s, spec)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	codec, err := codecFor(format)
	if err != nil {
		return err
	}
	return codec.encode(w, encodeGrid(spec, rows))
}

// Table loads a table by name. The result is a []types.Candidate,
// []types.Interview or []types.Client.
func (s *Store) Table(ctx context.Context, table TableName) (any, error) {
	switch table {
	case Candidates:
		return s.LoadCandidates(ctx)
	case Interviews:
		return s.LoadInterviews(ctx)
	case Clients:
		return s.LoadClients(ctx)
	}
	return nil, &UnknownTableError{Name: string(table)}
}

var (
	_ identified = types.Candidate{}
	_ identified = types.Interview{}
	_ identified = types.Client{}
)
