package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/recruit-tracker/internal/types"
	"github.com/xuri/excelize/v2"
)

// tableSpec describes how one table maps to spreadsheet columns.
type tableSpec[T any] struct {
	name     TableName
	columns  []string
	optional map[string]bool
	decode   func(r *rowReader) T
	encode   func(T) []any
}

var candidateSpec = tableSpec[types.Candidate]{
	name:    Candidates,
	columns: []string{"id", "name", "position", "status", "client", "applied_date"},
	decode: func(r *rowReader) types.Candidate {
		return types.Candidate{
			ID:          r.id(),
			Name:        r.text("name"),
			Position:    r.text("position"),
			Status:      types.CandidateStatus(r.raw("status")),
			Client:      r.text("client"),
			AppliedDate: r.date("applied_date"),
		}
	},
	encode: func(c types.Candidate) []any {
		return []any{c.ID, c.Name, c.Position, string(c.Status), c.Client, dateCell(c.AppliedDate)}
	},
}

var interviewSpec = tableSpec[types.Interview]{
	name:     Interviews,
	columns:  []string{"id", "candidate_id", "interviewer", "date", "status", "feedback"},
	optional: map[string]bool{"feedback": true},
	decode: func(r *rowReader) types.Interview {
		return types.Interview{
			ID:          r.id(),
			CandidateID: r.integer("candidate_id"),
			Interviewer: r.text("interviewer"),
			Date:        r.date("date"),
			Status:      types.InterviewStatus(r.raw("status")),
			Feedback:    r.text("feedback"),
		}
	},
	encode: func(i types.Interview) []any {
		return []any{i.ID, intCell(i.CandidateID), i.Interviewer, dateCell(i.Date), string(i.Status), i.Feedback}
	},
}

var clientSpec = tableSpec[types.Client]{
	name:    Clients,
	columns: []string{"id", "name", "industry", "active_positions", "total_hires"},
	decode: func(r *rowReader) types.Client {
		return types.Client{
			ID:              r.id(),
			Name:            r.text("name"),
			Industry:        r.text("industry"),
			ActivePositions: r.integer("active_positions"),
			TotalHires:      r.integer("total_hires"),
		}
	},
	encode: func(c types.Client) []any {
		return []any{c.ID, c.Name, c.Industry, intCell(c.ActivePositions), intCell(c.TotalHires)}
	},
}

// degradedCell records a value that could not be parsed and was dropped.
type degradedCell struct {
	Row    int
	Column string
	Value  string
}

// rowReader exposes one data row by column name and collects the cells that
// degrade to null.
type rowReader struct {
	index    map[string]int
	cells    []string
	line     int
	degraded []degradedCell
}

// raw returns the trimmed cell, for ids, numbers, dates and statuses.
func (r *rowReader) raw(col string) string {
	return strings.TrimSpace(r.text(col))
}

// text returns the cell exactly as stored.
func (r *rowReader) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r *rowReader) degrade(col, value string) {
	r.degraded = append(r.degraded, degradedCell{Row: r.line, Column: col, Value: value})
}

// id returns 0 for a blank or unparsable identifier.
func (r *rowReader) id() int {
	v := r.integer("id")
	if v == nil {
		return 0
	}
	return *v
}

func (r *rowReader) integer(col string) *int {
	s := r.raw(col)
	if s == "" {
		return nil
	}
	n, ok := parseInt(s)
	if !ok {
		r.degrade(col, s)
		return nil
	}
	return &n
}

func (r *rowReader) date(col string) *time.Time {
	s := r.raw(col)
	if s == "" {
		return nil
	}
	if t, ok := types.ParseDate(s); ok {
		return &t
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return &t
		}
	}
	r.degrade(col, s)
	return nil
}

// parseInt accepts "3" and the float rendering "3.0" that spreadsheet tools
// produce for integer columns containing blanks.
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func dateCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return types.FormatDate(*t)
}

func intCell(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// decodeGrid turns raw spreadsheet rows into records. The first non-empty
// row is the header; column order is free but every required column must be
// present. Unknown columns are ignored.
func decodeGrid[T any](spec tableSpec[T], source string, grid [][]string) ([]T, []degradedCell, error) {
	rows := make([]T, 0, len(grid))
	start := 0
	for start < len(grid) && blankRow(grid[start]) {
		start++
	}
	if start == len(grid) {
		return nil, nil, &MalformedInputError{Source: source, Message: "missing header row"}
	}

	index := make(map[string]int, len(grid[start]))
	for i, h := range grid[start] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}
	var missing []string
	for _, col := range spec.columns {
		if _, ok := index[col]; !ok && !spec.optional[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MalformedInputError{
			Source:  source,
			Message: fmt.Sprintf("%s table is missing columns: %s", spec.name, strings.Join(missing, ", ")),
		}
	}

	var degraded []degradedCell
	for i := start + 1; i < len(grid); i++ {
		if blankRow(grid[i]) {
			continue
		}
		r := &rowReader{index: index, cells: grid[i], line: i + 1}
		rows = append(rows, spec.decode(r))
		degraded = append(degraded, r.degraded...)
	}
	return rows, degraded, nil
}

// encodeGrid renders records with the header as the first row.
func encodeGrid[T any](spec tableSpec[T], rows []T) [][]any {
	out := make([][]any, 0, len(rows)+1)
	header := make([]any, len(spec.columns))
	for i, c := range spec.columns {
		header[i] = c
	}
	out = append(out, header)
	for _, row := range rows {
		out = append(out, spec.encode(row))
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
