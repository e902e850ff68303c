// Package query filters table rows the way the dashboard's list views do.
package query

import (
	"sort"
	"strings"

	"github.com/jonathan/recruit-tracker/internal/types"
)

// All is the select-box value that disables a filter.
const All = "All"

func active(v string) bool {
	return v != "" && v != All
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// CandidateFilter narrows the candidates list. Empty or "All" fields match
// everything; Search is a case-insensitive match on name or position.
type CandidateFilter struct {
	Client   string `json:"client,omitempty"`
	Status   string `json:"status,omitempty"`
	Position string `json:"position,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Match reports whether c passes every active filter.
func (f CandidateFilter) Match(c types.Candidate) bool {
	if active(f.Client) && c.Client != f.Client {
		return false
	}
	if active(f.Status) && string(c.Status) != f.Status {
		return false
	}
	if active(f.Position) && c.Position != f.Position {
		return false
	}
	if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Position, f.Search) {
		return false
	}
	return true
}

// Candidates returns the matching rows in their original order.
func (f CandidateFilter) Candidates(rows []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, 0, len(rows))
	for _, c := range rows {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// InterviewFilter narrows the interviews list.
type InterviewFilter struct {
	Status      string `json:"status,omitempty"`
	Interviewer string `json:"interviewer,omitempty"`
}

// Match reports whether i passes every active filter.
func (f InterviewFilter) Match(i types.Interview) bool {
	if active(f.Status) && string(i.Status) != f.Status {
		return false
	}
	if f.Interviewer != "" && !containsFold(i.Interviewer, f.Interviewer) {
		return false
	}
	return true
}

// Interviews returns the matching rows in their original order.
func (f InterviewFilter) Interviews(rows []types.Interview) []types.Interview {
	out := make([]types.Interview, 0, len(rows))
	for _, i := range rows {
		if f.Match(i) {
			out = append(out, i)
		}
	}
	return out
}

// ClientFilter narrows the clients list.
type ClientFilter struct {
	Name               string `json:"name,omitempty"`
	MinActivePositions int    `json:"min_active_positions,omitempty"`
}

// Match reports whether c passes every active filter. A client without an
// active_positions value only passes a zero minimum.
func (f ClientFilter) Match(c types.Client) bool {
	if f.Name != "" && !containsFold(c.Name, f.Name) {
		return false
	}
	if f.MinActivePositions > 0 && (c.ActivePositions == nil || *c.ActivePositions < f.MinActivePositions) {
		return false
	}
	return true
}

// Clients returns the matching rows in their original order.
func (f ClientFilter) Clients(rows []types.Client) []types.Client {
	out := make([]types.Client, 0, len(rows))
	for _, c := range rows {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// CandidateOptionSet holds the choices offered by the candidate filters.
type CandidateOptionSet struct {
	Clients   []string `json:"clients"`
	Statuses  []string `json:"statuses"`
	Positions []string `json:"positions"`
}

// CandidateOptions collects the sorted distinct non-blank values of the
// filterable candidate columns.
func CandidateOptions(rows []types.Candidate) CandidateOptionSet {
	clients := make([]string, 0, len(rows))
	statuses := make([]string, 0, len(rows))
	positions := make([]string, 0, len(rows))
	for _, c := range rows {
		clients = append(clients, c.Client)
		statuses = append(statuses, string(c.Status))
		positions = append(positions, c.Position)
	}
	return CandidateOptionSet{
		Clients:   distinct(clients),
		Statuses:  distinct(statuses),
		Positions: distinct(positions),
	}
}

// InterviewStatuses collects the sorted distinct statuses present in rows.
func InterviewStatuses(rows []types.Interview) []string {
	statuses := make([]string, 0, len(rows))
	for _, i := range rows {
		statuses = append(statuses, string(i.Status))
	}
	return distinct(statuses)
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
