package store

import "fmt"

// WarningKind classifies an integrity warning.
type WarningKind string

// Warning kinds. Duplicate and missing ids break id-based lookups; dangling
// references are informational because references are never enforced.
const (
	WarningDuplicateID       WarningKind = "duplicate_id"
	WarningMissingID         WarningKind = "missing_id"
	WarningDanglingReference WarningKind = "dangling_reference"
)

// IntegrityWarning describes one data-integrity finding. Findings are
// reported, never repaired.
type IntegrityWarning struct {
	Table   TableName   `json:"table"`
	Kind    WarningKind `json:"kind"`
	ID      int         `json:"id"`
	Count   int         `json:"count,omitempty"`
	Message string      `json:"message"`
}

// Blocking reports whether the warning affects id-based operations.
func (w IntegrityWarning) Blocking() bool {
	return w.Kind == WarningDuplicateID || w.Kind == WarningMissingID
}

// CheckIntegrity inspects a snapshot for duplicate or missing ids and for
// references to rows that do not exist.
func CheckIntegrity(snap *Snapshot) []IntegrityWarning {
	var out []IntegrityWarning
	out = append(out, checkIDs(Candidates, ids(snap.Candidates))...)
	out = append(out, checkIDs(Interviews, ids(snap.Interviews))...)
	out = append(out, checkIDs(Clients, ids(snap.Clients))...)

	candidateIDs := make(map[int]bool, len(snap.Candidates))
	for _, c := range snap.Candidates {
		candidateIDs[c.ID] = true
	}
	for _, i := range snap.Interviews {
		if i.CandidateID != nil && !candidateIDs[*i.CandidateID] {
			out = append(out, IntegrityWarning{
				Table:   Interviews,
				Kind:    WarningDanglingReference,
				ID:      i.ID,
				Message: fmt.Sprintf("interview %d refers to unknown candidate %d", i.ID, *i.CandidateID),
			})
		}
	}

	// With no clients on file there is nothing to compare names against.
	if len(snap.Clients) > 0 {
		clientNames := make(map[string]bool, len(snap.Clients))
		for _, c := range snap.Clients {
			clientNames[c.Name] = true
		}
		for _, c := range snap.Candidates {
			if c.Client != "" && !clientNames[c.Client] {
				out = append(out, IntegrityWarning{
					Table:   Candidates,
					Kind:    WarningDanglingReference,
					ID:      c.ID,
					Message: fmt.Sprintf("candidate %d refers to unknown client %q", c.ID, c.Client),
				})
			}
		}
	}
	return out
}

type identified interface {
	RecordID() int
}

func ids[T identified](rows []T) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.RecordID()
	}
	return out
}

// checkIDs reports each duplicated id once, in first-seen order, and every
// row without a positive id.
func checkIDs(table TableName, idList []int) []IntegrityWarning {
	var out []IntegrityWarning
	counts := make(map[int]int, len(idList))
	var order []int
	for _, id := range idList {
		if id <= 0 {
			out = append(out, IntegrityWarning{
				Table:   table,
				Kind:    WarningMissingID,
				ID:      id,
				Message: fmt.Sprintf("%s row has no valid id", table),
			})
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		if n := counts[id]; n > 1 {
			out = append(out, IntegrityWarning{
				Table:   table,
				Kind:    WarningDuplicateID,
				ID:      id,
				Count:   n,
				Message: fmt.Sprintf("%s id %d appears %d times", table, id, n),
			})
		}
	}
	return out
}
