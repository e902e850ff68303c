// Package types provides type definitions for the recruitment tracker's tables.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// CandidateStatus is the pipeline stage of a candidate. Stored values are not
// reconstrained on read, so a CandidateStatus may hold a value outside the
// known set.
type CandidateStatus string

// Known candidate statuses offered at entry time.
const (
	CandidateOpen       CandidateStatus = "Open"
	CandidateInProgress CandidateStatus = "In Progress"
	CandidateInterview  CandidateStatus = "Interview"
	CandidateHired      CandidateStatus = "Hired"
	CandidateRejected   CandidateStatus = "Rejected"
)

// CandidateStatuses lists the known candidate statuses in entry-form order.
var CandidateStatuses = []CandidateStatus{
	CandidateOpen,
	CandidateInProgress,
	CandidateInterview,
	CandidateHired,
	CandidateRejected,
}

// Known reports whether s is one of the statuses offered at entry time.
func (s CandidateStatus) Known() bool {
	for _, v := range CandidateStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// InterviewStatus is the state of an interview.
type InterviewStatus string

// Known interview statuses.
const (
	InterviewScheduled InterviewStatus = "Scheduled"
	InterviewCompleted InterviewStatus = "Completed"
	InterviewCancelled InterviewStatus = "Cancelled"
)

// InterviewStatuses lists the known interview statuses in entry-form order.
var InterviewStatuses = []InterviewStatus{
	InterviewScheduled,
	InterviewCompleted,
	InterviewCancelled,
}

// Known reports whether s is one of the statuses offered at entry time.
func (s InterviewStatus) Known() bool {
	for _, v := range InterviewStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Candidate is a row of the candidates table.
type Candidate struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Position    string          `json:"position"`
	Status      CandidateStatus `json:"status"`
	Client      string          `json:"client"`
	AppliedDate *time.Time      `json:"applied_date"`
}

// Interview is a row of the interviews table. CandidateID refers to a
// candidate informally; nothing enforces that the candidate exists.
type Interview struct {
	ID          int             `json:"id"`
	CandidateID *int            `json:"candidate_id"`
	Interviewer string          `json:"interviewer"`
	Date        *time.Time      `json:"date"`
	Status      InterviewStatus `json:"status"`
	Feedback    string          `json:"feedback"`
}

// Client is a row of the clients table.
type Client struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Industry        string `json:"industry"`
	ActivePositions *int   `json:"active_positions"`
	TotalHires      *int   `json:"total_hires"`
}

// RecordID returns the row identifier.
func (c Candidate) RecordID() int { return c.ID }

// SetRecordID assigns the row identifier.
func (c *Candidate) SetRecordID(id int) { c.ID = id }

// RecordID returns the row identifier.
func (i Interview) RecordID() int { return i.ID }

// SetRecordID assigns the row identifier.
func (i *Interview) SetRecordID(id int) { i.ID = id }

// RecordID returns the row identifier.
func (c Client) RecordID() int { return c.ID }

// SetRecordID assigns the row identifier.
func (c *Client) SetRecordID(id int) { c.ID = id }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }
