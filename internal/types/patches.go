package types

import "time"

// CandidatePatch overwrites the non-nil fields of a candidate.
type CandidatePatch struct {
	Name        *string
	Position    *string
	Status      *CandidateStatus
	Client      *string
	AppliedDate *time.Time
}

// Apply writes every set field of p into c. The ID is never touched.
func (p CandidatePatch) Apply(c *Candidate) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Client != nil {
		c.Client = *p.Client
	}
	if p.AppliedDate != nil {
		d := *p.AppliedDate
		c.AppliedDate = &d
	}
}

// InterviewPatch overwrites the non-nil fields of an interview.
type InterviewPatch struct {
	CandidateID *int
	Interviewer *string
	Date        *time.Time
	Status      *InterviewStatus
	Feedback    *string
}

// Apply writes every set field of p into i.
func (p InterviewPatch) Apply(i *Interview) {
	if p.CandidateID != nil {
		i.CandidateID = IntPtr(*p.CandidateID)
	}
	if p.Interviewer != nil {
		i.Interviewer = *p.Interviewer
	}
	if p.Date != nil {
		d := *p.Date
		i.Date = &d
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.Feedback != nil {
		i.Feedback = *p.Feedback
	}
}

// ClientPatch overwrites the non-nil fields of a client.
type ClientPatch struct {
	Name            *string
	Industry        *string
	ActivePositions *int
	TotalHires      *int
}

// Apply writes every set field of p into c.
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Industry != nil {
		c.Industry = *p.Industry
	}
	if p.ActivePositions != nil {
		c.ActivePositions = IntPtr(*p.ActivePositions)
	}
	if p.TotalHires != nil {
		c.TotalHires = IntPtr(*p.TotalHires)
	}
}
