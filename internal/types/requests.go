package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every request type; validator.Validate is safe for
// concurrent use once the custom tags are registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "candidate_status", func(fl validator.FieldLevel) bool {
		return CandidateStatus(fl.Field().String()).Known()
	})
	mustRegister(v, "interview_status", func(fl validator.FieldLevel) bool {
		return InterviewStatus(fl.Field().String()).Known()
	})
	mustRegister(v, "recruit_date", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

// CreateCandidateRequest is the form input for a new candidate.
type CreateCandidateRequest struct {
	Name        string          `json:"name" validate:"required"`
	Position    string          `json:"position" validate:"required"`
	Status      CandidateStatus `json:"status" validate:"required,candidate_status"`
	Client      string          `json:"client"`
	AppliedDate string          `json:"applied_date" validate:"omitempty,recruit_date"`
}

// Sanitize strips markup from the text fields.
func (r *CreateCandidateRequest) Sanitize() {
	r.Name = SanitizeText(r.Name)
	r.Position = SanitizeText(r.Position)
	r.Client = SanitizeText(r.Client)
}

// Validate validates the CreateCandidateRequest using the validator.
func (r *CreateCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Candidate converts a validated request into a row without an ID.
func (r *CreateCandidateRequest) Candidate() Candidate {
	return Candidate{
		Name:        r.Name,
		Position:    r.Position,
		Status:      r.Status,
		Client:      r.Client,
		AppliedDate: parseOptionalDate(r.AppliedDate),
	}
}

// UpdateCandidateRequest carries the fields to overwrite; nil fields are kept.
type UpdateCandidateRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Position    *string          `json:"position,omitempty" validate:"omitempty,min=1"`
	Status      *CandidateStatus `json:"status,omitempty" validate:"omitempty,candidate_status"`
	Client      *string          `json:"client,omitempty"`
	AppliedDate *string          `json:"applied_date,omitempty" validate:"omitempty,recruit_date"`
}

// Sanitize strips markup from the text fields.
func (r *UpdateCandidateRequest) Sanitize() {
	r.Name = sanitizePtr(r.Name)
	r.Position = sanitizePtr(r.Position)
	r.Client = sanitizePtr(r.Client)
}

// Validate validates the UpdateCandidateRequest using the validator.
func (r *UpdateCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Patch converts a validated request into a CandidatePatch.
func (r *UpdateCandidateRequest) Patch() CandidatePatch {
	p := CandidatePatch{
		Name:     r.Name,
		Position: r.Position,
		Status:   r.Status,
		Client:   r.Client,
	}
	if r.AppliedDate != nil {
		p.AppliedDate = parseOptionalDate(*r.AppliedDate)
	}
	return p
}

// CreateInterviewRequest is the form input for scheduling an interview.
type CreateInterviewRequest struct {
	CandidateID int             `json:"candidate_id" validate:"required,min=1"`
	Interviewer string          `json:"interviewer" validate:"required"`
	Date        string          `json:"date" validate:"omitempty,recruit_date"`
	Status      InterviewStatus `json:"status" validate:"required,interview_status"`
	Feedback    string          `json:"feedback"`
}

// Sanitize strips markup from the text fields.
func (r *CreateInterviewRequest) Sanitize() {
	r.Interviewer = SanitizeText(r.Interviewer)
	r.Feedback = SanitizeText(r.Feedback)
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	return validate.Struct(r)
}

// Interview converts a validated request into a row without an ID.
func (r *CreateInterviewRequest) Interview() Interview {
	return Interview{
		CandidateID: IntPtr(r.CandidateID),
		Interviewer: r.Interviewer,
		Date:        parseOptionalDate(r.Date),
		Status:      r.Status,
		Feedback:    r.Feedback,
	}
}

// UpdateInterviewRequest carries the fields to overwrite; nil fields are kept.
type UpdateInterviewRequest struct {
	CandidateID *int             `json:"candidate_id,omitempty" validate:"omitempty,min=1"`
	Interviewer *string          `json:"interviewer,omitempty" validate:"omitempty,min=1"`
	Date        *string          `json:"date,omitempty" validate:"omitempty,recruit_date"`
	Status      *InterviewStatus `json:"status,omitempty" validate:"omitempty,interview_status"`
	Feedback    *string          `json:"feedback,omitempty"`
}

// Sanitize strips markup from the text fields.
func (r *UpdateInterviewRequest) Sanitize() {
	r.Interviewer = sanitizePtr(r.Interviewer)
	r.Feedback = sanitizePtr(r.Feedback)
}

// Validate validates the UpdateInterviewRequest using the validator.
func (r *UpdateInterviewRequest) Validate() error {
	return validate.Struct(r)
}

// Patch converts a validated request into an InterviewPatch.
func (r *UpdateInterviewRequest) Patch() InterviewPatch {
	p := InterviewPatch{
		CandidateID: r.CandidateID,
		Interviewer: r.Interviewer,
		Status:      r.Status,
		Feedback:    r.Feedback,
	}
	if r.Date != nil {
		p.Date = parseOptionalDate(*r.Date)
	}
	return p
}

// CreateClientRequest is the form input for a new client.
type CreateClientRequest struct {
	Name            string `json:"name" validate:"required"`
	Industry        string `json:"industry"`
	ActivePositions int    `json:"active_positions" validate:"min=0"`
	TotalHires      int    `json:"total_hires" validate:"min=0"`
}

// Sanitize strips markup from the text fields.
func (r *CreateClientRequest) Sanitize() {
	r.Name = SanitizeText(r.Name)
	r.Industry = SanitizeText(r.Industry)
}

// Validate validates the CreateClientRequest using the validator.
func (r *CreateClientRequest) Validate() error {
	return validate.Struct(r)
}

// Client converts a validated request into a row without an ID.
func (r *CreateClientRequest) Client() Client {
	return Client{
		Name:            r.Name,
		Industry:        r.Industry,
		ActivePositions: IntPtr(r.ActivePositions),
		TotalHires:      IntPtr(r.TotalHires),
	}
}

// UpdateClientRequest carries the fields to overwrite; nil fields are kept.
type UpdateClientRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Industry        *string `json:"industry,omitempty"`
	ActivePositions *int    `json:"active_positions,omitempty" validate:"omitempty,min=0"`
	TotalHires      *int    `json:"total_hires,omitempty" validate:"omitempty,min=0"`
}

// Sanitize strips markup from the text fields.
func (r *UpdateClientRequest) Sanitize() {
	r.Name = sanitizePtr(r.Name)
	r.Industry = sanitizePtr(r.Industry)
}

// Validate validates the UpdateClientRequest using the validator.
func (r *UpdateClientRequest) Validate() error {
	return validate.Struct(r)
}

// Patch converts a validated request into a ClientPatch.
func (r *UpdateClientRequest) Patch() ClientPatch {
	return ClientPatch{
		Name:            r.Name,
		Industry:        r.Industry,
		ActivePositions: r.ActivePositions,
		TotalHires:      r.TotalHires,
	}
}

func parseOptionalDate(s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}
