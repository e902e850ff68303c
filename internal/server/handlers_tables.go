package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/recruit-tracker/internal/query"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/jonathan/recruit-tracker/internal/types"
)

// ListResponse is a filtered page of one table.
type ListResponse[T any] struct {
	Rows  []T `json:"rows"`
	Count int `json:"count"`
	Total int `json:"total"`
}

func newListResponse[T any](filtered []T, total int) ListResponse[T] {
	return ListResponse[T]{Rows: filtered, Count: len(filtered), Total: total}
}

// writeRequest is implemented by the create and update request types.
type writeRequest interface {
	Sanitize()
	Validate() error
}

// decodeRequest reads a JSON body into req, strips markup and validates it.
func decodeRequest(r *http.Request, req writeRequest) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

func rowID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: "id", Message: fmt.Sprintf("not a positive integer: %q", raw)}
	}
	return id, nil
}

func (s *Server) created(w http.ResponseWriter, table store.TableName, id int) {
	s.jsonResponse(w, http.StatusCreated, map[string]any{"table": table, "id": id})
}

func (s *Server) updated(w http.ResponseWriter, r *http.Request, table store.TableName, id int, found bool, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		s.fail(w, r, &ErrNotFound{Table: table, ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"table": table, "id": id, "updated": true})
}

// Candidates

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadCandidates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newListResponse(candidateFilter(r).Candidates(rows), len(rows)))
}

func (s *Server) handleCandidateOptions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadCandidates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, query.CandidateOptions(rows))
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.store.AddCandidate(r.Context(), req.Candidate())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, store.Candidates, id)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := rowID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateCandidateRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	found, err := s.store.UpdateCandidate(r.Context(), id, req.Patch())
	s.updated(w, r, store.Candidates, id, found, err)
}

// Interviews

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadInterviews(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter := query.InterviewFilter{
		Status:      r.URL.Query().Get("status"),
		Interviewer: r.URL.Query().Get("interviewer"),
	}
	s.jsonResponse(w, http.StatusOK, newListResponse(filter.Interviews(rows), len(rows)))
}

func (s *Server) handleInterviewOptions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadInterviews(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"statuses": query.InterviewStatuses(rows)})
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req types.CreateInterviewRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.store.AddInterview(r.Context(), req.Interview())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, store.Interviews, id)
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	id, err := rowID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateInterviewRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	found, err := s.store.UpdateInterview(r.Context(), id, req.Patch())
	s.updated(w, r, store.Interviews, id, found, err)
}

// Clients

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.LoadClients(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter := query.ClientFilter{Name: r.URL.Query().Get("name")}
	if raw := r.URL.Query().Get("min_active_positions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, r, &ErrValidation{Field: "min_active_positions", Message: "must be a non-negative integer"})
			return
		}
		filter.MinActivePositions = n
	}
	s.jsonResponse(w, http.StatusOK, newListResponse(filter.Clients(rows), len(rows)))
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req types.CreateClientRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.store.AddClient(r.Context(), req.Client())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, store.Clients, id)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := rowID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateClientRequest
	if err := decodeRequest(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	found, err := s.store.UpdateClient(r.Context(), id, req.Patch())
	s.updated(w, r, store.Clients, id, found, err)
}

// Shared table operations

// handleDelete removes every row with the id. Deleting an id that is not
// present succeeds with removed=0.
func (s *Server) handleDelete(table store.TableName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		removed, err := s.store.Delete(r.Context(), table, id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"table": table, "id": id, "removed": removed})
	}
}

// maxUploadBody leaves room for multipart headers around a full-size file.
const maxUploadBody = store.MaxUploadBytes + 64<<10

// handleUpload replaces a table with the file in the multipart "file" field.
func (s *Server) handleUpload(table store.TableName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxUploadBody {
			s.fail(w, r, &ErrTooLarge{Limit: maxUploadBody})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.fail(w, r, &ErrTooLarge{Limit: maxUploadBody})
				return
			}
			s.fail(w, r, &ErrValidation{Field: "file", Message: "multipart field \"file\" is required"})
			return
		}
		defer file.Close()

		result, err := s.store.Replace(r.Context(), table, header.Filename, file)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, result)
	}
}

var contentTypes = map[store.Format]string{
	store.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	store.FormatCSV:  "text/csv; charset=utf-8",
	store.FormatJSON: "application/json",
}

// handleExport downloads a table. The format query parameter defaults to the
// store's own format.
func (s *Server) handleExport(table store.TableName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := s.store.Format()
		if raw := r.URL.Query().Get("format"); raw != "" {
			f, err := store.ParseFormat(raw)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			format = f
		}

		var buf bytes.Buffer
		if err := s.store.Export(r.Context(), table, format, &buf); err != nil {
			s.fail(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(table)+"."+string(format)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			s.logger.Warn("failed to write export", "table", table, "error", err)
		}
	}
}
