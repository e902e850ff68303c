package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/recruit-tracker/internal/query"
	"github.com/jonathan/recruit-tracker/internal/server/middleware"
)

// ChartResponse carries one prepared chart. Empty is set when the chart has
// no data to plot.
type ChartResponse struct {
	Chart  string `json:"chart"`
	Empty  bool   `json:"empty,omitempty"`
	Series any    `json:"series,omitempty"`
}

func candidateFilter(r *http.Request) query.CandidateFilter {
	q := r.URL.Query()
	return query.CandidateFilter{
		Client:   q.Get("client"),
		Status:   q.Get("status"),
		Position: q.Get("position"),
		Search:   q.Get("search"),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.jsonResponse(w, http.StatusOK, identity)
}

// handleOverview serves everything the dashboard landing page shows.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Overview(candidateFilter(r)))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Metrics())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	series, ok, known := sess.Chart(name, candidateFilter(r))
	if !known {
		s.errorResponse(w, http.StatusNotFound, "unknown chart: "+name)
		return
	}
	if !ok {
		s.jsonResponse(w, http.StatusOK, ChartResponse{Chart: name, Empty: true})
		return
	}
	s.jsonResponse(w, http.StatusOK, ChartResponse{Chart: name, Series: series})
}

func (s *Server) handleFollowUps(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.FollowUps())
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Integrity())
}
