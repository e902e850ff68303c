// Package charts shapes table rows into the series each dashboard chart needs.
//
// Every preparer returns ok=false when there is nothing to plot, so callers
// can show an empty-state placeholder instead of an empty chart.
package charts

import (
	"sort"
	"time"

	"github.com/jonathan/recruit-tracker/internal/types"
)

// Chart names accepted by Prepare.
const (
	StatusByClientChart       = "status-by-client"
	PositionDistributionChart = "positions"
	InterviewTimelineChart    = "timeline"
	FunnelChart               = "funnel"
)

// Names lists every chart in display order.
var Names = []string{StatusByClientChart, PositionDistributionChart, InterviewTimelineChart, FunnelChart}

// StatusCount is one bar segment of the status-by-client chart.
type StatusCount struct {
	Client string                `json:"client"`
	Status types.CandidateStatus `json:"status"`
	Count  int                   `json:"count"`
}

// PositionCount is one slice of the position distribution chart.
type PositionCount struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}

// TimelinePoint is one interview on the timeline.
type TimelinePoint struct {
	Date        *time.Time `json:"date"`
	Interviewer string     `json:"interviewer"`
}

// TimelineSeries groups the interviews sharing a status.
type TimelineSeries struct {
	Status types.InterviewStatus `json:"status"`
	Points []TimelinePoint       `json:"points"`
}

// FunnelStage is one stage of the recruitment funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// StatusByClient counts candidates per (client, status) pair, sorted by
// client then status. Rows with a blank client or status are left out.
func StatusByClient(candidates []types.Candidate) ([]StatusCount, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	type key struct {
		client string
		status types.CandidateStatus
	}
	counts := make(map[key]int)
	for _, c := range candidates {
		if c.Client == "" || c.Status == "" {
			continue
		}
		counts[key{c.Client, c.Status}]++
	}

	out := make([]StatusCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, StatusCount{Client: k.client, Status: k.status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Client != out[j].Client {
			return out[i].Client < out[j].Client
		}
		return out[i].Status < out[j].Status
	})
	return out, true
}

// PositionDistribution counts candidates per position, most common first
// with ties broken by name. Blank positions are left out.
func PositionDistribution(candidates []types.Candidate) ([]PositionCount, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	counts := make(map[string]int)
	for _, c := range candidates {
		if c.Position == "" {
			continue
		}
		counts[c.Position]++
	}

	out := make([]PositionCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PositionCount{Position: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Position < out[j].Position
	})
	return out, true
}

// InterviewTimeline groups interviews by status in first-seen order; points
// keep row order.
func InterviewTimeline(interviews []types.Interview) ([]TimelineSeries, bool) {
	if len(interviews) == 0 {
		return nil, false
	}

	var out []TimelineSeries
	index := make(map[types.InterviewStatus]int)
	for _, i := range interviews {
		pos, ok := index[i.Status]
		if !ok {
			pos = len(out)
			index[i.Status] = pos
			out = append(out, TimelineSeries{Status: i.Status, Points: []TimelinePoint{}})
		}
		out[pos].Points = append(out[pos].Points, TimelinePoint{Date: i.Date, Interviewer: i.Interviewer})
	}
	return out, true
}

// Funnel returns the Applied, In Progress, Interview and Hired stage counts.
// Applied is the total number of candidates, whatever their status.
func Funnel(candidates []types.Candidate) ([]FunnelStage, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	count := func(s types.CandidateStatus) int {
		n := 0
		for _, c := range candidates {
			if c.Status == s {
				n++
			}
		}
		return n
	}

	return []FunnelStage{
		{Stage: "Applied", Count: len(candidates)},
		{Stage: string(types.CandidateInProgress), Count: count(types.CandidateInProgress)},
		{Stage: string(types.CandidateInterview), Count: count(types.CandidateInterview)},
		{Stage: string(types.CandidateHired), Count: count(types.CandidateHired)},
	}, true
}

// Prepare builds the named chart. The series is nil with ok=false when the
// chart has no data; known reports whether name is a chart at all.
func Prepare(name string, candidates []types.Candidate, interviews []types.Interview) (series any, ok bool, known bool) {
	switch name {
	case StatusByClientChart:
		s, has := StatusByClient(candidates)
		series, ok = asSeries(s, has)
	case PositionDistributionChart:
		s, has := PositionDistribution(candidates)
		series, ok = asSeries(s, has)
	case InterviewTimelineChart:
		s, has := InterviewTimeline(interviews)
		series, ok = asSeries(s, has)
	case FunnelChart:
		s, has := Funnel(candidates)
		series, ok = asSeries(s, has)
	default:
		return nil, false, false
	}
	return series, ok, true
}

func asSeries[S any](s S, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return s, true
}
