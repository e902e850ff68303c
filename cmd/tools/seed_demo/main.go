// Command seed_demo fills a data directory with a small set of clients,
// candidates and interviews so the dashboard has something to show.
//
// Usage:
//
//	go run cmd/tools/seed_demo/main.go [-dir data] [-format xlsx] [-force]
//
// Existing tables are left alone unless -force is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/jonathan/recruit-tracker/internal/types"
)

func main() {
	dir := flag.String("dir", "data", "data directory")
	format := flag.String("format", "xlsx", "table file format: xlsx or csv")
	force := flag.Bool("force", false, "overwrite existing rows")
	flag.Parse()

	f, err := store.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, *dir, store.WithFormat(f))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open data directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Demo Data Seeder ===")
	fmt.Println()

	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read existing tables: %v\n", err)
		os.Exit(1)
	}
	if !*force && (len(snap.Candidates) > 0 || len(snap.Interviews) > 0 || len(snap.Clients) > 0) {
		fmt.Println("Tables already contain rows; rerun with -force to replace them.")
		return
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	daysAgo := func(n int) *time.Time {
		t := now.AddDate(0, 0, -n)
		return &t
	}

	clients := []types.Client{
		{ID: 1, Name: "Acme Corp", Industry: "Manufacturing", ActivePositions: types.IntPtr(3), TotalHires: types.IntPtr(12)},
		{ID: 2, Name: "Globex", Industry: "Finance", ActivePositions: types.IntPtr(1), TotalHires: types.IntPtr(4)},
		{ID: 3, Name: "Initech", Industry: "Software", ActivePositions: types.IntPtr(2), TotalHires: types.IntPtr(7)},
	}
	candidates := []types.Candidate{
		{ID: 1, Name: "Jane Doe", Position: "Backend Engineer", Status: types.CandidateOpen, Client: "Acme Corp", AppliedDate: daysAgo(10)},
		{ID: 2, Name: "John Roe", Position: "Data Analyst", Status: types.CandidateInterview, Client: "Globex", AppliedDate: daysAgo(20)},
		{ID: 3, Name: "Mia Wong", Position: "Backend Engineer", Status: types.CandidateHired, Client: "Initech", AppliedDate: daysAgo(60)},
		{ID: 4, Name: "Sam Lee", Position: "Product Designer", Status: types.CandidateInProgress, Client: "Acme Corp", AppliedDate: daysAgo(3)},
		{ID: 5, Name: "Ana Cruz", Position: "QA Engineer", Status: types.CandidateRejected, Client: "Initech", AppliedDate: daysAgo(45)},
	}
	interviews := []types.Interview{
		{ID: 1, CandidateID: types.IntPtr(2), Interviewer: "Bob Smith", Date: daysAgo(-2), Status: types.InterviewScheduled},
		{ID: 2, CandidateID: types.IntPtr(3), Interviewer: "Eve Adams", Date: daysAgo(50), Status: types.InterviewCompleted, Feedback: "Strong hire"},
		{ID: 3, CandidateID: types.IntPtr(5), Interviewer: "Bob Smith", Date: daysAgo(40), Status: types.InterviewCancelled},
	}

	if err := st.SaveClients(ctx, clients); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to save clients: %v\n", err)
		os.Exit(1)
	}
	if err := st.SaveCandidates(ctx, candidates); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to save candidates: %v\n", err)
		os.Exit(1)
	}
	if err := st.SaveInterviews(ctx, interviews); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to save interviews: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d clients, %d candidates, %d interviews into %s\n",
		len(clients), len(candidates), len(interviews), st.Dir())
}
