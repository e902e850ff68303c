// Package observability renders dashboard data as text boxes for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/recruit-tracker/internal/charts"
	"github.com/jonathan/recruit-tracker/internal/db"
	"github.com/jonathan/recruit-tracker/internal/metrics"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/jonathan/recruit-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
	// barWidth is the longest bar drawn by the chart boxes
	barWidth = 24
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printBanner prints a single-line box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(text, boxWidth-4))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintKPIs outputs the headline numbers followed by the notification lines.
func (p *Printer) PrintKPIs(kpis metrics.KPIs, notifications []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates:   %d\n", kpis.TotalCandidates))
	sb.WriteString(fmt.Sprintf("Recent (30 days):   %d\n", kpis.RecentCandidates))
	sb.WriteString(fmt.Sprintf("Open positions:     %d\n", kpis.OpenPositions))
	sb.WriteString(fmt.Sprintf("Active interviews:  %d\n", kpis.ActiveInterviews))
	sb.WriteString(fmt.Sprintf("Success rate:       %.1f%%", kpis.SuccessRate))

	for _, n := range notifications {
		sb.WriteString("\n\n")
		sb.WriteString("ℹ " + n)
	}

	p.printBox("RECRUITMENT OVERVIEW", sb.String())
}

// PrintFollowUps lists upcoming follow-up deadlines.
func (p *Printer) PrintFollowUps(followUps []metrics.FollowUp) {
	if len(followUps) == 0 {
		p.printBanner("No follow-ups due in the next 7 days")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d follow-ups due:\n\n", len(followUps)))

	count := min(len(followUps), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := followUps[i]
		sb.WriteString(fmt.Sprintf("%s  #%d %s\n", f.Deadline.Format(types.DateLayout), f.CandidateID, f.Name))
		detail := f.Position
		if f.Client != "" {
			detail += " @ " + f.Client
		}
		sb.WriteString(fmt.Sprintf("            %s", detail))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(followUps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more", len(followUps)-maxItemsToShow))
	}

	p.printBox("UPCOMING FOLLOW-UPS", sb.String())
}

// PrintIntegrity outputs integrity warnings, blocking ones first.
func (p *Printer) PrintIntegrity(warnings []store.IntegrityWarning) {
	if len(warnings) == 0 {
		p.printBanner("✅ NO INTEGRITY ISSUES FOUND")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n", len(warnings)))
	for _, blocking := range []bool{true, false} {
		for _, w := range warnings {
			if w.Blocking() != blocking {
				continue
			}
			mark := "ℹ"
			if blocking {
				mark = "⚠"
			}
			sb.WriteString(fmt.Sprintf("\n%s %s/%s\n", mark, w.Table, w.Kind))
			sb.WriteString(fmt.Sprintf("  %s", w.Message))
		}
	}

	p.printBox("DATA INTEGRITY", sb.String())
}

// bar draws n scaled against maxN.
func bar(n, maxN int) string {
	if maxN <= 0 || n <= 0 {
		return ""
	}
	width := n * barWidth / maxN
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}

// PrintChart outputs a prepared chart series as text bars. A nil series
// prints the empty-state banner.
func (p *Printer) PrintChart(name string, series any) {
	title := strings.ToUpper(strings.ReplaceAll(name, "-", " "))

	var sb strings.Builder
	switch s := series.(type) {
	case []charts.FunnelStage:
		maxN := 0
		for _, st := range s {
			maxN = max(maxN, st.Count)
		}
		for i, st := range s {
			sb.WriteString(fmt.Sprintf("%-12s %4d %s", st.Stage, st.Count, bar(st.Count, maxN)))
			if i < len(s)-1 {
				sb.WriteString("\n")
			}
		}
	case []charts.PositionCount:
		maxN := 0
		for _, pc := range s {
			maxN = max(maxN, pc.Count)
		}
		for i, pc := range s {
			sb.WriteString(fmt.Sprintf("%-20s %4d %s", truncate(pc.Position, 20), pc.Count, bar(pc.Count, maxN)))
			if i < len(s)-1 {
				sb.WriteString("\n")
			}
		}
	case []charts.StatusCount:
		client := ""
		for i, sc := range s {
			if sc.Client != client {
				if i > 0 {
					sb.WriteString("\n")
				}
				client = sc.Client
				sb.WriteString(client + "\n")
			}
			sb.WriteString(fmt.Sprintf("  %-14s %4d", sc.Status, sc.Count))
			if i < len(s)-1 {
				sb.WriteString("\n")
			}
		}
	case []charts.TimelineSeries:
		for i, ts := range s {
			sb.WriteString(fmt.Sprintf("%s (%d)\n", ts.Status, len(ts.Points)))
			for j, pt := range ts.Points {
				date := "no date   "
				if pt.Date != nil {
					date = pt.Date.Format(types.DateLayout)
				}
				sb.WriteString(fmt.Sprintf("  %s  %s", date, pt.Interviewer))
				if j < len(ts.Points)-1 {
					sb.WriteString("\n")
				}
			}
			if i < len(s)-1 {
				sb.WriteString("\n\n")
			}
		}
	default:
		p.printBanner(title + ": no data to display")
		return
	}

	p.printBox(title, sb.String())
}

// PrintImportResult summarises a table replacement.
func (p *Printer) PrintImportResult(result *store.ImportResult) {
	if result == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table: %s\n", result.Table))
	sb.WriteString(fmt.Sprintf("Rows:  %d", result.Rows))
	for _, w := range result.Warnings {
		sb.WriteString("\n⚠ " + w.Message)
	}
	p.printBox("IMPORT COMPLETE", sb.String())
}

// PrintSyncResult summarises a mirror sync.
func (p *Printer) PrintSyncResult(result *db.SyncResult) {
	if result == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Snapshot:   %s\n", result.SnapshotAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", result.Candidates))
	sb.WriteString(fmt.Sprintf("Interviews: %d\n", result.Interviews))
	sb.WriteString(fmt.Sprintf("Clients:    %d\n", result.Clients))
	sb.WriteString(fmt.Sprintf("Took:       %s", result.Duration.Round(time.Millisecond)))
	p.printBox("MIRROR SYNC", sb.String())
}
