package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintSummary renders an end-of-run table, one row per repository. The
// caller's slice keeps its run order.
func PrintSummary(w io.Writer, reports []Report) {
	rows := make([]Report, len(reports))
	copy(rows, reports)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Repository < rows[j].Repository
	})
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-24s %-22s %-22s\n", "Repository", "Static analysis", "Dependency scan")
	fmt.Fprintln(w, rule)
	for _, r := range rows {
		if r.FetchError != "" {
			fmt.Fprintf(w, "%-24s %s\n", r.Repository, "fetch failed: "+r.FetchError)
			continue
		}
		fmt.Fprintf(w, "%-24s %-22s %-22s\n", r.Repository,
			sectionCell(r.StaticAnalysis), sectionCell(r.DependencyScan))
	}
	fmt.Fprintln(w, rule)
}

func sectionCell(s *Section) string {
	if s == nil {
		return "-"
	}
	switch s.Status {
	case StatusSuccess:
		return fmt.Sprintf("ok (%d findings)", s.Count)
	case StatusSkipped:
		return "skipped: " + s.Reason
	default:
		return "failed: " + firstLine(s.Error)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
