// Package runlog keeps an append-only history of scan runs.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codevet/codevet/internal/report"
)

const fileName = "codevet_runs.jsonl"

// RepoRecord is one repository's outcome inside a run record.
type RepoRecord struct {
	Repository     string `json:"repository"`
	StaticAnalysis string `json:"static_analysis"`
	DependencyScan string `json:"dependency_scan"`
	FetchError     string `json:"fetch_error,omitempty"`
}

// Record summarizes a single run.
type Record struct {
	Timestamp    time.Time    `json:"timestamp"`
	RunID        string       `json:"run_id"`
	Duration     string       `json:"duration"`
	Repositories []RepoRecord `json:"repositories"`
}

// Log appends and reads run records in a JSONL file under the report dir.
type Log struct {
	path string
}

func New(reportDir string) *Log {
	return &Log{path: filepath.Join(reportDir, fileName)}
}

// Append writes one record. Missing report dirs are created on demand.
func (l *Log) Append(rec Record) error {
	if rec.RunID == "" {
		rec.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create run log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

// History returns past records, newest first. Corrupt lines are skipped.
func (l *Log) History() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Summarize converts a run's reports into a record.
func Summarize(reports []report.Report, duration time.Duration) Record {
	rec := Record{
		Timestamp: time.Now().UTC(),
		Duration:  duration.String(),
	}
	for _, r := range reports {
		rec.Repositories = append(rec.Repositories, RepoRecord{
			Repository:     r.Repository,
			StaticAnalysis: sectionStatus(r.StaticAnalysis),
			DependencyScan: sectionStatus(r.DependencyScan),
			FetchError:     r.FetchError,
		})
	}
	return rec
}

func sectionStatus(s *report.Section) string {
	if s == nil {
		return ""
	}
	return string(s.Status)
}
