package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists report documents under a fixed output directory, one
// subdirectory per repository, with names derived from the repository name.
type Writer struct {
	Dir string
}

// RepoDir returns (and creates) the report directory for one repository.
func (w *Writer) RepoDir(repo string) (string, error) {
	dir := filepath.Join(w.Dir, repo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	return dir, nil
}

// RawPath is where a tool's unprocessed JSON output lands. Bandit writes
// this file itself via its -o flag; the safety output is written by WriteRaw.
func (w *Writer) RawPath(repo, tool string) string {
	return filepath.Join(w.Dir, repo, fmt.Sprintf("%s_%s_report.json", repo, tool))
}

// WriteRaw persists one tool's raw output next to the combined report.
func (w *Writer) WriteRaw(repo, tool string, data []byte) error {
	if _, err := w.RepoDir(repo); err != nil {
		return err
	}
	if err := os.WriteFile(w.RawPath(repo, tool), data, 0o644); err != nil {
		return fmt.Errorf("write raw %s report: %w", tool, err)
	}
	return nil
}

// Write serializes the combined report and persists it as
// <repo>_final_report.json. The returned path is informational.
func (w *Writer) Write(rep Report) (string, error) {
	dir, err := w.RepoDir(rep.Repository)
	if err != nil {
		return "", err
	}
	buf, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize report for %s: %w", rep.Repository, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_final_report.json", rep.Repository))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("write report for %s: %w", rep.Repository, err)
	}
	return path, nil
}
