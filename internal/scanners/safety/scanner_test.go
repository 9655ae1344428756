package safety

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codevet/codevet/internal/report"
)

func fakeTool(t *testing.T, stdout string, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "safety")
	script := "#!/bin/sh\n"
	if stdout != "" {
		script += "cat <<'CODEVET_EOF'\n" + stdout + "\nCODEVET_EOF\n"
	}
	if exitCode == 0 {
		script += "exit 0\n"
	} else {
		script += "exit 64\n"
	}
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake safety: %v", err)
	}
	return bin
}

func repoWithManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if body != "" {
		if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScan_NoManifestIsSkip(t *testing.T) {
	s := &Scanner{Bin: fakeTool(t, `{"vulnerabilities": []}`, 0)}
	sec := s.Scan(context.Background(), repoWithManifest(t, ""))
	if sec.Status != report.StatusSkipped {
		t.Fatalf("expected skip, got %s (%s)", sec.Status, sec.Error)
	}
	if sec.Reason != "no manifest found" {
		t.Errorf("unexpected skip reason %q", sec.Reason)
	}
}

func TestScan_MalformedManifestIsFailure(t *testing.T) {
	s := &Scanner{Bin: fakeTool(t, `{"vulnerabilities": []}`, 0)}
	sec := s.Scan(context.Background(), repoWithManifest(t, "Placeholder: No dependencies detected\n"))
	if sec.Status != report.StatusFailed {
		t.Fatalf("expected failure for placeholder manifest, got %s", sec.Status)
	}
}

func TestScan_FindingsOnNonZeroExit(t *testing.T) {
	// safety exits non-zero when vulnerabilities are found
	out := `{"vulnerabilities": [{"package_name": "flask", "vulnerability_id": "36388"}]}`
	s := &Scanner{Bin: fakeTool(t, out, 64)}
	sec := s.Scan(context.Background(), repoWithManifest(t, "flask==0.12\n"))
	if sec.Status != report.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", sec.Status, sec.Error)
	}
	if sec.Count != 1 {
		t.Errorf("expected 1 vulnerable package, got %d", sec.Count)
	}
}

func TestScan_NoOutputIsFailure(t *testing.T) {
	s := &Scanner{Bin: fakeTool(t, "", 1)}
	sec := s.Scan(context.Background(), repoWithManifest(t, "flask==0.12\n"))
	if sec.Status != report.StatusFailed {
		t.Fatalf("expected failure when safety prints nothing, got %s", sec.Status)
	}
}

func TestScan_UnparseableOutputIsFailure(t *testing.T) {
	s := &Scanner{Bin: fakeTool(t, "Traceback (most recent call last)", 1)}
	sec := s.Scan(context.Background(), repoWithManifest(t, "flask==0.12\n"))
	if sec.Status != report.StatusFailed {
		t.Fatalf("expected failure for unparseable output, got %s", sec.Status)
	}
}
