// Package bandit wraps the bandit static-analysis tool.
package bandit

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/codevet/codevet/internal/execx"
	"github.com/codevet/codevet/internal/report"
	"k8s.io/klog/v2"
)

// InstallHint is surfaced when the binary cannot be located.
const InstallHint = "Install with 'pip install bandit'."

// Scanner invokes bandit against a checkout.
type Scanner struct {
	// Bin is the binary to invoke, either a resolved path or "bandit".
	Bin string
}

// Scan runs bandit recursively over repoPath. The tool writes its JSON
// report to rawPath via -o; the file is read back and its findings returned.
// bandit exits 1 when issues are found, so a non-zero exit with a parseable
// report is a successful scan.
func (s *Scanner) Scan(ctx context.Context, repoPath, rawPath string) *report.Section {
	klog.Infof("running bandit on %s", repoPath)
	bin := s.Bin
	if bin == "" {
		bin = "bandit"
	}

	args := []string{"-r", repoPath, "-f", "json", "-o", rawPath}
	res, err := execx.Run(ctx, bin, args, repoPath)
	if res.TimedOut() {
		return report.Failf("bandit timed out after %s", res.Duration.Round(time.Millisecond))
	}
	if res.NotFound() {
		return report.Failf("bandit not found: %v. %s", err, InstallHint)
	}

	data, readErr := os.ReadFile(rawPath)
	if readErr != nil {
		// no report file at all means the tool never got going
		return report.Failf("bandit produced no report: %s", strings.TrimSpace(res.Stderr))
	}

	findings, count, parseErr := ParseReport(data)
	if parseErr != nil {
		return report.Failf("parse bandit output: %v", parseErr)
	}
	klog.Infof("bandit finished in %s with %d findings (exit %d)", res.Duration.Round(time.Millisecond), count, res.ExitCode)
	return report.Success(findings, count)
}
