// Package safety wraps the safety dependency-vulnerability scanner.
package safety

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/codevet/codevet/internal/execx"
	"github.com/codevet/codevet/internal/manifest"
	"github.com/codevet/codevet/internal/report"
	"k8s.io/klog/v2"
)

// InstallHint is surfaced when the binary cannot be located.
const InstallHint = "Install with 'pip install safety'."

// Scanner invokes safety against a checkout's dependency manifest.
type Scanner struct {
	// Bin is the binary to invoke, either a resolved path or "safety".
	Bin string
}

// Scan locates a dependency manifest in repoPath and checks it. A missing
// or dependency-free manifest is a skip, not a failure; the rest of the run
// is unaffected either way.
func (s *Scanner) Scan(ctx context.Context, repoPath string) *report.Section {
	m, err := manifest.Discover(repoPath)
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		klog.Infof("skipping safety for %s: no manifest found", repoPath)
		return report.Skipped("no manifest found")
	case errors.Is(err, manifest.ErrEmpty):
		klog.Infof("skipping safety for %s: manifest declares no dependencies", repoPath)
		return report.Skipped("manifest declares no dependencies")
	case err != nil:
		return report.Failf("unusable manifest: %v", err)
	}

	klog.Infof("running safety on %s (manifest %s)", repoPath, m.Source)
	bin := s.Bin
	if bin == "" {
		bin = "safety"
	}

	res, rerr := execx.Run(ctx, bin, []string{"check", "--file", m.Path, "--json"}, repoPath)
	if res.TimedOut() {
		return report.Failf("safety timed out after %s", res.Duration.Round(time.Millisecond))
	}
	if res.NotFound() {
		return report.Failf("safety not found: %v. %s", rerr, InstallHint)
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return report.Failf("safety produced no output (exit %d): %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	findings, count, perr := ParseOutput([]byte(res.Stdout))
	if perr != nil {
		return report.Failf("parse safety output: %v", perr)
	}
	klog.Infof("safety finished in %s with %d vulnerable packages (exit %d)", res.Duration.Round(time.Millisecond), count, res.ExitCode)
	return report.Success(findings, count)
}
