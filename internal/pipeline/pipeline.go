// Package pipeline drives the per-repository sequence: fetch, static
// analysis, dependency scan, report.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/codevet/codevet/internal/gitfetch"
	"github.com/codevet/codevet/internal/report"
	"github.com/codevet/codevet/internal/scanners/bandit"
	"github.com/codevet/codevet/internal/scanners/safety"
	"k8s.io/klog/v2"
)

// Config carries everything one run needs. Repositories are processed
// sequentially and independently; nothing is shared between them.
type Config struct {
	Repos       []string
	WorkDir     string
	ReportDir   string
	ToolTimeout time.Duration
	KeepClones  bool
	BanditBin   string
	SafetyBin   string
}

// Run processes every configured repository and returns the reports that
// were persisted. Per-repository failures are recorded inside the reports;
// only cancellation stops the loop, and a repository interrupted mid-flight
// is never persisted.
func Run(ctx context.Context, cfg Config) []report.Report {
	// Tools run with the clone as their working directory, so every path
	// handed to them must not depend on this process's own cwd.
	if abs, err := filepath.Abs(cfg.WorkDir); err == nil {
		cfg.WorkDir = abs
	}
	if abs, err := filepath.Abs(cfg.ReportDir); err == nil {
		cfg.ReportDir = abs
	}

	cloner := &gitfetch.Cloner{WorkDir: cfg.WorkDir, Depth: 1}
	writer := &report.Writer{Dir: cfg.ReportDir}
	static := &bandit.Scanner{Bin: cfg.BanditBin}
	deps := &safety.Scanner{Bin: cfg.SafetyBin}

	var reports []report.Report
	for _, url := range cfg.Repos {
		if ctx.Err() != nil {
			klog.Warningf("run canceled, %d repositories not processed", len(cfg.Repos)-len(reports))
			break
		}

		rep := processRepo(ctx, cfg, cloner, static, deps, writer, url)

		if ctx.Err() != nil {
			klog.Warningf("run canceled while processing %s, discarding its partial report", rep.Repository)
			break
		}

		if path, err := writer.Write(rep); err != nil {
			// a write failure is scoped to this repository; keep going
			klog.Errorf("failed to persist report for %s: %v", rep.Repository, err)
		} else {
			klog.Infof("report for %s saved to %s", rep.Repository, path)
		}
		reports = append(reports, rep)
	}
	return reports
}

func processRepo(ctx context.Context, cfg Config, cloner *gitfetch.Cloner, static *bandit.Scanner, deps *safety.Scanner, writer *report.Writer, url string) report.Report {
	rep := report.Report{
		Repository:  gitfetch.Name(url),
		SourceURL:   url,
		GeneratedAt: time.Now().UTC(),
	}

	path, err := cloner.Fetch(ctx, url)
	if err != nil {
		klog.Errorf("fetch %s: %v", url, err)
		rep.FetchError = err.Error()
		return rep
	}
	if !cfg.KeepClones {
		defer func() {
			if err := os.RemoveAll(path); err != nil {
				klog.Warningf("could not remove working copy %s: %v", path, err)
			}
		}()
	}

	if _, err := writer.RepoDir(rep.Repository); err != nil {
		rep.StaticAnalysis = report.Failf("prepare report dir: %v", err)
		rep.DependencyScan = report.Failf("prepare report dir: %v", err)
		return rep
	}

	rep.StaticAnalysis = runBounded(ctx, cfg.ToolTimeout, func(tctx context.Context) *report.Section {
		return static.Scan(tctx, path, writer.RawPath(rep.Repository, "bandit"))
	})

	rep.DependencyScan = runBounded(ctx, cfg.ToolTimeout, func(tctx context.Context) *report.Section {
		return deps.Scan(tctx, path)
	})
	if rep.DependencyScan.Status == report.StatusSuccess {
		if err := writer.WriteRaw(rep.Repository, "safety", rep.DependencyScan.Findings); err != nil {
			klog.Warningf("could not save raw safety output for %s: %v", rep.Repository, err)
		}
	}

	return rep
}

// runBounded applies the per-tool timeout on top of the run context.
func runBounded(ctx context.Context, timeout time.Duration, scan func(context.Context) *report.Section) *report.Section {
	if timeout <= 0 {
		return scan(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return scan(tctx)
}
