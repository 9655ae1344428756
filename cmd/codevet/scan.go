package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codevet/codevet/internal/config"
	"github.com/codevet/codevet/internal/execx"
	"github.com/codevet/codevet/internal/pipeline"
	"github.com/codevet/codevet/internal/report"
	"github.com/codevet/codevet/internal/runlog"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	flagConfigPath string
	flagWorkDir    string
	flagReportDir  string
	flagTimeout    time.Duration
	flagRepos      []string
	flagKeepClones bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Clone and scan the configured repositories",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagConfigPath, "config", "", "config file (default: .codevet.yaml in the current directory)")
	cmd.Flags().StringVar(&flagWorkDir, "workdir", "", "directory for cloned working copies")
	cmd.Flags().StringVar(&flagReportDir, "reports", "", "directory for report documents")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-tool subprocess timeout (0 = configured default)")
	cmd.Flags().StringArrayVar(&flagRepos, "repo", nil, "repository URL to scan (repeatable, overrides the configured list)")
	cmd.Flags().BoolVar(&flagKeepClones, "keep-clones", false, "keep working copies after reporting")
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg := resolveConfig(cmd)

	// Missing tools are per-repository failures, not fatal; warn up front
	// so a fully failed run is no surprise.
	if _, err := execx.Find(cfg.BanditBin, "bandit", "Install with 'pip install bandit'."); err != nil {
		klog.Warningf("%v", err)
	}
	if _, err := execx.Find(cfg.SafetyBin, "safety", "Install with 'pip install safety'."); err != nil {
		klog.Warningf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	reports := pipeline.Run(ctx, cfg)
	report.PrintSummary(os.Stdout, reports)

	if err := runlog.New(cfg.ReportDir).Append(runlog.Summarize(reports, time.Since(start))); err != nil {
		klog.Warningf("could not record run history: %v", err)
	}

	// Per-repository failures live inside the reports; the process itself
	// succeeds whenever the run completes.
	return nil
}

// resolveConfig layers flags over the config file over built-in defaults.
func resolveConfig(cmd *cobra.Command) pipeline.Config {
	var file config.FileConfig
	var err error
	if flagConfigPath != "" {
		file, err = config.LoadFile(flagConfigPath)
		if err != nil {
			klog.Warningf("config file %s: %v, using defaults", flagConfigPath, err)
		}
	} else if wd, werr := os.Getwd(); werr == nil {
		if file, err = config.LoadLocal(wd); err == nil {
			klog.V(1).Infof("loaded local config from %s", wd)
		}
	}

	repos := flagRepos
	if len(repos) == 0 {
		repos = file.Repositories
	}
	if len(repos) == 0 {
		repos = config.DefaultRepositories
	}

	timeout := flagTimeout
	if timeout <= 0 {
		timeout = file.ToolTimeoutDuration(config.DefaultToolTimeout)
	}

	return pipeline.Config{
		Repos:       repos,
		WorkDir:     config.PickString(flagWorkDir, file.WorkDir, config.DefaultWorkDir),
		ReportDir:   config.PickString(flagReportDir, file.ReportDir, config.DefaultReportDir),
		ToolTimeout: timeout,
		KeepClones:  config.PickBool(cmd.Flags().Changed("keep-clones"), flagKeepClones, file.KeepClones, false),
		BanditBin:   config.PickString(os.Getenv("CODEVET_BANDIT_PATH"), file.BanditPath, ""),
		SafetyBin:   config.PickString(os.Getenv("CODEVET_SAFETY_PATH"), file.SafetyPath, ""),
	}
}
