package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/codevet/codevet/internal/config"
	"github.com/codevet/codevet/internal/runlog"
	"github.com/spf13/cobra"
)

func init() {
	var reportDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			records, err := runlog.New(reportDir).History()
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					fmt.Println("No runs recorded yet.")
					return nil
				}
				return err
			}
			for _, rec := range records {
				fmt.Printf("%s  %s  (%s)\n", rec.Timestamp.Format("2006-01-02 15:04:05"), rec.RunID, rec.Duration)
				for _, repo := range rec.Repositories {
					if repo.FetchError != "" {
						fmt.Printf("  %-24s fetch failed: %s\n", repo.Repository, repo.FetchError)
						continue
					}
					fmt.Printf("  %-24s static=%s deps=%s\n", repo.Repository, repo.StaticAnalysis, repo.DependencyScan)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reportDir, "reports", config.DefaultReportDir, "directory holding the run log")
	rootCmd.AddCommand(cmd)
}
