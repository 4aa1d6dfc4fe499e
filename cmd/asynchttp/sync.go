package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay the synchronous request scenarios",
		Long: `Send every scenario on the calling goroutine, one after another.
The worker pool is never started.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printSectionHeader(out, "SYNCHRONOUS REQUESTS",
				"Each request blocks the caller until the dispatcher answers.")

			scenarios := syncScenarios(a.cfg.ProcessingTime)
			results := make([]result, 0, len(scenarios))
			for _, s := range scenarios {
				start := time.Now()
				resp, err := a.client.Do(s.request)
				results = append(results, result{
					name:    s.name,
					request: s.request,
					resp:    resp,
					err:     err,
					elapsed: time.Since(start),
				})
			}

			return renderResults(out, results)
		}),
	}
}
