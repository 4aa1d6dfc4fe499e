package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/asynchttp/httpclient"
	"github.com/utkarsh5026/asynchttp/pool"
)

func newAsyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "async",
		Short: "Replay the asynchronous request scenarios",
		Long: `Queue every scenario on the worker pool first, then collect the
futures in order. One scenario polls its future with a short WaitFor
before blocking, showing that a timed out wait leaves the task running.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printSectionHeader(out, "ASYNCHRONOUS REQUESTS",
				"All requests are queued before any future is read.")

			scenarios := asyncScenarios(a.cfg.ProcessingTime)
			futures := make([]*pool.Future[*httpclient.Response], len(scenarios))
			starts := make([]time.Time, len(scenarios))
			for i, s := range scenarios {
				starts[i] = time.Now()
				f, err := a.client.AsyncDo(s.request)
				if err != nil {
					return fmt.Errorf("queue %q: %w", s.name, err)
				}
				futures[i] = f
			}
			a.log.Debugw("all requests queued", "count", len(futures))

			results := make([]result, 0, len(scenarios))
			for i, s := range scenarios {
				r := result{name: s.name, request: s.request}
				if s.waitFor > 0 {
					r.note = waitNote(futures[i], s.waitFor)
				}
				r.resp, r.err = futures[i].Get()
				r.elapsed = time.Since(starts[i])
				results = append(results, r)
			}

			if err := renderResults(out, results); err != nil {
				return err
			}

			printSectionHeader(out, "POOL", "Every async call above shared one pool.")
			stats := a.client.Stats()
			return renderPoolStats(out, a.workerCount(), stats)
		}),
	}
}

// waitNote describes what a bounded wait on f observed.
func waitNote(f *pool.Future[*httpclient.Response], d time.Duration) string {
	if f.WaitFor(d) == pool.WaitTimeout {
		return yellow.Sprintf("wait_for(%v) timed out, task kept running", d)
	}
	return green.Sprintf("wait_for(%v) ready", d)
}
