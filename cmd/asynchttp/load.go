package main

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/asynchttp/httpclient"
	"github.com/utkarsh5026/asynchttp/internal/config"
	"github.com/utkarsh5026/asynchttp/internal/cpu"
	"github.com/utkarsh5026/asynchttp/pool"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// loadReport aggregates the outcome of a load run. Latencies are recorded
// in microseconds from submit to future completion.
type loadReport struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	statuses  map[int]int
	errors    int
	elapsed   time.Duration
}

func newLoadReport() *loadReport {
	return &loadReport{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		statuses:  make(map[int]int),
	}
}

func (r *loadReport) record(resp *httpclient.Response, err error, latency time.Duration) {
	us := min(max(latency.Microseconds(), minLatencyUs), maxLatencyUs)

	r.mu.Lock()
	defer r.mu.Unlock()

	_ = r.histogram.RecordValue(us)
	if err != nil {
		r.errors++
		return
	}
	r.statuses[resp.StatusCode]++
}

func (r *loadReport) total() int64 {
	return r.histogram.TotalCount()
}

func (r *loadReport) succeeded() int {
	n := 0
	for code, c := range r.statuses {
		if code >= 200 && code < 300 {
			n += c
		}
	}
	return n
}

func (r *loadReport) percentile(p float64) time.Duration {
	return time.Duration(r.histogram.ValueAtQuantile(p)) * time.Microsecond
}

func newLoadCommand(a *app) *cobra.Command {
	d := config.Default().Load

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fire many async requests and report latency",
		Long: `Queue N async requests against one target, wait for every future and
print throughput, status and latency percentile tables.

Examples:
  asynchttp load -n 1000
  asynchttp load -n 200 --target http://example.com/timeout_async --workers 8`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			report, err := runLoad(a.client, a.cfg.Load.Requests, a.cfg.Load.Target, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return renderLoadReport(cmd.OutOrStdout(), a.cfg.Load.Target, report, a.workerCount(), a.client.Stats())
		}),
	}

	cmd.Flags().IntP("requests", "n", d.Requests, "Number of requests to send")
	cmd.Flags().String("target", d.Target, "URL every request is sent to")
	cobra.CheckErr(a.v.BindPFlag("load.requests", cmd.Flags().Lookup("requests")))
	cobra.CheckErr(a.v.BindPFlag("load.target", cmd.Flags().Lookup("target")))

	return cmd
}

// runLoad submits n GETs to target and waits for all of them. Each future
// gets its own watcher so latencies are not skewed by collection order.
func runLoad(client *httpclient.Client, n int, target string, progress io.Writer) (*loadReport, error) {
	report := newLoadReport()
	bar := progressbar.NewOptions(n,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Sending requests"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)

	var g errgroup.Group
	start := time.Now()

	for i := range n {
		submitted := time.Now()
		f, err := client.AsyncGet(target)
		if err != nil {
			_ = g.Wait()
			return nil, fmt.Errorf("submit request %d: %w", i, err)
		}

		g.Go(func() error {
			resp, err := f.Get()
			report.record(resp, err, time.Since(submitted))
			_ = bar.Add(1)
			return nil
		})
	}

	_ = g.Wait()
	report.elapsed = time.Since(start)
	_ = bar.Finish()

	return report, nil
}

func renderLoadReport(w io.Writer, target string, r *loadReport, workers int, stats pool.Stats) error {
	total := r.total()
	rps := 0.0
	if r.elapsed > 0 {
		rps = float64(total) / r.elapsed.Seconds()
	}

	printSectionHeader(w, "LOAD SUMMARY", "Target: "+target)
	summary := tablewriter.NewWriter(w)
	summary.Header("Requests", "2xx", "Errors", "Workers", "Elapsed", "Req/sec")
	if err := summary.Append(
		fmt.Sprint(total),
		green.Sprint(r.succeeded()),
		red.Sprint(r.errors),
		fmt.Sprint(workers),
		r.elapsed.Round(time.Millisecond).String(),
		fmt.Sprintf("%.1f", rps),
	); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	printSectionHeader(w, "STATUS CODES")
	codes := make([]int, 0, len(r.statuses))
	for code := range r.statuses {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	statusTable := tablewriter.NewWriter(w)
	statusTable.Header("Status", "Count")
	for _, code := range codes {
		if err := statusTable.Append(statusString(code), fmt.Sprint(r.statuses[code])); err != nil {
			return err
		}
	}
	if err := statusTable.Render(); err != nil {
		return err
	}

	printSectionHeader(w, "LATENCY",
		"Measured from submit until the future completed (queue wait included).")
	latency := tablewriter.NewWriter(w)
	latency.Header("Min", "P50", "P90", "P95", "P99", "Max", "Mean")
	if err := latency.Append(
		formatLatency(time.Duration(r.histogram.Min())*time.Microsecond),
		formatLatency(r.percentile(50)),
		formatLatency(r.percentile(90)),
		formatLatency(r.percentile(95)),
		formatLatency(r.percentile(99)),
		formatLatency(time.Duration(r.histogram.Max())*time.Microsecond),
		formatLatency(time.Duration(r.histogram.Mean())*time.Microsecond),
	); err != nil {
		return err
	}
	if err := latency.Render(); err != nil {
		return err
	}

	printSectionHeader(w, "POOL")
	return renderPoolStats(w, workers, stats)
}

func formatLatency(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.String()
	}
}

// workerCount reports the pool size the client uses, resolving 0 the same
// way the pool does.
func (a *app) workerCount() int {
	return cpu.Workers(a.cfg.Workers)
}
