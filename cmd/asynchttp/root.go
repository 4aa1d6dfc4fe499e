package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/utkarsh5026/asynchttp/httpclient"
	"github.com/utkarsh5026/asynchttp/httpclient/mock"
	"github.com/utkarsh5026/asynchttp/internal/config"
	"github.com/utkarsh5026/asynchttp/pool"
)

const envPrefix = "ASYNCHTTP"

// app holds what every subcommand shares: the resolved configuration and
// the one Client used for the whole process.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg      *config.Configuration
	logger   *zap.Logger
	log      *zap.SugaredLogger
	client   *httpclient.Client
	registry *prometheus.Registry
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	d := config.Default()

	root := &cobra.Command{
		Use:   "asynchttp",
		Short: "Async HTTP facade on a generic worker pool",
		Long: `asynchttp runs requests through a fixture dispatcher, either on the
calling goroutine or on a shared worker pool that hands back futures.

Examples:
  asynchttp sync
  asynchttp async --workers 4
  asynchttp load -n 500 --rate 200 --burst 10 --metrics`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.Int("workers", d.Workers, "Pool workers (0 = available CPUs)")
	flags.Float64("rate", d.RateLimit, "Max task starts per second (0 = unlimited)")
	flags.Int("burst", d.Burst, "Rate limiter burst")
	flags.Bool("cpu-affinity", d.CPUAffinity, "Pin pool workers to CPU cores")
	flags.String("log-level", d.LogLevel, "Log level: debug, info, warn, error")
	flags.String("log-format", d.LogFormat, "Log format: console or json")
	flags.Bool("metrics", d.Metrics, "Print Prometheus metrics on exit")
	flags.Duration("processing-time", d.ProcessingTime, "Simulated processing time of the timeout routes")
	cobra.CheckErr(a.v.BindPFlags(flags))

	root.AddCommand(
		newSyncCommand(a),
		newAsyncCommand(a),
		newLoadCommand(a),
	)
	return root
}

// run wraps a subcommand body with setup and teardown, so the client is
// closed even when the body fails.
func (a *app) run(body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.setup(); err != nil {
			return err
		}
		defer func() {
			if cerr := a.teardown(cmd.OutOrStdout()); err == nil {
				err = cerr
			}
		}()
		return body(cmd, args)
	}
}

func (a *app) setup() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	a.logger = logger
	a.log = logger.Sugar().Named("asynchttp")

	poolOpts := []pool.WorkerPoolOption{
		pool.WithWorkerCount(cfg.Workers),
		pool.WithLogger(zap.S().Named("pool")),
	}
	if cfg.RateLimit > 0 {
		poolOpts = append(poolOpts, pool.WithRateLimit(cfg.RateLimit, cfg.Burst))
	}
	if cfg.CPUAffinity {
		poolOpts = append(poolOpts, pool.WithCPUAffinity())
	}
	if cfg.Metrics {
		a.registry = prometheus.NewRegistry()
		poolOpts = append(poolOpts, pool.WithMetrics(pool.NewMetrics(a.registry, "asynchttp", "pool")))
	}

	a.client = httpclient.NewClient(
		mock.New(mock.WithProcessingTime(cfg.ProcessingTime)),
		httpclient.WithPoolOptions(poolOpts...),
		httpclient.WithLogger(zap.S().Named("httpclient")),
	)

	a.log.Debugw("configuration loaded",
		"workers", cfg.Workers,
		"rate", cfg.RateLimit,
		"burst", cfg.Burst,
		"cpu_affinity", cfg.CPUAffinity,
		"processing_time", cfg.ProcessingTime,
	)
	return nil
}

func (a *app) teardown(out io.Writer) error {
	if a.client != nil {
		a.client.Close()
	}

	var err error
	if a.registry != nil {
		err = writeMetrics(out, a.registry)
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
