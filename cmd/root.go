package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angeloszaimis/netcheck/config"
	"github.com/angeloszaimis/netcheck/internal/checks"
	"github.com/angeloszaimis/netcheck/internal/metrics"
	"github.com/angeloszaimis/netcheck/internal/probe"
	"github.com/angeloszaimis/netcheck/internal/report"
	"github.com/angeloszaimis/netcheck/internal/request"
	"github.com/angeloszaimis/netcheck/internal/runner"
	"github.com/angeloszaimis/netcheck/pkg/logger"
)

const eventBufferSize = 64

type options struct {
	configPath    string
	topic         string
	correlationID string
	output        string
	count         int
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "netcheck",
		Short: "Check connectivity to Hub and Rails",
		Long: "netcheck verifies that this machine can reach the Hub status endpoint and the " +
			"Rails automate endpoint over HTTP and HTTPS, directly and through the configured proxy.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the config file (default ./config/config.yaml or ./config.yaml)")
	flags.StringVar(&opts.topic, "topic", "", "topic the report is logged under (overrides report.topic)")
	flags.StringVar(&opts.correlationID, "correlation-id", "", "correlation id of the run (default a random UUID)")
	flags.StringVarP(&opts.output, "output", "o", "", "report format: table, yaml or json (overrides report.format)")
	flags.IntVar(&opts.count, "count", 1, "number of times to run the checks")

	return cmd
}

func (o options) validate() error {
	return validation.Errors{
		"output": validation.Validate(o.output, validation.In(report.Formats...)),
		"count":  validation.Validate(o.count, validation.Required, validation.Min(1)),
	}.Filter()
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	if err := opts.validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	topic := cfg.Report.Topic
	if opts.topic != "" {
		topic = opts.topic
	}
	format := cfg.Report.Format
	if opts.output != "" {
		format = opts.output
	}

	log := logger.New(cfg.Logging.Level, false, cfg.Environment, stderr)

	collectorCtx, stopCollector := context.WithCancel(context.Background())
	collector := metrics.NewCollector(eventBufferSize, log)
	collector.Start(collectorCtx)

	r := newRunner(cfg, log, collector)

	var renderErr error
	for i := 0; i < opts.count && ctx.Err() == nil; i++ {
		id := correlationID(opts.correlationID, i, opts.count)
		r.FireChecks(ctx, topic, id, func(outcomes []probe.Outcome) {
			if err := report.Render(stdout, format, report.Tabulate(outcomes)); err != nil && renderErr == nil {
				renderErr = fmt.Errorf("render report: %w", err)
			}
		})
	}

	stopCollector()
	<-collector.Done()
	logSnapshot(log, collector.Snapshot())

	return renderErr
}

func newRunner(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) *runner.Runner {
	proxy := proxyFromConfig(cfg.Proxy)
	if proxy != nil {
		log.Debug("Proxy configured, proxied checks enabled",
			slog.String("proxy", fmt.Sprintf("%s:%d", proxy.Host, proxy.Port)),
			slog.Bool("auth", proxy.HasCredentials()))
	}

	registry := checks.NewRegistry(checks.Targets{
		HubStatus:     cfg.Targets.HubStatus,
		RailsAutomate: cfg.Targets.RailsAutomate,
	}, proxy)

	return runner.New(
		registry,
		probe.NewExecutor(cfg.RequestTimeout(), log),
		report.NewLogger(log),
		log,
		runner.WithEvents(collector.EventChannel()),
	)
}

func proxyFromConfig(pc config.ProxyConfig) *request.Proxy {
	if !pc.Enabled() {
		return nil
	}

	return &request.Proxy{
		Host:     pc.Host,
		Port:     pc.Port,
		Username: pc.Username,
		Password: pc.Password,
	}
}

// correlationID numbers a fixed id per run when the checks run more than
// once, and falls back to a random UUID.
func correlationID(fixed string, run, count int) string {
	if fixed == "" {
		return uuid.NewString()
	}
	if count > 1 {
		return fmt.Sprintf("%s-%d", fixed, run+1)
	}
	return fixed
}

func logSnapshot(log *slog.Logger, snap metrics.Snapshot) {
	log.Debug("Check metrics",
		slog.Int64("runs", snap.TotalRuns),
		slog.Int64("passed", snap.TotalPassed),
		slog.Int64("failed", snap.TotalFailed),
		slog.Duration("uptime", snap.Uptime))

	for name, cm := range snap.Checks {
		log.Debug("Check latency",
			slog.String("check", name),
			slog.Int64("passed", cm.Passed),
			slog.Int64("failed", cm.Failed),
			slog.Duration("avg", cm.AvgResponse),
			slog.Duration("p95", cm.P95Response))
	}
}
