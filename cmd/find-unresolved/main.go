// Command find-unresolved checks every token of the three ICO datasets
// against the public catalogs and writes the ones no catalog knows.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/ico-resolver/internal/config"
	"github.com/rickgao/ico-resolver/internal/dataset"
	"github.com/rickgao/ico-resolver/internal/metrics"
	"github.com/rickgao/ico-resolver/internal/report"
	"github.com/rickgao/ico-resolver/internal/resolve"
	"github.com/rickgao/ico-resolver/internal/runner"
	"github.com/rickgao/ico-resolver/internal/version"
)

const program = "find-unresolved"

// options holds the parsed command line. Empty strings and zero ints mean
// the flag was not given.
type options struct {
	configPath   string
	zenodo       string
	icpsr        string
	yan          string
	out          string
	cmcKey       string
	foundicoPub  string
	foundicoPriv string
	maxPages     int
	sources      string
	workers      int
	metricsAddr  string
	sqliteOut    string
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to YAML config file (optional)")
	fs.StringVar(&o.zenodo, "zenodo", "", "path to the Zenodo (Fahlenbrach) CSV")
	fs.StringVar(&o.icpsr, "icpsr", "", "path to the ICPSR (Villanueva) CSV")
	fs.StringVar(&o.yan, "yan", "", "path to the Kaggle (Yan Maksi) CSV")
	fs.StringVar(&o.out, "out", "", "path of the unresolved tokens CSV")
	fs.StringVar(&o.cmcKey, "cmc-key", "", "CoinMarketCap API key (default $"+config.EnvCMCKey+")")
	fs.StringVar(&o.foundicoPub, "foundico-public", "", "Foundico public key (default $"+config.EnvFoundicoPublicKey+")")
	fs.StringVar(&o.foundicoPriv, "foundico-private", "", "Foundico private key (default $"+config.EnvFoundicoPrivateKey+")")
	fs.IntVar(&o.maxPages, "foundico-max-pages", 0, fmt.Sprintf("Foundico pages to scan per token (default %d)", config.DefaultFoundicoMaxPages))
	fs.StringVar(&o.sources, "sources", "", "comma-separated cascade order (default "+strings.Join(config.DefaultOrder, ",")+")")
	fs.IntVar(&o.workers, "workers", 0, "tokens resolved concurrently (default 1)")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	fs.StringVar(&o.sqliteOut, "sqlite-out", "", "also write the report to this SQLite file")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// buildConfig loads the optional config file and overlays the flags.
func buildConfig(o *options) (*config.Config, error) {
	var cfg *config.Config
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		var missing []string
		for flagName, v := range map[string]string{"--zenodo": o.zenodo, "--icpsr": o.icpsr, "--yan": o.yan, "--out": o.out} {
			if v == "" {
				missing = append(missing, flagName)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return nil, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
		}
		cfg = config.Default()
	}

	setDataset(cfg, dataset.Zenodo, o.zenodo)
	setDataset(cfg, dataset.ICPSR, o.icpsr)
	setDataset(cfg, dataset.Kaggle, o.yan)

	if o.out != "" {
		cfg.Output.Path = o.out
	}
	if o.sqliteOut != "" {
		cfg.Output.SQLitePath = o.sqliteOut
	}
	if o.cmcKey != "" {
		cfg.Sources.CMC.APIKey = o.cmcKey
	}
	if o.foundicoPub != "" {
		cfg.Sources.Foundico.PublicKey = o.foundicoPub
	}
	if o.foundicoPriv != "" {
		cfg.Sources.Foundico.PrivateKey = o.foundicoPriv
	}
	if o.maxPages != 0 {
		cfg.Sources.Foundico.MaxPages = o.maxPages
	}
	if o.sources != "" {
		cfg.Sources.Order = splitList(o.sources)
	}
	if o.workers != 0 {
		cfg.Run.Workers = o.workers
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDataset points the named dataset at path, adding it when absent.
func setDataset(cfg *config.Config, name, path string) {
	if path == "" {
		return
	}
	for i := range cfg.Datasets {
		if cfg.Datasets[i].Name == name {
			cfg.Datasets[i].Path = path
			return
		}
	}
	cfg.Datasets = append(cfg.Datasets, config.DatasetConfig{Name: name, Path: path})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println(version.String(program))
		return
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	logger.Info("starting "+program, append(version.LogAttrs(), "config", opts.configPath)...)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	runID := uuid.New()
	logger = logger.With("run_id", runID.String())

	// Load every dataset before any network traffic
	tables := make([]*dataset.Table, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		t, err := dataset.Load(ds.Name, ds.Path)
		if err != nil {
			return err
		}
		logger.Info("dataset loaded",
			"dataset", t.Name,
			"path", ds.Path,
			"rows", t.Len(),
		)
		tables = append(tables, t)
	}

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := newMetricsServer(cfg.Metrics, m)
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	resolvers, err := buildResolvers(cfg, logger)
	if err != nil {
		return err
	}
	cascade := resolve.NewCascade(resolvers, logger, resolve.WithRecorder(m))
	logger.Info("cascade configured",
		"sources", cascade.Sources(),
		"availability", cascade.Availability(),
		"workers", cfg.Run.Workers,
	)

	rep := report.New(runID, cascade.Sources())
	r := runner.New(cascade, logger,
		runner.WithWorkers(cfg.Run.Workers),
		runner.WithTokenRecorder(m),
	)

	summary, err := r.RunTables(ctx, rep, tables)
	if err != nil {
		return err
	}
	logger.Info("resolution finished",
		"tokens", summary.Total,
		"resolved", summary.Resolved,
		"unresolved", summary.Unresolved,
		"missing_symbol", summary.MissingSymbol,
	)

	sinks, closeSinks, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	if err := report.WriteAll(ctx, rep, sinks...); err != nil {
		return err
	}
	for _, s := range sinks {
		m.ObserveRows(s.Name(), rep.Len())
	}

	logger.Info("report written",
		"path", cfg.Output.Path,
		"rows", rep.Len(),
	)
	return nil
}

func newMetricsServer(cfg config.MetricsConfig, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
