package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/trackboard/internal/adapters/http/preview"
	"github.com/okian/trackboard/internal/adapters/source"
	app "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/config"
	"github.com/okian/trackboard/internal/domain/policy"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

// Process exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNoSource = 3
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds command line overrides of the loaded config.
type flags struct {
	in  string
	out string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("trackboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.in, "in", "", "input workbook (.xlsx) or directory of CSV files")
	fs.StringVar(&f.out, "out", "", "output HTML file")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if fs.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// run generates the report and, when configured, serves it until ctx is done.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr since the logger is configured from the config
		_, _ = fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitFailure
	}
	if f.in != "" {
		cfg.InputPath = f.in
	}
	if f.out != "" {
		cfg.OutputPath = f.out
	}

	if err := logger.Init(logger.WithOutput(stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailure
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	code := generate(ctx, cfg, log)
	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.String("path", cfg.MetricsPath), logger.Error(err))
		}
	}
	return code
}

func generate(ctx context.Context, cfg *config.Config, log logger.Logger) int {
	opts, err := cfg.PolicyOptions()
	if err != nil {
		log.Error(ctx, "invalid direction config", logger.Error(err))
		return exitFailure
	}
	pol, err := policy.New(opts...)
	if err != nil {
		log.Error(ctx, "invalid direction config", logger.Error(err))
		return exitFailure
	}

	src, err := source.Open(cfg.InputPath, cfg.Layout)
	if err != nil {
		metrics.RecordRun(metrics.OutcomeSourceUnavailable)
		log.Error(ctx, "cannot open input", logger.String("path", cfg.InputPath), logger.Error(err))
		return exitNoSource
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithSource(src),
		app.WithPolicy(pol),
		app.WithOutputPath(cfg.OutputPath),
		app.WithTitle(cfg.Title),
	)
	outcome, err := svc.Run(ctx)
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			return exitNoSource
		}
		return exitFailure
	}

	if cfg.PreviewAddr == "" {
		return exitOK
	}
	page, err := os.ReadFile(outcome.OutputPath)
	if err != nil {
		log.Error(ctx, "cannot read report for preview", logger.Error(err))
		return exitFailure
	}
	srv := preview.NewServer(outcome.Report, page, preview.WithLogger(log.Named("preview")))
	if err := srv.ListenAndServe(ctx, cfg.PreviewAddr); err != nil {
		log.Error(ctx, "preview server failed", logger.Error(err))
		return exitFailure
	}
	return exitOK
}
