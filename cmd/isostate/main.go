// Command isostate resolves place names given as arguments to two-letter
// region codes, printing one `CODE<TAB>NAME` line per argument.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ianmackinnon/isostate/internal/disambiguate"
	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/internal/resolver"
	"github.com/ianmackinnon/isostate/pkg/config"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
	"github.com/ianmackinnon/isostate/pkg/logger"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: isostate [flags] [SEARCH ...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperrors.ExitOK
		}
		return apperrors.ExitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "isostate: %v\n", err)
		return apperrors.ExitError
	}
	applyFlags(cfg, &opts)

	level := cfg.Logging.Level
	if opts.verbose > 0 || opts.quiet > 0 {
		level = logger.LevelFromVerbosity(int(opts.verbose), int(opts.quiet))
	}
	logger.Setup(level, cfg.Logging.Format, stderr)

	if opts.listSources {
		return listSources(cfg, stdout)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}

	if opts.check {
		return runCheck(ctx, cfg, m, stdout)
	}

	terms := fs.Args()
	if len(terms) == 0 {
		if cfg.Disambiguation.Batch {
			slog.Warn("no search terms given")
			return apperrors.ExitOK
		}
		fs.Usage()
		return apperrors.ExitError
	}

	ctx = logger.WithSession(ctx, fmt.Sprintf("%x", time.Now().UnixNano()))
	r, err := resolver.Open(ctx, cfg,
		resolver.WithPrompter(disambiguate.NewConsole(stdin, stderr)),
		resolver.WithMetrics(m),
	)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return apperrors.ExitCode(err)
	}
	defer r.Close()
	if opts.stats {
		defer r.Session().WriteJSON(stderr)
	}

	resolveOpts := resolver.Options{
		Batch:           cfg.Disambiguation.Batch,
		AcceptSubregion: cfg.Disambiguation.AcceptSubregion,
	}
	for _, term := range terms {
		code, err := r.Resolve(ctx, term, resolveOpts)
		if err != nil {
			slog.Error("resolution failed", "text", term, "error", err)
			return apperrors.ExitCode(err)
		}
		name := ""
		if code != "" {
			name, err = r.Name(code, cfg.Reference.NameStyle, cfg.Reference.Language)
			if err != nil {
				slog.Warn("no display name", "code", code, "error", err)
				name = ""
			}
		}
		fmt.Fprintf(stdout, "%s\t%s\n", code, name)
	}
	return apperrors.ExitOK
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.batch {
		cfg.Disambiguation.Batch = true
	}
	if opts.acceptSubregion {
		cfg.Disambiguation.AcceptSubregion = true
	}
	if opts.cachePath != "" {
		cfg.Cache.Backend = config.BackendFile
		cfg.Cache.Path = opts.cachePath
	}
	if opts.style != "" {
		cfg.Reference.NameStyle = opts.style
	}
	if opts.lang != "" {
		cfg.Reference.Language = opts.lang
	}
}

func listSources(cfg *config.Config, stdout io.Writer) int {
	catalog, err := reference.Open(cfg.Reference.DataDir)
	if err != nil {
		slog.Error("failed to open reference data", "error", err)
		return apperrors.ExitCode(err)
	}
	keys, err := catalog.Keys()
	if err != nil {
		slog.Error("failed to list sources", "error", err)
		return apperrors.ExitCode(err)
	}
	for _, key := range keys {
		fmt.Fprintln(stdout, key.String())
	}
	return apperrors.ExitOK
}
