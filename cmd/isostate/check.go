package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/internal/resolver"
	"github.com/ianmackinnon/isostate/pkg/config"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
	"github.com/ianmackinnon/isostate/pkg/health"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

const checkTimeout = 10 * time.Second

// runCheck probes the reference data, the index, the display lookups and
// the cache backend, then prints the report. It fails only when a component
// is down.
func runCheck(ctx context.Context, cfg *config.Config, m *metrics.Metrics, stdout io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checker := health.NewChecker()
	r, openErr := resolver.Open(ctx, cfg, resolver.WithMetrics(m))
	if openErr != nil {
		checker.Register("resolver", func(context.Context) health.ComponentHealth {
			return health.Down(openErr.Error())
		})
	} else {
		defer r.Close()
		registerChecks(checker, r)
	}

	report := checker.Run(ctx)
	if err := report.WriteJSON(stdout); err != nil {
		slog.Error("failed to write report", "error", err)
		return apperrors.ExitError
	}
	if report.Status == health.StatusDown {
		return apperrors.ExitError
	}
	return apperrors.ExitOK
}

func registerChecks(checker *health.Checker, r *resolver.Resolver) {
	catalog := r.Catalog()

	checker.Register("reference", func(context.Context) health.ComponentHealth {
		rows, err := catalog.Base()
		if err != nil {
			return health.Down(err.Error())
		}
		return health.Up(fmt.Sprintf("%d base rows from %s", len(rows), catalog.Origin()))
	})

	checker.Register("iso_codes", func(context.Context) health.ComponentHealth {
		rows, err := catalog.Base()
		if err != nil {
			return health.Down(err.Error())
		}
		findings := reference.Audit(rows)
		if len(findings) == 0 {
			return health.Up("every code is ISO 3166-1 alpha-2")
		}
		result := health.Degraded(fmt.Sprintf("%d codes outside ISO 3166-1", len(findings)))
		for _, f := range findings {
			result.Details = append(result.Details, f.Message)
		}
		return result
	})

	checker.Register("index", func(context.Context) health.ComponentHealth {
		idx := r.Engine().Snapshot()
		if idx.Len() == 0 {
			return health.Down("index is empty")
		}
		return health.Up(fmt.Sprintf("%d names, %d grams, sizes %s", idx.Len(), idx.Grams(), idx.Sizes()))
	})

	checker.Register("lookups", func(ctx context.Context) health.ComponentHealth {
		keys, err := catalog.Keys()
		if err != nil {
			return health.Down(err.Error())
		}
		if err := r.AddLookups(ctx, keys...); err != nil {
			return health.Down(err.Error())
		}
		result := health.Up(fmt.Sprintf("%d sources", len(keys)))
		for _, key := range keys {
			result.Details = append(result.Details, key.String())
		}
		return result
	})

	checker.Register("cache", func(ctx context.Context) health.ComponentHealth {
		store := r.Store()
		if store == nil {
			return health.Up("disabled")
		}
		if err := store.Ping(ctx); err != nil {
			return health.Down(err.Error())
		}
		return health.Up(store.Backend())
	})
}
