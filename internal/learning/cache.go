package learning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/reference"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// Decision is one answer to record: the original text the user typed and
// the code it resolved to. A blank Code records "none of the above".
type Decision struct {
	Code      string
	Subregion bool
	Language  string
	Name      string
}

func (d Decision) Row() reference.Row {
	row := reference.Row{Code: d.Code, Language: d.Language, Name: d.Name}
	if d.Subregion {
		row.Features = reference.SubregionFeature
	}
	return row
}

// BaseSource provides the base corpus rows.
type BaseSource interface {
	Base() ([]reference.Row, error)
}

// Reloader rebuilds whatever was built from LoadCorpus.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Cache merges the base corpus with the store's rows and triggers a reload
// after every append. A nil store makes appends memory-less: the reload still
// runs but nothing is learned.
type Cache struct {
	base     BaseSource
	store    Store
	reloader Reloader
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewCache(base BaseSource, store Store, m *metrics.Metrics) *Cache {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Cache{
		base:    base,
		store:   store,
		metrics: m,
		logger:  slog.Default().With("component", "learning-cache"),
	}
}

// SetReloader attaches the index owner. It is separate from NewCache because
// the owner itself loads its corpus from the cache.
func (c *Cache) SetReloader(r Reloader) {
	c.reloader = r
}

func (c *Cache) Store() Store {
	return c.store
}

// LoadCorpus returns the base rows followed by every cached row, so cached
// decisions override base entries with the same language and name.
func (c *Cache) LoadCorpus(ctx context.Context) (*index.Corpus, error) {
	rows, err := c.base.Base()
	if err != nil {
		return nil, fmt.Errorf("loading base corpus: %w", err)
	}
	baseCount := len(rows)
	if c.store != nil {
		cached, err := c.store.Rows(ctx)
		if err != nil {
			return nil, fmt.Errorf("replaying cache: %w", err)
		}
		rows = append(rows, cached...)
		c.logger.Debug("loaded entries", "source", c.store.Backend(), "count", len(cached))
	}
	records, err := reference.Records(rows)
	if err != nil {
		return nil, err
	}
	corpus := index.NewCorpus()
	if err := corpus.AddAll(records); err != nil {
		return nil, err
	}
	c.logger.Debug("corpus loaded", "base", baseCount, "total", corpus.Len())
	return corpus, nil
}

// Append persists d and reloads. Store and reload errors are returned.
func (c *Cache) Append(ctx context.Context, d Decision) error {
	row := d.Row()
	if _, err := row.Record(); err != nil {
		return err
	}
	if len(row.Language) != 2 {
		return apperrors.Newf(apperrors.ErrInvalidInput, "decision language %q is not two characters", row.Language)
	}
	if c.store != nil {
		backend := c.store.Backend()
		if err := c.store.Append(ctx, row); err != nil {
			c.metrics.CacheAppendsTotal.WithLabelValues(backend, metrics.StatusFailure).Inc()
			return fmt.Errorf("appending decision: %w", err)
		}
		c.metrics.CacheAppendsTotal.WithLabelValues(backend, metrics.StatusSuccess).Inc()
		c.logger.Debug("decision cached", "backend", backend, "code", d.Code, "name", d.Name)
	} else {
		c.metrics.CacheAppendsTotal.WithLabelValues("none", metrics.StatusSkipped).Inc()
	}
	if c.reloader == nil {
		return nil
	}
	if err := c.reloader.Reload(ctx); err != nil {
		return fmt.Errorf("reloading after append: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
