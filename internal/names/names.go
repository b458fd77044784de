// Package names renders region codes back into display names, one table per
// (style, language) reference source.
package names

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ianmackinnon/isostate/internal/reference"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

// Source provides parsed rows for a reference key.
type Source interface {
	Rows(key reference.Key) ([]reference.Row, error)
}

// Table holds reverse lookups loaded with AddLookup. It is safe for
// concurrent use.
type Table struct {
	mu      sync.RWMutex
	source  Source
	lookups map[reference.Key]map[string]string
	logger  *slog.Logger
}

func NewTable(source Source) *Table {
	return &Table{
		source:  source,
		lookups: make(map[reference.Key]map[string]string),
		logger:  slog.Default().With("component", "names"),
	}
}

// AddLookup loads the source for (style, lang). Loading a key twice is a
// no-op.
func (t *Table) AddLookup(style, lang string) error {
	key := reference.Key{Style: style, Language: lang}
	if t.loaded(key) {
		return nil
	}

	codes, err := Codes(t.source, key)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.lookups[key] = codes
	t.mu.Unlock()
	t.logger.Debug("lookup added", "key", key.String(), "codes", len(codes))
	return nil
}

// AddLookups loads several sources concurrently and fails if any does.
func (t *Table) AddLookups(ctx context.Context, keys ...reference.Key) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return t.AddLookup(key.Style, key.Language)
		})
	}
	return g.Wait()
}

// Name returns the display name of code in the (style, lang) lookup.
func (t *Table) Name(code, style, lang string) (string, error) {
	key := reference.Key{Style: style, Language: lang}
	t.mu.RLock()
	codes, ok := t.lookups[key]
	t.mu.RUnlock()
	if !ok {
		return "", apperrors.Newf(apperrors.ErrLookupNotFound, "lookup %s has not been added", key)
	}
	name, ok := codes[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrNameNotFound, "no %s name for code %q", key, code)
	}
	return name, nil
}

func (t *Table) loaded(key reference.Key) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.lookups[key]
	return ok
}

// Codes reads the source for key into a code -> name map. Rows with a blank
// code or a subregion flag are ignored; the first name for a code wins.
func Codes(source Source, key reference.Key) (map[string]string, error) {
	rows, err := source.Rows(key)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Blank() || row.Subregion() {
			continue
		}
		if _, ok := codes[row.Code]; ok {
			continue
		}
		codes[row.Code] = row.Name
	}
	return codes, nil
}
