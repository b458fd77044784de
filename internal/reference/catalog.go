package reference

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sort"

	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

// BaseFile is the corpus every resolver indexes.
const BaseFile = "isostate.csv"

var sourcePattern = regexp.MustCompile(`^1\.([a-z-]+)\.([a-z]{2})\.csv$`)

//go:embed data/*.csv
var embedded embed.FS

// Key identifies a display name source.
type Key struct {
	Style    string
	Language string
}

func (k Key) String() string {
	return k.Style + "." + k.Language
}

func (k Key) filename() string {
	return "1." + k.Style + "." + k.Language + ".csv"
}

// Catalog discovers and reads reference files from a filesystem.
type Catalog struct {
	fsys   fs.FS
	origin string
	logger *slog.Logger
}

// Embedded returns the catalog compiled into the binary.
func Embedded() *Catalog {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("embedded reference data: %v", err))
	}
	return NewCatalog(sub, "embedded")
}

// Open returns the catalog in dir, or the embedded one when dir is empty.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return Embedded(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, "data directory %s: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, "data directory %s is not a directory", dir)
	}
	return NewCatalog(os.DirFS(dir), dir), nil
}

func NewCatalog(fsys fs.FS, origin string) *Catalog {
	return &Catalog{
		fsys:   fsys,
		origin: origin,
		logger: slog.Default().With("component", "reference", "origin", origin),
	}
}

func (c *Catalog) Origin() string {
	return c.origin
}

// Keys lists every available source, sorted by style then language.
func (c *Catalog) Keys() ([]Key, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, "listing %s: %v", c.origin, err)
	}
	var keys []Key
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := sourcePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		keys = append(keys, Key{Style: m[1], Language: m[2]})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Style != keys[j].Style {
			return keys[i].Style < keys[j].Style
		}
		return keys[i].Language < keys[j].Language
	})
	return keys, nil
}

// Rows reads the source for key.
func (c *Catalog) Rows(key Key) ([]Row, error) {
	return c.read(key.filename())
}

// Base reads the base corpus.
func (c *Catalog) Base() ([]Row, error) {
	return c.read(BaseFile)
}

func (c *Catalog) read(name string) ([]Row, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, "%s not found in %s", name, c.origin)
		}
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, "opening %s: %v", name, err)
	}
	defer f.Close()
	rows, err := ParseRows(f, name)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("loaded entries", "source", name, "count", len(rows))
	return rows, nil
}
