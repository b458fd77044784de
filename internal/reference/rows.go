// Package reference reads the packaged reference data: the base corpus, the
// per-style display name sources, and the shared semicolon row format also
// used by the learning cache.
package reference

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

// SubregionFeature marks a row as a named subregion of its code.
const SubregionFeature = ">"

// Row is one `CODE; FEATURES; LANG; NAME` line. Name keeps its original
// spelling; it is normalized only when turned into a Record.
type Row struct {
	Code     string
	Features string
	Language string
	Name     string
}

func (r Row) Subregion() bool {
	return strings.Contains(r.Features, SubregionFeature)
}

// Blank reports whether the row records a confirmed "no match".
func (r Row) Blank() bool {
	return r.Code == ""
}

// Record converts the row into an index record keyed by its normalized name.
func (r Row) Record() (index.Record, error) {
	name := tokenizer.Normalize(r.Name)
	if name == "" {
		return index.Record{}, apperrors.Newf(apperrors.ErrDataIntegrity, "name %q normalizes to nothing", r.Name)
	}
	return index.Record{
		Code:      r.Code,
		Subregion: r.Subregion(),
		Language:  r.Language,
		Name:      name,
	}, nil
}

// Format renders the row as one line, blank codes as two spaces. Semicolons
// are dropped and line breaks become spaces, the same as normalization does,
// so the line parses back to the same normalized key.
func (r Row) Format() string {
	name := strings.Map(func(c rune) rune {
		switch c {
		case ';':
			return -1
		case '\n', '\r':
			return ' '
		}
		return c
	}, strings.TrimSpace(r.Name))
	return fmt.Sprintf("%2s; %s; %2s; %s\n", r.Code, r.Features, r.Language, name)
}

// ParseRow parses a single line. It fails on anything but four fields, on
// malformed codes or languages, and on names that normalize to nothing.
func ParseRow(line string) (Row, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ";")
	if len(fields) != 4 {
		return Row{}, apperrors.Newf(apperrors.ErrMalformedRow, "expected 4 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	row := Row{
		Code:     fields[0],
		Features: fields[1],
		Language: fields[2],
		Name:     fields[3],
	}
	if n := len(row.Code); n != 0 && n != 2 {
		return Row{}, apperrors.Newf(apperrors.ErrMalformedRow, "code %q is not two characters", row.Code)
	}
	if len(row.Language) != 2 {
		return Row{}, apperrors.Newf(apperrors.ErrMalformedRow, "language %q is not two characters", row.Language)
	}
	if tokenizer.Normalize(row.Name) == "" {
		return Row{}, apperrors.Newf(apperrors.ErrDataIntegrity, "name %q normalizes to nothing", row.Name)
	}
	return row, nil
}

// ParseRows reads every non-blank line of r. The first bad line aborts the
// whole read; source names the input in errors.
func ParseRows(r io.Reader, source string) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNo, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return rows, nil
}

// Records converts rows to index records, failing on the first bad row.
func Records(rows []Row) ([]index.Record, error) {
	out := make([]index.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
