package index

import (
	"fmt"

	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

// Record maps one normalized name in one language to a region code.
type Record struct {
	Code      string
	Subregion bool
	Language  string
	Name      string
}

type recordKey struct {
	language string
	name     string
}

// Corpus is an ordered set of records keyed by (Language, Name). Adding a
// record whose key already exists replaces the earlier value in place, so
// records loaded later (the learning cache) win over the base data.
type Corpus struct {
	records []Record
	pos     map[recordKey]int
}

func NewCorpus() *Corpus {
	return &Corpus{pos: make(map[recordKey]int)}
}

// Add inserts or replaces r. Empty names are rejected.
func (c *Corpus) Add(r Record) error {
	if r.Name == "" {
		return apperrors.Newf(apperrors.ErrDataIntegrity, "empty name for code %q (%s)", r.Code, r.Language)
	}
	k := recordKey{language: r.Language, name: r.Name}
	if i, ok := c.pos[k]; ok {
		c.records[i] = r
		return nil
	}
	c.pos[k] = len(c.records)
	c.records = append(c.records, r)
	return nil
}

// AddAll adds records in order, stopping at the first error.
func (c *Corpus) AddAll(records []Record) error {
	for i, r := range records {
		if err := c.Add(r); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func (c *Corpus) Len() int {
	return len(c.records)
}

// Records returns the records in insertion order.
func (c *Corpus) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Language returns the records tagged with lang, in insertion order.
func (c *Corpus) Language(lang string) []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if r.Language == lang {
			out = append(out, r)
		}
	}
	return out
}
