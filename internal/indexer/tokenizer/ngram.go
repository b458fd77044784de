package tokenizer

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// MaxSize is the widest supported window.
const MaxSize = 7

// Sizes is an ordered set of n-gram window widths, fixed when an index is
// built.
type Sizes struct {
	widths []int
}

// DefaultSizes returns {3, 5, 7}.
func DefaultSizes() Sizes {
	return Sizes{widths: []int{3, 5, 7}}
}

// NewSizes validates and sorts widths, dropping duplicates.
func NewSizes(widths ...int) (Sizes, error) {
	if len(widths) == 0 {
		return Sizes{}, fmt.Errorf("at least one n-gram size is required")
	}
	out := slices.Clone(widths)
	slices.Sort(out)
	out = slices.Compact(out)
	for _, w := range out {
		if w < 1 || w > MaxSize {
			return Sizes{}, fmt.Errorf("n-gram size %d outside 1..%d", w, MaxSize)
		}
	}
	return Sizes{widths: out}, nil
}

// Widths returns a copy of the configured widths.
func (s Sizes) Widths() []int {
	return slices.Clone(s.widths)
}

func (s Sizes) String() string {
	parts := make([]string, len(s.widths))
	for i, w := range s.widths {
		parts[i] = fmt.Sprint(w)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// NGrams yields every n-gram of the normalized text, for each size in turn.
// Each word is padded with size-1 spaces on both sides so grams at a word's
// edges differ from grams in its middle. Duplicates are yielded as often as
// they occur. The sequence can be ranged over any number of times.
func NGrams(text string, sizes Sizes) iter.Seq[string] {
	words := strings.Fields(Normalize(text))
	return func(yield func(string) bool) {
		for _, size := range sizes.widths {
			pad := strings.Repeat(" ", size-1)
			for _, word := range words {
				padded := []rune(pad + word + pad)
				for i := 0; i+size <= len(padded); i++ {
					if !yield(string(padded[i : i+size])) {
						return
					}
				}
			}
		}
	}
}
