package tokenizer

import (
	"slices"
	"testing"
)

func collect(text string, sizes Sizes) []string {
	var out []string
	for g := range NGrams(text, sizes) {
		out = append(out, g)
	}
	return out
}

func TestNGramsPadsWordEdges(t *testing.T) {
	sizes, err := NewSizes(3)
	if err != nil {
		t.Fatalf("NewSizes: %v", err)
	}
	got := collect("Chad", sizes)
	want := []string{"  c", " ch", "cha", "had", "ad ", "d  "}
	if !slices.Equal(got, want) {
		t.Errorf("NGrams(chad, {3}) = %q, want %q", got, want)
	}
}

func TestNGramsCountPerWord(t *testing.T) {
	text := "marshall islands"
	got := collect(text, DefaultSizes())
	// Each word of length L yields L+k-1 grams per size k.
	want := 0
	for _, k := range []int{3, 5, 7} {
		want += len("marshall") + k - 1
		want += len("islands") + k - 1
	}
	if len(got) != want {
		t.Errorf("len(NGrams) = %d, want %d", len(got), want)
	}
	for _, g := range got {
		if n := len([]rune(g)); n != 3 && n != 5 && n != 7 {
			t.Errorf("gram %q has unexpected width %d", g, n)
		}
	}
}

func TestNGramsKeepsDuplicates(t *testing.T) {
	sizes, _ := NewSizes(1)
	got := collect("aaa", sizes)
	if !slices.Equal(got, []string{"a", "a", "a"}) {
		t.Errorf("NGrams(aaa, {1}) = %q", got)
	}
}

func TestNGramsNormalizesInput(t *testing.T) {
	sizes, _ := NewSizes(3)
	if a, b := collect(" KOREA (South) ", sizes), collect("korea south", sizes); !slices.Equal(a, b) {
		t.Errorf("grams differ for equivalent inputs: %q vs %q", a, b)
	}
}

func TestNGramsRestartable(t *testing.T) {
	seq := NGrams("tuvalu", DefaultSizes())
	var first, second []string
	for g := range seq {
		first = append(first, g)
	}
	for g := range seq {
		second = append(second, g)
	}
	if len(first) == 0 || !slices.Equal(first, second) {
		t.Errorf("second iteration differs: %d vs %d grams", len(first), len(second))
	}
}

func TestNGramsEarlyBreak(t *testing.T) {
	n := 0
	for range NGrams("marshall islands", DefaultSizes()) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iteration did not stop, n = %d", n)
	}
}

func TestNGramsMultibyte(t *testing.T) {
	sizes, _ := NewSizes(2)
	got := collect("Åx", sizes)
	want := []string{" å", "åx", "x "}
	if !slices.Equal(got, want) {
		t.Errorf("NGrams(Åx, {2}) = %q, want %q", got, want)
	}
}

func TestNewSizes(t *testing.T) {
	s, err := NewSizes(7, 3, 5, 3)
	if err != nil {
		t.Fatalf("NewSizes: %v", err)
	}
	if !slices.Equal(s.Widths(), []int{3, 5, 7}) {
		t.Errorf("Widths = %v", s.Widths())
	}
	if s.String() != "{3,5,7}" {
		t.Errorf("String = %q", s.String())
	}
	for _, bad := range [][]int{nil, {0}, {8}, {3, -1}} {
		if _, err := NewSizes(bad...); err == nil {
			t.Errorf("NewSizes(%v) accepted invalid sizes", bad)
		}
	}
}

func BenchmarkNGrams(b *testing.B) {
	texts := []string{"Marshall Islands", "Democratic Republic of the Congo", "Saint Vincent and the Grenadines"}
	sizes := DefaultSizes()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, text := range texts {
			for range NGrams(text, sizes) {
			}
		}
	}
}
