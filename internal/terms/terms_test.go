package terms_test

import (
	"reflect"
	"strings"
	"testing"

	"romfind/internal/terms"
)

func TestLineNormalization(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation to spaces", "Ms. Pac-Man", "ms pac man"},
		{"collapses whitespace", "  Street\t\tFighter   II ", "street fighter ii"},
		{"lowercases", "GALAGA", "galaga"},
		{"keeps digits and underscores", "missing_game_xyz 100", "missing_game_xyz 100"},
		{"folds diacritics", "Pokémon", "pokemon"},
		{"empty", "", ""},
		{"only punctuation", "!!! --- ???", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := terms.Line(tc.input); got != tc.want {
				t.Fatalf("Line(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestLineIsIdempotent(t *testing.T) {
	inputs := []string{"Ms. Pac-Man", "galaga '88", "R-Type Leo", "1943: The Battle of Midway"}
	for _, input := range inputs {
		once := terms.Line(input)
		if twice := terms.Line(once); twice != once {
			t.Fatalf("Line not idempotent for %q: %q != %q", input, twice, once)
		}
	}
}

func TestNormalizeDeduplicatesPreservingOrder(t *testing.T) {
	n := terms.NewNormalizer()

	got := n.Normalize("Pac-Man\npacman\nPAC MAN")
	// "pacman" and "pac man" are distinct keys; "Pac-Man" and "PAC MAN"
	// collapse to the same one.
	want := []string{"pac man", "pacman"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}

	got = n.Normalize("Pac-Man\nGalaga")
	want = []string{"pac man", "galaga"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeDropsEmptyLines(t *testing.T) {
	n := terms.NewNormalizer()
	got := n.Normalize("\n\nGalaga\n   \n---\n")
	if !reflect.DeepEqual(got, []string{"galaga"}) {
		t.Fatalf("Normalize = %v, want [galaga]", got)
	}
	if out := n.Normalize("\n \n"); len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
}

func TestNormalizeMemoReturnsStableCopies(t *testing.T) {
	n := terms.NewNormalizer()
	raw := "Pac-Man\nGalaga"

	first := n.Normalize(raw)
	first[0] = "mutated"

	second := n.Normalize(raw)
	if second[0] != "pac man" {
		t.Fatalf("memoized result was corrupted by caller mutation: %v", second)
	}
}

func TestNormalizeHandlesCarriageReturns(t *testing.T) {
	n := terms.NewNormalizer()
	got := n.Normalize("Pac-Man\r\nGalaga\r")
	want := []string{"pac man", "galaga"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeLargeBatch(t *testing.T) {
	n := terms.NewNormalizer()
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("Game Title ")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte('\n')
	}
	got := n.Normalize(b.String())
	if len(got) != 26 {
		t.Fatalf("expected 26 distinct terms, got %d", len(got))
	}
}
