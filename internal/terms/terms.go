package terms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"romfind/internal/memocache"
)

const memoCapacity = 100

// foldTransformer decomposes characters and strips combining marks so
// accented input ("Pokémon") matches its plain-ASCII search key.
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer converts raw multiline input into deduplicated search terms,
// memoizing recent inputs since debounced resubmissions of the identical
// string are common.
type Normalizer struct {
	memo *memocache.Cache[[]string]
}

// NewNormalizer constructs a Normalizer with a bounded memo.
func NewNormalizer() *Normalizer {
	return &Normalizer{memo: memocache.New[[]string](memoCapacity, 0)}
}

// Normalize splits raw input on line breaks, normalizes each line, drops
// lines that normalize to nothing, and deduplicates while preserving
// first-seen order. The result may be empty; that is the caller's validation
// concern, not an error here.
func (n *Normalizer) Normalize(raw string) []string {
	if cached, ok := n.memo.Get(raw); ok {
		out := make([]string, len(cached))
		copy(out, cached)
		return out
	}

	result := normalizeAll(raw)

	stored := make([]string, len(result))
	copy(stored, result)
	n.memo.Put(raw, stored)
	return result
}

func normalizeAll(raw string) []string {
	lines := strings.Split(raw, "\n")
	result := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		term := Line(line)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		result = append(result, term)
	}
	return result
}

// Line normalizes a single line: fold diacritics, lowercase, replace every
// non-word character with a space, collapse whitespace runs, and trim.
// Already-normalized text is a fixed point.
func Line(line string) string {
	folded, _, err := transform.String(foldTransformer, line)
	if err != nil {
		// Malformed input falls through un-folded; the character filter
		// below still bounds the output alphabet.
		folded = line
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range strings.ToLower(folded) {
		if isWordRune(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// isWordRune matches the word alphabet dataset search keys are built from.
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
