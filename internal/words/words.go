// Package words provides the low-level text primitives shared by the
// restoration passes: candidate extraction, case variants, yo/ye form
// mapping, and whole-word matching with Unicode-aware boundaries.
package words

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordRunRegex matches a maximal run of word characters. Go's \w and \b are
// ASCII-only, so Cyrillic words need explicit Unicode classes.
var wordRunRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// yeReplacer rewrites the marked letter to its unmarked spelling.
var yeReplacer = strings.NewReplacer("ё", "е", "Ё", "Е")

// IsWordChar reports whether r counts as a word character for boundary
// purposes: Unicode letters, digits, and underscore.
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// YeOf returns s with every ё replaced by е and every Ё by Е.
func YeOf(s string) string {
	return yeReplacer.Replace(s)
}

// HasYo reports whether s contains the marked letter in either case.
func HasYo(s string) bool {
	return strings.ContainsRune(s, 'ё') || strings.ContainsRune(s, 'Ё')
}

// ExtractCandidates lowercases text, splits it into word runs, and returns
// the set of words containing е. Only these can intersect a table keyed by
// unmarked spellings.
func ExtractCandidates(text string) map[string]struct{} {
	found := wordRunRegex.FindAllString(strings.ToLower(text), -1)
	out := make(map[string]struct{}, len(found))
	for _, w := range found {
		if strings.ContainsRune(w, 'е') {
			out[w] = struct{}{}
		}
	}
	return out
}

// Capitalize uppercases the first rune and lowercases the rest. Multi-word
// strings keep later words lowercase ("всё равно" → "Всё равно").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// VariantsSure returns the case variants tried during unconditional
// replacement: lower, upper, capitalized.
func VariantsSure(w string) []string {
	return []string{strings.ToLower(w), strings.ToUpper(w), Capitalize(w)}
}

// VariantsUnsure returns the case variants tried during interactive
// replacement: the stored form itself, capitalized, upper.
func VariantsUnsure(w string) []string {
	return []string{w, Capitalize(w), strings.ToUpper(w)}
}

// FindWholeWord returns the byte span of the first whole-word occurrence of
// word in text at or after from, or (-1, -1) if there is none. A whole-word
// occurrence has no word character adjacent on either side.
func FindWholeWord(text, word string, from int) (int, int) {
	if word == "" || from > len(text) {
		return -1, -1
	}
	for i := from; i <= len(text)-len(word); {
		rel := strings.Index(text[i:], word)
		if rel < 0 {
			return -1, -1
		}
		start := i + rel
		end := start + len(word)
		if boundedAt(text, start, end) {
			return start, end
		}
		// Step one rune past the failed position, not past the whole
		// candidate: overlapping starts are still possible.
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return -1, -1
}

// ReplaceWholeWord replaces every whole-word occurrence of word in text with
// repl and returns the new text and the replacement count.
func ReplaceWholeWord(text, word, repl string) (string, int) {
	if word == "" {
		return text, 0
	}
	var b strings.Builder
	count := 0
	i := 0
	for {
		start, end := FindWholeWord(text, word, i)
		if start < 0 {
			break
		}
		b.WriteString(text[i:start])
		b.WriteString(repl)
		count++
		i = end
	}
	if count == 0 {
		return text, 0
	}
	b.WriteString(text[i:])
	return b.String(), count
}

// LeftBounded reports whether byte position start in text is preceded by a
// non-word rune or the text start.
func LeftBounded(text string, start int) bool {
	if start <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !IsWordChar(r)
}

// boundedAt reports whether text[start:end] is delimited by non-word runes
// (or the text edges) on both sides.
func boundedAt(text string, start, end int) bool {
	if !LeftBounded(text, start) {
		return false
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if IsWordChar(r) {
			return false
		}
	}
	return true
}
