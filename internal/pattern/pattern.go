// Package pattern builds and caches the regular expressions derived from
// dictionary entries. Every dynamic expression goes through a bounded LRU so
// large dictionaries cannot pin unbounded compiled state.
package pattern

import (
	"regexp"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/words"
)

// wordClass matches a single word character. Go's \w is ASCII-only, which
// never matches Cyrillic, so the Unicode classes are spelled out.
const wordClass = `[\p{L}\p{N}_]`

// DefaultCacheSize bounds the compiled-expression cache when the caller does
// not configure one.
const DefaultCacheSize = 1024

// Cache is a thread-safe LRU of compiled expressions keyed by source text.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewCache creates a cache holding at most maxEntries compiled expressions.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{lru: lru.New(maxEntries)}
}

// Compile returns the compiled form of expr, reusing a cached copy when one
// exists. Expressions are built from quoted dictionary text, so a compile
// failure is an internal invariant violation, not bad input.
func (c *Cache) Compile(expr string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(expr); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.NewPatternCompile(expr, err)
	}
	c.lru.Add(expr, re)
	return re, nil
}

// CompoundExpr matches a hyphenated word whose prefix is the given unmarked
// form: `<ye>-<word run>`. The left word boundary cannot be expressed in RE2
// without lookbehind; callers filter matches with MatchesLeftBounded.
func CompoundExpr(ye string) string {
	return regexp.QuoteMeta(ye) + `-` + wordClass + `+`
}

// FirstWordExpr matches a word in sentence-initial position: a sentence-end
// character, one whitespace character, the word, then an after-word
// character (sentence end or space).
func FirstWordExpr(word, sentenceEnds string) string {
	return classOf(sentenceEnds) + `\s` + regexp.QuoteMeta(word) + classOf(sentenceEnds+" ")
}

// AlwaysExpr matches a word in any position: one whitespace character, the
// word, then an after-word character.
func AlwaysExpr(word, sentenceEnds string) string {
	return `\s` + regexp.QuoteMeta(word) + classOf(sentenceEnds+" ")
}

// classOf renders a literal rune set as a character class. Each rune is
// escaped individually; plain QuoteMeta leaves '-' bare, which would form
// ranges inside a class.
func classOf(set string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range set {
		if r == '-' {
			b.WriteString(`\-`)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteByte(']')
	return b.String()
}

// Matches returns the distinct substrings of text matched by re, in first
// occurrence order.
func Matches(re *regexp.Regexp, text string) []string {
	return dedupe(re.FindAllString(text, -1))
}

// MatchesLeftBounded returns the distinct matched substrings whose start is
// not preceded by a word character.
func MatchesLeftBounded(re *regexp.Regexp, text string) []string {
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}
	hits := make([]string, 0, len(locs))
	for _, loc := range locs {
		if words.LeftBounded(text, loc[0]) {
			hits = append(hits, text[loc[0]:loc[1]])
		}
	}
	return dedupe(hits)
}

// ReplaceHits applies the duplicate-handling substitution policy: every
// occurrence of each distinct hit is replaced by the hit with from rewritten
// to to inside it.
func ReplaceHits(text string, hits []string, from, to string) string {
	for _, hit := range hits {
		text = strings.ReplaceAll(text, hit, strings.ReplaceAll(hit, from, to))
	}
	return text
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
