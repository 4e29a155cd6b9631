package restore

import (
	"strings"

	"github.com/akorchak/yodot/internal/pattern"
	"github.com/akorchak/yodot/internal/words"
	"github.com/akorchak/yodot/internal/yobase"
)

// Sure replaces certain words unconditionally. Certain words have exactly
// one valid spelling, so no escaping and no confirmation are involved.
type Sure struct {
	sure         *yobase.Dict
	compound     *yobase.Dict
	collocations *yobase.Dict
	patterns     *pattern.Cache
}

// NewSure builds the certain-pass recoverer over the loaded tables.
func NewSure(tables *yobase.Tables, cache *pattern.Cache) *Sure {
	return &Sure{
		sure:         tables.Sure,
		compound:     tables.Compound,
		collocations: tables.Collocations,
		patterns:     cache,
	}
}

// Recover replaces every certain occurrence in text and returns the new
// text and the replacement count. Compounds run first so their prefixes are
// already marked when singles are matched; collocations are always tried
// because their spaced keys never appear in the word set.
func (s *Sure) Recover(text string) (string, int, error) {
	text, count, err := s.recoverCompounds(text)
	if err != nil {
		return "", 0, err
	}

	candidates := s.sure.Intersect(text)
	candidates = append(candidates, s.collocations.Values()...)

	for _, stored := range candidates {
		for _, variant := range words.VariantsSure(stored) {
			ye := words.YeOf(variant)
			var n int
			text, n = words.ReplaceWholeWord(text, ye, variant)
			count += n
		}
	}
	return text, count, nil
}

// recoverCompounds rewrites hyphenated words whose first part is a compound
// entry, leaving the hyphen and continuation untouched.
func (s *Sure) recoverCompounds(text string) (string, int, error) {
	count := 0
	for _, stored := range s.compound.Values() {
		for _, variant := range words.VariantsSure(stored) {
			ye := words.YeOf(variant)
			re, err := s.patterns.Compile(pattern.CompoundExpr(ye))
			if err != nil {
				return "", 0, err
			}
			hits := pattern.MatchesLeftBounded(re, text)
			if len(hits) == 0 {
				continue
			}
			for _, hit := range hits {
				count += strings.Count(text, hit)
			}
			text = pattern.ReplaceHits(text, hits, ye, variant)
		}
	}
	return text, count, nil
}
