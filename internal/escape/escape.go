// Package escape shields ambiguous words from the interactive pass by
// rewriting them to a bracket form (чем → ч<е>м) that whole-word patterns
// cannot match, and removes the markers again afterwards.
package escape

import (
	"strings"

	"github.com/akorchak/yodot/internal/pattern"
	"github.com/akorchak/yodot/internal/words"
	"github.com/akorchak/yodot/internal/yobase"
)

// unescaper removes the bracket markers around the ambiguous letter.
var unescaper = strings.NewReplacer("<е>", "е", "<Е>", "Е")

// Engine applies the two escape passes for a fixed pair of tables.
type Engine struct {
	first        *yobase.Dict
	always       *yobase.Dict
	sentenceEnds string
	patterns     *pattern.Cache
}

// NewEngine builds an engine over the first-words and always tables.
func NewEngine(first, always *yobase.Dict, sentenceEnds string, cache *pattern.Cache) *Engine {
	return &Engine{
		first:        first,
		always:       always,
		sentenceEnds: sentenceEnds,
		patterns:     cache,
	}
}

// Apply runs the first-words pass and then the always pass.
func (e *Engine) Apply(text string) (string, error) {
	out, err := e.FirstWords(text)
	if err != nil {
		return "", err
	}
	return e.Always(out)
}

// FirstWords escapes table entries in sentence-initial position: preceded by
// sentence-end punctuation plus one whitespace character and followed by an
// after-word character.
func (e *Engine) FirstWords(text string) (string, error) {
	return e.applyTable(text, e.first, func(plain string) string {
		return pattern.FirstWordExpr(plain, e.sentenceEnds)
	})
}

// Always escapes table entries in any position: preceded by one whitespace
// character and followed by an after-word character.
func (e *Engine) Always(text string) (string, error) {
	return e.applyTable(text, e.always, func(plain string) string {
		return pattern.AlwaysExpr(plain, e.sentenceEnds)
	})
}

// Unescape removes every bracket marker. Also used to strip markers from
// display snippets; idempotent on marker-free text.
func Unescape(text string) string {
	return unescaper.Replace(text)
}

func (e *Engine) applyTable(text string, d *yobase.Dict, exprFor func(plain string) string) (string, error) {
	for _, bracketForm := range d.Values() {
		for _, variant := range words.VariantsSure(bracketForm) {
			plain := yobase.PlainForm(variant)
			if plain == variant {
				continue
			}
			re, err := e.patterns.Compile(exprFor(plain))
			if err != nil {
				return "", err
			}
			hits := pattern.Matches(re, text)
			if len(hits) == 0 {
				continue
			}
			text = pattern.ReplaceHits(text, hits, plain, variant)
		}
	}
	return text, nil
}
