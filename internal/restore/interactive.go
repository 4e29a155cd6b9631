package restore

import (
	"context"

	"github.com/akorchak/yodot/internal/escape"
	"github.com/akorchak/yodot/internal/words"
	"github.com/akorchak/yodot/internal/yobase"
)

// Interactive resolves uncertain words through a Decider, one occurrence at
// a time.
type Interactive struct {
	unsure *yobase.Dict
	esc    *escape.Engine
	width  int
}

// NewInteractive builds the uncertain-pass recoverer. width is the context
// window size in runes.
func NewInteractive(tables *yobase.Tables, esc *escape.Engine, width int) *Interactive {
	return &Interactive{unsure: tables.Unsure, esc: esc, width: width}
}

// Recover walks every whole-word occurrence of every uncertain candidate and
// applies the decider's verdicts. Candidates are collected from the raw text
// first; escaping then hides the false-positive contexts for the duration of
// the scan and is undone before returning.
//
// Occurrences are located against the current text on every step, so byte
// offsets never survive a mutation. A decided occurrence is never offered
// again: the scan cursor only moves forward. On cancellation the text is
// returned in its partially-decided state along with the context's error.
func (r *Interactive) Recover(ctx context.Context, text string, d Decider) (string, Summary, error) {
	var sum Summary

	candidates := r.unsure.Intersect(text)
	if len(candidates) == 0 {
		return text, sum, nil
	}

	work, err := r.esc.Apply(text)
	if err != nil {
		return "", sum, err
	}

	for _, stored := range candidates {
		for _, variant := range words.VariantsUnsure(stored) {
			ye := words.YeOf(variant)
			from := 0
			for {
				if err := ctx.Err(); err != nil {
					return escape.Unescape(work), sum, err
				}
				start, end := words.FindWholeWord(work, ye, from)
				if start < 0 {
					break
				}

				before, match, after := words.Window(work, start, end, r.width)
				sum.Offered++
				accept, err := d.Decide(ctx, Proposal{
					Ye:     ye,
					Yo:     variant,
					Before: escape.Unescape(before),
					Match:  escape.Unescape(match),
					After:  escape.Unescape(after),
				})
				if err != nil {
					return escape.Unescape(work), sum, err
				}

				if accept {
					work = work[:start] + variant + work[end:]
					from = start + len(variant)
					sum.Accepted++
				} else {
					from = end
					sum.Declined++
				}
			}
		}
	}

	return escape.Unescape(work), sum, nil
}
