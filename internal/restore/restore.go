// Package restore implements the two recovery passes: unconditional
// replacement of certain words and decision-driven replacement of uncertain
// ones.
package restore

import "context"

// Proposal describes one uncertain occurrence awaiting a decision.
type Proposal struct {
	// Ye is the unmarked spelling as it occurs in the text.
	Ye string
	// Yo is the proposed replacement.
	Yo string
	// Before, Match, After are the display window segments with escape
	// markers already stripped.
	Before string
	Match  string
	After  string
}

// Decider resolves uncertain occurrences one at a time. Implementations may
// block (terminal prompt) and must honor ctx cancellation.
type Decider interface {
	Decide(ctx context.Context, p Proposal) (bool, error)
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(ctx context.Context, p Proposal) (bool, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, p Proposal) (bool, error) {
	return f(ctx, p)
}

// Summary counts what a restoration run did.
type Summary struct {
	SureReplacements int `json:"sure_replacements"`
	Offered          int `json:"offered"`
	Accepted         int `json:"accepted"`
	Declined         int `json:"declined"`
}
