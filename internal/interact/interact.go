// Package interact provides deciders for the uncertain pass: a terminal
// prompter and an accept-everything fallback for non-interactive runs.
package interact

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/akorchak/yodot/internal/restore"
)

const (
	ansiRed   = "\033[1;31m"
	ansiReset = "\033[0m"

	defaultColumns = 80
	defaultToken   = "ё"
)

// TerminalOptions configure a Terminal decider. Zero values fall back to
// stdin-style defaults; In and Out must be set by the caller.
type TerminalOptions struct {
	// In is the stream verdicts are read from, one line per occurrence.
	In io.Reader
	// Out is where prompts are written.
	Out io.Writer
	// Token is the reply that confirms a replacement. Defaults to "ё".
	// Comparison ignores case and surrounding whitespace.
	Token string
	// Color wraps the occurrence and notices in ANSI red.
	Color bool
	// Columns reports the terminal width for the separator line. Nil or
	// non-positive results fall back to 80 columns.
	Columns func() int
}

// Terminal prompts for every proposal and reads one verdict line per
// occurrence. Reads happen on a dedicated goroutine so a cancelled context
// interrupts a Decide that is waiting for input.
type Terminal struct {
	opts  TerminalOptions
	lines chan readLine
	start sync.Once
}

type readLine struct {
	text string
	err  error
}

// NewTerminal returns a terminal decider. The input goroutine starts on the
// first Decide call.
func NewTerminal(opts TerminalOptions) *Terminal {
	if opts.Token == "" {
		opts.Token = defaultToken
	}
	return &Terminal{opts: opts, lines: make(chan readLine)}
}

// Decide renders the occurrence window and prompt, then waits for a verdict
// line or context cancellation, whichever comes first. When the input stream
// ends mid-run the pending occurrence is declined and the stream error is
// returned, leaving the remaining text undecided.
func (t *Terminal) Decide(ctx context.Context, p restore.Proposal) (bool, error) {
	t.start.Do(t.startReader)

	match := p.Match
	if t.opts.Color {
		match = ansiRed + p.Match + ansiReset
	}
	fmt.Fprintf(t.opts.Out, "%s\n\n%s%s%s\n\n", t.separator(), p.Before, match, p.After)
	fmt.Fprintf(t.opts.Out, "%s → %s? ", p.Ye, p.Yo)

	select {
	case <-ctx.Done():
		// The pending read stays parked on the channel send until the
		// process exits.
		return false, ctx.Err()
	case res, ok := <-t.lines:
		if !ok {
			return false, io.EOF
		}
		answer := strings.TrimSpace(res.text)
		if answer == "" && res.err != nil {
			return false, res.err
		}
		return strings.EqualFold(answer, t.opts.Token), nil
	}
}

func (t *Terminal) startReader() {
	go func() {
		defer close(t.lines)
		r := bufio.NewReader(t.opts.In)
		for {
			line, err := r.ReadString('\n')
			t.lines <- readLine{text: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

// separator returns the underscore rule drawn before each occurrence, three
// quarters of the terminal width.
func (t *Terminal) separator() string {
	cols := defaultColumns
	if t.opts.Columns != nil {
		if c := t.opts.Columns(); c > 0 {
			cols = c
		}
	}
	return strings.Repeat("_", int(math.Round(float64(cols)*0.75)))
}

// AcceptAll accepts every proposal without prompting. It backs the
// non-interactive confirm-everything mode.
type AcceptAll struct{}

// Decide always accepts, unless the context is already done.
func (AcceptAll) Decide(ctx context.Context, _ restore.Proposal) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// CompletionNotice prints the bilingual end-of-run message after an
// interactive pass.
func CompletionNotice(w io.Writer, color bool) {
	red, reset := "", ""
	if color {
		red, reset = ansiRed, ansiReset
	}
	fmt.Fprintf(w, "\n%s<Ё> recovery complete!%s\n", red, reset)
	fmt.Fprintf(w, "%sРасстановка точек над <Ё> завершена!%s\n", red, reset)
}
