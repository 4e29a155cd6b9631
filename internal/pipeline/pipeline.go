// Package pipeline wires dictionaries, escape engine and recoverers into the
// restoration operations behind the CLI, API and MCP surfaces.
package pipeline

import (
	"context"

	"github.com/akorchak/yodot/internal/config"
	"github.com/akorchak/yodot/internal/escape"
	"github.com/akorchak/yodot/internal/pattern"
	"github.com/akorchak/yodot/internal/restore"
	"github.com/akorchak/yodot/internal/yobase"
)

// Pipeline bundles the passes over one set of loaded tables. Safe for
// concurrent use: all passes treat the tables as read-only and the pattern
// cache locks internally.
type Pipeline struct {
	tables *yobase.Tables
	sure   *restore.Sure
	inter  *restore.Interactive
}

// New wires a pipeline. One pattern cache is shared by the escape engine and
// both recoverers.
func New(tables *yobase.Tables, cfg *config.Config) *Pipeline {
	cache := pattern.NewCache(cfg.PatternCache)
	esc := escape.NewEngine(tables.EscapeFirst, tables.Escape, cfg.SentenceEnds, cache)
	return &Pipeline{
		tables: tables,
		sure:   restore.NewSure(tables, cache),
		inter:  restore.NewInteractive(tables, esc, cfg.PrintWidth),
	}
}

// ApplySure runs the certain pass: every occurrence of a word with exactly
// one valid spelling is replaced, no questions asked.
func (p *Pipeline) ApplySure(text string) (string, int, error) {
	return p.sure.Recover(text)
}

// Review runs the certain pass and then walks uncertain occurrences through
// the decider. On cancellation or decider failure the partially decided text
// is returned along with the error; escape markers never leak out.
func (p *Pipeline) Review(ctx context.Context, text string, d restore.Decider) (string, restore.Summary, error) {
	out, count, err := p.sure.Recover(text)
	if err != nil {
		return "", restore.Summary{}, err
	}
	out, sum, err := p.inter.Recover(ctx, out, d)
	sum.SureReplacements = count
	return out, sum, err
}

// Candidates returns the certain and uncertain dictionary words occurring in
// text, each list in table order. Both lists are non-nil.
func (p *Pipeline) Candidates(text string) (sure, unsure []string) {
	return p.tables.Sure.Intersect(text), p.tables.Unsure.Intersect(text)
}
