package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// ApplySureMarkdown runs the certain pass over the prose of a CommonMark
// document. Code spans, code blocks and raw HTML keep their bytes, as does
// everything else outside prose segments: the document is spliced back from
// the original source, with only the replaced segments swapped in.
func (p *Pipeline) ApplySureMarkdown(text string) (string, int, error) {
	source := []byte(text)
	doc := goldmark.New().Parser().Parse(gtext.NewReader(source))

	var segments []gtext.Segment
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindCodeSpan, ast.KindRawHTML:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			seg := n.(*ast.Text).Segment
			if seg.Len() > 0 {
				segments = append(segments, seg)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", 0, err
	}

	var (
		b     strings.Builder
		last  int
		count int
	)
	b.Grow(len(source))
	for _, seg := range segments {
		// Walk order is document order; guard against overlap anyway.
		if seg.Start < last || seg.Stop > len(source) {
			continue
		}
		b.Write(source[last:seg.Start])
		replaced, n, err := p.sure.Recover(string(source[seg.Start:seg.Stop]))
		if err != nil {
			return "", 0, err
		}
		b.WriteString(replaced)
		count += n
		last = seg.Stop
	}
	b.Write(source[last:])
	return b.String(), count, nil
}
