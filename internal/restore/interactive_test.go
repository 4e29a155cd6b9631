package restore

import (
	"context"
	"errors"
	"testing"

	"github.com/akorchak/yodot/internal/escape"
	"github.com/akorchak/yodot/internal/pattern"
	"github.com/akorchak/yodot/internal/yobase"
)

type entry struct{ key, value string }

// buildInteractive wires an uncertain-pass recoverer with the given unsure
// and escape entries.
func buildInteractive(unsure, first, always []entry, width int) *Interactive {
	u := yobase.NewDict()
	for _, e := range unsure {
		u.Add(e.key, e.value)
	}
	f := yobase.NewDict()
	for _, e := range first {
		f.Add(e.key, e.value)
	}
	a := yobase.NewDict()
	for _, e := range always {
		a.Add(e.key, e.value)
	}
	tables := &yobase.Tables{Unsure: u, Escape: a, EscapeFirst: f}
	cache := pattern.NewCache(64)
	eng := escape.NewEngine(f, a, ".,!?;–—…", cache)
	return NewInteractive(tables, eng, width)
}

func acceptAll(context.Context, Proposal) (bool, error)  { return true, nil }
func declineAll(context.Context, Proposal) (bool, error) { return false, nil }

func TestInteractiveRecoverVerdicts(t *testing.T) {
	unsure := []entry{{"все", "всё"}}
	text := "и все ушли, а все пришли"

	tests := []struct {
		name         string
		decide       func(context.Context, Proposal) (bool, error)
		want         string
		wantOffered  int
		wantAccepted int
		wantDeclined int
	}{
		{
			name:         "accept all",
			decide:       acceptAll,
			want:         "и всё ушли, а всё пришли",
			wantOffered:  2,
			wantAccepted: 2,
		},
		{
			name:         "decline all",
			decide:       declineAll,
			want:         "и все ушли, а все пришли",
			wantOffered:  2,
			wantDeclined: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildInteractive(unsure, nil, nil, 100)
			got, sum, err := r.Recover(context.Background(), text, DeciderFunc(tt.decide))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Recover(%q) = %q, want %q", text, got, tt.want)
			}
			if sum.Offered != tt.wantOffered || sum.Accepted != tt.wantAccepted || sum.Declined != tt.wantDeclined {
				t.Errorf("summary = %+v, want offered=%d accepted=%d declined=%d",
					sum, tt.wantOffered, tt.wantAccepted, tt.wantDeclined)
			}
		})
	}
}

func TestInteractiveRecoverMixedVerdicts(t *testing.T) {
	r := buildInteractive([]entry{{"все", "всё"}}, nil, nil, 100)

	calls := 0
	d := DeciderFunc(func(_ context.Context, p Proposal) (bool, error) {
		calls++
		return calls == 1, nil
	})

	got, sum, err := r.Recover(context.Background(), "и все ушли, а все пришли", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "и всё ушли, а все пришли"
	if got != want {
		t.Errorf("Recover = %q, want %q", got, want)
	}
	if sum.Offered != 2 || sum.Accepted != 1 || sum.Declined != 1 {
		t.Errorf("summary = %+v, want offered=2 accepted=1 declined=1", sum)
	}
}

func TestInteractiveRecoverVariantOrder(t *testing.T) {
	// The stored form is scanned before its capitalized variant, whatever
	// order the occurrences have in the text.
	r := buildInteractive([]entry{{"все", "всё"}}, nil, nil, 100)

	var offered []string
	d := DeciderFunc(func(_ context.Context, p Proposal) (bool, error) {
		offered = append(offered, p.Yo)
		return true, nil
	})

	got, _, err := r.Recover(context.Background(), "Все ушли и все пришли", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Всё ушли и всё пришли"
	if got != want {
		t.Errorf("Recover = %q, want %q", got, want)
	}
	if len(offered) != 2 || offered[0] != "всё" || offered[1] != "Всё" {
		t.Errorf("offered variants = %q, want [всё Всё]", offered)
	}
}

func TestInteractiveRecoverEscapedOccurrenceNotOffered(t *testing.T) {
	r := buildInteractive(
		[]entry{{"все", "всё"}},
		nil,
		[]entry{{"все", "вс<е>"}},
		100,
	)

	d := DeciderFunc(func(context.Context, Proposal) (bool, error) {
		t.Fatal("decider called for an escaped occurrence")
		return false, nil
	})

	text := "а все знают"
	got, sum, err := r.Recover(context.Background(), text, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("Recover(%q) = %q, want input unchanged", text, got)
	}
	if sum.Offered != 0 {
		t.Errorf("offered = %d, want 0", sum.Offered)
	}
}

func TestInteractiveRecoverWindowStripsMarkers(t *testing.T) {
	r := buildInteractive(
		[]entry{{"все", "всё"}},
		nil,
		[]entry{{"чем", "ч<е>м"}},
		100,
	)

	var got Proposal
	d := DeciderFunc(func(_ context.Context, p Proposal) (bool, error) {
		got = p
		return true, nil
	})

	out, _, err := r.Recover(context.Background(), "а чем хуже, все знают", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "а чем хуже, всё знают"; out != want {
		t.Errorf("Recover = %q, want %q", out, want)
	}
	if got.Before != "а чем хуже, " {
		t.Errorf("Before = %q, want %q", got.Before, "а чем хуже, ")
	}
	if got.Match != "все" {
		t.Errorf("Match = %q, want %q", got.Match, "все")
	}
	if got.After != " знают" {
		t.Errorf("After = %q, want %q", got.After, " знают")
	}
	if got.Ye != "все" || got.Yo != "всё" {
		t.Errorf("pair = %q → %q, want все → всё", got.Ye, got.Yo)
	}
}

func TestInteractiveRecoverNoCandidates(t *testing.T) {
	r := buildInteractive(
		[]entry{{"все", "всё"}},
		nil,
		[]entry{{"чем", "ч<е>м"}},
		100,
	)

	d := DeciderFunc(func(context.Context, Proposal) (bool, error) {
		t.Fatal("decider called with no candidates present")
		return false, nil
	})

	// "чем" would be escaped, but with no uncertain candidate the text must
	// come back byte for byte.
	text := "а чем хуже, никто не скажет"
	got, sum, err := r.Recover(context.Background(), text, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("Recover(%q) = %q, want input unchanged", text, got)
	}
	if sum.Offered != 0 {
		t.Errorf("offered = %d, want 0", sum.Offered)
	}
}

func TestInteractiveRecoverCancellation(t *testing.T) {
	r := buildInteractive([]entry{{"все", "всё"}}, nil, nil, 100)

	ctx, cancel := context.WithCancel(context.Background())
	d := DeciderFunc(func(context.Context, Proposal) (bool, error) {
		cancel()
		return true, nil
	})

	got, sum, err := r.Recover(ctx, "и все ушли, а все пришли", d)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	want := "и всё ушли, а все пришли"
	if got != want {
		t.Errorf("partial text = %q, want %q", got, want)
	}
	if sum.Offered != 1 || sum.Accepted != 1 {
		t.Errorf("summary = %+v, want offered=1 accepted=1", sum)
	}
}

func TestInteractiveRecoverDeciderError(t *testing.T) {
	r := buildInteractive([]entry{{"все", "всё"}}, nil, nil, 100)

	boom := errors.New("boom")
	calls := 0
	d := DeciderFunc(func(context.Context, Proposal) (bool, error) {
		calls++
		if calls == 2 {
			return false, boom
		}
		return true, nil
	})

	got, sum, err := r.Recover(context.Background(), "и все ушли, а все пришли", d)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	want := "и всё ушли, а все пришли"
	if got != want {
		t.Errorf("partial text = %q, want %q", got, want)
	}
	if sum.Offered != 2 || sum.Accepted != 1 {
		t.Errorf("summary = %+v, want offered=2 accepted=1", sum)
	}
}

func TestInteractiveRecoverAdjacentOccurrences(t *testing.T) {
	// Each occurrence is offered exactly once, including one at text start
	// and one at text end.
	r := buildInteractive([]entry{{"все", "всё"}}, nil, nil, 100)

	calls := 0
	d := DeciderFunc(func(context.Context, Proposal) (bool, error) {
		calls++
		return true, nil
	})

	got, _, err := r.Recover(context.Background(), "все все все", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "всё всё всё"
	if got != want {
		t.Errorf("Recover = %q, want %q", got, want)
	}
	if calls != 3 {
		t.Errorf("decider calls = %d, want 3", calls)
	}
}
