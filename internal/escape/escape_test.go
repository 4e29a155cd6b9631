package escape

import (
	"testing"

	"github.com/akorchak/yodot/internal/pattern"
	"github.com/akorchak/yodot/internal/yobase"
)

const testEnds = ".,!?;–—…"

func testEngine() *Engine {
	first := yobase.NewDict()
	first.Add("чем", "ч<е>м")

	always := yobase.NewDict()
	always.Add("все", "вс<е>")

	return NewEngine(first, always, testEnds, pattern.NewCache(64))
}

func TestFirstWords(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "escapes after sentence end",
			text: "Так вышло. Чем дальше, тем лучше",
			want: "Так вышло. Ч<е>м дальше, тем лучше",
		},
		{
			name: "lowercase variant",
			text: "так… чем дальше",
			want: "так… ч<е>м дальше",
		},
		{
			name: "text start is not sentence-initial",
			text: "Чем дальше, тем лучше",
			want: "Чем дальше, тем лучше",
		},
		{
			name: "mid-sentence is left alone",
			text: "неясно чем кончилось",
			want: "неясно чем кончилось",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.FirstWords(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FirstWords(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAlways(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "escapes in any position",
			text: "и все ушли домой",
			want: "и вс<е> ушли домой",
		},
		{
			name: "before punctuation",
			text: "а все!",
			want: "а вс<е>!",
		},
		{
			name: "line start after newline",
			text: "дом\nвсе ушли",
			want: "дом\nвс<е> ушли",
		},
		{
			name: "every duplicate context is rewritten",
			text: "и все ушли, а потом и все вернулись",
			want: "и вс<е> ушли, а потом и вс<е> вернулись",
		},
		{
			name: "embedded occurrence untouched",
			text: "мы совсем устали",
			want: "мы совсем устали",
		},
		{
			name: "word at text end lacks a trailing delimiter",
			text: "ушли все",
			want: "ушли все",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Always(tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Always(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyRunsBothPasses(t *testing.T) {
	e := testEngine()

	text := "Вот. Чем мы хуже? И все пошли за ним"
	got, err := e.Apply(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Вот. Ч<е>м мы хуже? И вс<е> пошли за ним"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "lower marker",
			text: "ч<е>м дальше",
			want: "чем дальше",
		},
		{
			name: "upper marker",
			text: "Ч<Е>М ДАЛЬШЕ",
			want: "ЧЕМ ДАЛЬШЕ",
		},
		{
			name: "mixed markers",
			text: "Ч<е>м и вс<е>",
			want: "Чем и все",
		},
		{
			name: "no markers",
			text: "обычный текст",
			want: "обычный текст",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unescape(tt.text); got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	e := testEngine()

	texts := []string{
		"Так вышло. Чем дальше, тем лучше",
		"и все ушли, а чем кончилось — неясно",
		"Вот. Чем мы хуже? И все пошли за ним",
		"ничего подходящего здесь нет",
	}

	for _, text := range texts {
		escaped, err := e.Apply(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := Unescape(escaped); got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}

func TestUnescapeIdempotent(t *testing.T) {
	e := testEngine()
	escaped, err := e.Apply("и все ушли домой")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	once := Unescape(escaped)
	if twice := Unescape(once); twice != once {
		t.Errorf("second Unescape changed the text: %q → %q", once, twice)
	}
}
