package words

import (
	"testing"
)

func TestYeOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase yo",
			input: "зелёный",
			want:  "зеленый",
		},
		{
			name:  "uppercase yo",
			input: "ЁЛКА",
			want:  "ЕЛКА",
		},
		{
			name:  "mixed case",
			input: "Ёжик нёс ёлку",
			want:  "Ежик нес елку",
		},
		{
			name:  "no marked letter",
			input: "привет",
			want:  "привет",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YeOf(tt.input)
			if got != tt.want {
				t.Errorf("YeOf(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasYo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"зелёный", true},
		{"Ёлка", true},
		{"зеленый", false},
		{"", false},
		{"e", false},
	}

	for _, tt := range tests {
		if got := HasYo(tt.input); got != tt.want {
			t.Errorf("HasYo(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "keeps words with ye, drops the rest",
			input: "Все пошли домой",
			want:  []string{"все"},
		},
		{
			name:  "lowercases before collecting",
			input: "ВСЕ и Еще",
			want:  []string{"все", "еще"},
		},
		{
			name:  "punctuation splits words",
			input: "небо,ветер;лес",
			want:  []string{"небо", "ветер", "лес"},
		},
		{
			name:  "duplicates collapse",
			input: "все все все",
			want:  []string{"все"},
		},
		{
			name:  "empty text",
			input: "",
			want:  nil,
		},
		{
			name:  "no matching words",
			input: "world 123 год",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCandidates(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractCandidates(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("ExtractCandidates(%q) missing %q", tt.input, w)
				}
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"зелёный", "Зелёный"},
		{"ВСЁ", "Всё"},
		{"всё равно", "Всё равно"},
		{"ч<е>м", "Ч<е>м"},
		{"ё", "Ё"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Capitalize(tt.input); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVariantsSure(t *testing.T) {
	got := VariantsSure("зелёный")
	want := []string{"зелёный", "ЗЕЛЁНЫЙ", "Зелёный"}
	if len(got) != len(want) {
		t.Fatalf("VariantsSure returned %d variants, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VariantsSure[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVariantsUnsure(t *testing.T) {
	// The stored form leads so dictionary casing is tried first.
	got := VariantsUnsure("всё")
	want := []string{"всё", "Всё", "ВСЁ"}
	if len(got) != len(want) {
		t.Fatalf("VariantsUnsure returned %d variants, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VariantsUnsure[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindWholeWord(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		word      string
		from      int
		wantStart int
		wantEnd   int
	}{
		{
			name:      "simple match",
			text:      "и все ушли",
			word:      "все",
			from:      0,
			wantStart: 3,
			wantEnd:   9,
		},
		{
			name:      "skips occurrence inside a longer word",
			text:      "совсем все",
			word:      "все",
			from:      0,
			wantStart: 13,
			wantEnd:   19,
		},
		{
			name:      "match at text start",
			text:      "все ушли",
			word:      "все",
			from:      0,
			wantStart: 0,
			wantEnd:   6,
		},
		{
			name:      "match at text end",
			text:      "ушли все",
			word:      "все",
			from:      0,
			wantStart: 9,
			wantEnd:   15,
		},
		{
			name:      "from skips earlier match",
			text:      "все и все",
			word:      "все",
			from:      1,
			wantStart: 10,
			wantEnd:   16,
		},
		{
			name:      "punctuation is a boundary",
			text:      "ну,все!",
			word:      "все",
			from:      0,
			wantStart: 5,
			wantEnd:   11,
		},
		{
			name:      "no match",
			text:      "совсем несовсем",
			word:      "все",
			from:      0,
			wantStart: -1,
			wantEnd:   -1,
		},
		{
			name:      "underscore blocks the boundary",
			text:      "все_таки",
			word:      "все",
			from:      0,
			wantStart: -1,
			wantEnd:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := FindWholeWord(tt.text, tt.word, tt.from)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("FindWholeWord(%q, %q, %d) = (%d, %d), want (%d, %d)",
					tt.text, tt.word, tt.from, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestReplaceWholeWord(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		word      string
		repl      string
		want      string
		wantCount int
	}{
		{
			name:      "replaces all bounded occurrences",
			text:      "все знали, что все ушли",
			word:      "все",
			repl:      "всё",
			want:      "всё знали, что всё ушли",
			wantCount: 2,
		},
		{
			name:      "leaves embedded occurrences alone",
			text:      "совсем все",
			word:      "все",
			repl:      "всё",
			want:      "совсем всё",
			wantCount: 1,
		},
		{
			name:      "no occurrences",
			text:      "ничего тут нет",
			word:      "все",
			repl:      "всё",
			want:      "ничего тут нет",
			wantCount: 0,
		},
		{
			name:      "replacement longer than source",
			text:      "чем дальше, тем лучше",
			word:      "чем",
			repl:      "ч<е>м",
			want:      "ч<е>м дальше, тем лучше",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := ReplaceWholeWord(tt.text, tt.word, tt.repl)
			if got != tt.want {
				t.Errorf("ReplaceWholeWord(%q, %q, %q) = %q, want %q",
					tt.text, tt.word, tt.repl, got, tt.want)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestIsWordChar(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'а', true},
		{'Ё', true},
		{'z', true},
		{'7', true},
		{'_', true},
		{' ', false},
		{',', false},
		{'<', false},
		{'—', false},
	}

	for _, tt := range tests {
		if got := IsWordChar(tt.r); got != tt.want {
			t.Errorf("IsWordChar(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
