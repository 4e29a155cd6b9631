// Package yobase holds the word tables driving restoration: certain and
// uncertain yo words, compounds, collocations, and the two escape tables.
package yobase

import (
	"sort"

	"github.com/akorchak/yodot/internal/words"
)

// Table names, also the file names (plus .txt) under the dictionary
// directory.
const (
	TableSure         = "yo_sure"
	TableUnsure       = "yo_unsure"
	TableCompound     = "yo_sure_compound"
	TableCollocations = "yo_sure_collocations"
	TableEscape       = "ye_sure"
	TableEscapeFirst  = "ye_sure_first_words"
)

// Dict is an insertion-ordered mapping from lookup key to stored form. For
// yo tables the key is the unmarked spelling and the value the marked one;
// for escape tables the key is the plain word and the value its bracket
// form. Iteration always follows file order, so every pass over a Dict is
// deterministic.
type Dict struct {
	values map[string]string
	pos    map[string]int
	keys   []string
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{
		values: make(map[string]string),
		pos:    make(map[string]int),
	}
}

// Add inserts or overwrites an entry. A duplicate key keeps its original
// position and takes the new value.
func (d *Dict) Add(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.pos[key] = len(d.keys)
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Lookup returns the stored form for key.
func (d *Dict) Lookup(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.keys)
}

// Keys returns the lookup keys in file order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Values returns the stored forms in file order.
func (d *Dict) Values() []string {
	out := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.values[k])
	}
	return out
}

// Intersect returns the stored forms of the entries whose keys occur as
// words in text, ordered by position in the table.
func (d *Dict) Intersect(text string) []string {
	type match struct {
		pos   int
		value string
	}
	var found []match
	for w := range words.ExtractCandidates(text) {
		if v, ok := d.values[w]; ok {
			found = append(found, match{pos: d.pos[w], value: v})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	out := make([]string, 0, len(found))
	for _, m := range found {
		out = append(out, m.value)
	}
	return out
}
