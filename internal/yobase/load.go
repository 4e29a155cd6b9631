package yobase

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/akorchak/yodot/internal/errors"
	"github.com/akorchak/yodot/internal/words"
)

// bracketStripper removes the escape markers from a bracket form.
var bracketStripper = strings.NewReplacer("<", "", ">", "")

// PlainForm returns a bracket-form entry with all markers stripped
// (ч<е>м → чем).
func PlainForm(entry string) string {
	return bracketStripper.Replace(entry)
}

// LoadStats records the outcome of loading one table.
type LoadStats struct {
	Path     string `json:"path"`
	Required bool   `json:"required"`
	Loaded   int    `json:"loaded"`
	Skipped  int    `json:"skipped"`
}

// Tables bundles the six word tables plus per-table load stats.
type Tables struct {
	Sure         *Dict
	Unsure       *Dict
	Compound     *Dict
	Collocations *Dict
	Escape       *Dict
	EscapeFirst  *Dict

	Stats map[string]LoadStats
}

// TotalEntries returns the entry count across all tables.
func (t *Tables) TotalEntries() int {
	total := 0
	for _, d := range []*Dict{t.Sure, t.Unsure, t.Compound, t.Collocations, t.Escape, t.EscapeFirst} {
		total += d.Len()
	}
	return total
}

// tableSpec describes how one table file is read.
type tableSpec struct {
	name     string
	required bool
	byLine   bool // collocations and escape entries may contain spaces
	escape   bool // bracket-form table
	assign   func(*Tables, *Dict)
}

var tableSpecs = []tableSpec{
	{name: TableSure, required: true, assign: func(t *Tables, d *Dict) { t.Sure = d }},
	{name: TableUnsure, required: true, assign: func(t *Tables, d *Dict) { t.Unsure = d }},
	{name: TableCompound, byLine: true, assign: func(t *Tables, d *Dict) { t.Compound = d }},
	{name: TableCollocations, byLine: true, assign: func(t *Tables, d *Dict) { t.Collocations = d }},
	{name: TableEscape, byLine: true, escape: true, assign: func(t *Tables, d *Dict) { t.Escape = d }},
	{name: TableEscapeFirst, byLine: true, escape: true, assign: func(t *Tables, d *Dict) { t.EscapeFirst = d }},
}

// TableNames returns the table names in canonical order.
func TableNames() []string {
	names := make([]string, 0, len(tableSpecs))
	for _, spec := range tableSpecs {
		names = append(names, spec.name)
	}
	return names
}

// LoadTables reads all six tables from dir. The certain and uncertain tables
// are required: a missing file is fatal. The other four load as empty when
// absent. Malformed entries are skipped and counted, never fatal.
func LoadTables(dir string) (*Tables, error) {
	t := &Tables{Stats: make(map[string]LoadStats, len(tableSpecs))}
	for _, spec := range tableSpecs {
		path := filepath.Join(dir, spec.name+".txt")
		d, stats, err := loadTable(path, spec)
		if err != nil {
			return nil, err
		}
		stats.Path = path
		stats.Required = spec.required
		t.Stats[spec.name] = stats
		spec.assign(t, d)
	}
	return t, nil
}

func loadTable(path string, spec tableSpec) (*Dict, LoadStats, error) {
	d := NewDict()
	var stats LoadStats

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if spec.required {
				return nil, stats, errors.NewMissingDictionary(spec.name, path)
			}
			return d, stats, nil
		}
		return nil, stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !spec.byLine {
		scanner.Split(bufio.ScanWords)
	}
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			continue
		}
		// Decomposed е+◌̈ sequences fold into ё here so file encoding
		// quirks cannot split the tables.
		entry = norm.NFC.String(entry)
		key, ok := entryKey(entry, spec.escape)
		if !ok {
			stats.Skipped++
			continue
		}
		d.Add(key, entry)
		stats.Loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	return d, stats, nil
}

// entryKey derives the lookup key for an entry, reporting false for entries
// that cannot produce a distinct key.
func entryKey(entry string, escape bool) (string, bool) {
	if escape {
		key := PlainForm(entry)
		if key == entry || key == "" {
			return "", false
		}
		return key, true
	}
	if !words.HasYo(entry) {
		return "", false
	}
	return words.YeOf(entry), true
}
