package ops

import (
	"os"

	"github.com/dustin/go-humanize"

	"github.com/akorchak/yodot/internal/yobase"
)

// TableStats describes one loaded table.
type TableStats struct {
	Table     string `json:"table"`
	Path      string `json:"path"`
	Required  bool   `json:"required"`
	Entries   int    `json:"entries"`
	Skipped   int    `json:"skipped"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
}

// DictStatsOutput contains the result of the DictStats operation.
type DictStatsOutput struct {
	Tables       []TableStats `json:"tables"`
	TotalEntries int          `json:"total_entries"`
}

// DictStats reports per-table entry counts and file sizes for the loaded
// tables, in canonical table order. Absent optional files report size zero.
func DictStats(tables *yobase.Tables) (*DictStatsOutput, error) {
	out := &DictStatsOutput{TotalEntries: tables.TotalEntries()}

	for _, name := range yobase.TableNames() {
		stats := tables.Stats[name]

		var size int64
		if info, err := os.Stat(stats.Path); err == nil {
			size = info.Size()
		}

		out.Tables = append(out.Tables, TableStats{
			Table:     name,
			Path:      stats.Path,
			Required:  stats.Required,
			Entries:   stats.Loaded,
			Skipped:   stats.Skipped,
			SizeBytes: size,
			Size:      humanize.Bytes(uint64(size)),
		})
	}

	return out, nil
}
