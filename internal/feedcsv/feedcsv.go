// Package feedcsv ingests ThingSpeak CSV exports (created_at, entry_id,
// field1..field5) into raw readings ready for snapshot injection. This is
// the fail-fast side of the pipeline: a CSV that cannot be read cleanly is
// an error, not something to merge around.
package feedcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/luki/telemerge/internal/feed"
)

// ReadFile loads all readings from a ThingSpeak CSV export. Timestamps
// are re-normalised to UTC Z form; empty cells become nil fields.
func ReadFile(path string) ([]feed.RawReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	tsCol, ok := col["created_at"]
	if !ok {
		return nil, fmt.Errorf("csv has no created_at column")
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	readings := make([]feed.RawReading, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if tsCol >= len(row) {
			return nil, fmt.Errorf("row %d: missing created_at", n+2)
		}
		ts, err := feed.ParseTimestamp(row[tsCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		r := feed.RawReading{CreatedAt: ts.UTC().Format(feed.OutLayout)}
		if v := cell(row, "entry_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad entry_id %q", n+2, v)
			}
			r.EntryID = id
		}
		for s := 1; s <= feed.MaxFields; s++ {
			if v := cell(row, fmt.Sprintf("field%d", s)); v != "" {
				r.SetField(s, &v)
			}
		}
		readings = append(readings, r)
	}
	return readings, nil
}
