// Package freshness reports how stale each station snapshot is: entry
// counts, the newest created_at stamp, its age, and when the snapshot was
// last downloaded.
package freshness

import (
	"fmt"
	"os"
	"time"

	"github.com/luki/telemerge/internal/config"
	"github.com/luki/telemerge/internal/feed"
	"github.com/luki/telemerge/internal/snapshot"
)

// Entry is one station's freshness line.
type Entry struct {
	Station    string
	Missing    bool   // no snapshot file
	Err        error  // snapshot present but unreadable
	Count      int    // entries in the active feed
	LatestRaw  string // newest created_at as stored
	Latest     time.Time
	Age        time.Duration
	Downloaded string
}

// Check inspects every configured station. Missing or broken snapshots
// produce report lines, not errors: one bad station must not hide the
// rest of the fleet.
func Check(cfg config.Config, now time.Time) []Entry {
	entries := make([]Entry, 0, len(cfg.Stations))
	for _, st := range cfg.Stations {
		entries = append(entries, checkStation(cfg, st, now))
	}
	return entries
}

func checkStation(cfg config.Config, st config.Station, now time.Time) Entry {
	e := Entry{Station: st.Name}

	doc, err := snapshot.Load(cfg.SnapshotPath(st))
	if err != nil {
		if os.IsNotExist(err) {
			e.Missing = true
		} else {
			e.Err = err
		}
		return e
	}

	e.Downloaded = doc.Downloaded()
	tempFeed, _ := doc.FeedPair()
	e.Count = len(tempFeed)
	if e.Count == 0 {
		return e
	}

	last := tempFeed[e.Count-1]
	e.LatestRaw = last.CreatedAt
	ts, err := feed.ParseTimestamp(last.CreatedAt)
	if err != nil {
		e.Err = err
		return e
	}
	e.Latest = ts
	e.Age = now.Sub(ts)
	return e
}

// FormatAge renders an age as "3d 4h 12m" (days omitted when zero).
func FormatAge(age time.Duration) string {
	total := int(age.Seconds())
	if total < 0 {
		total = 0
	}
	days := total / 86400
	rem := total % 86400
	h := rem / 3600
	m := rem % 3600 / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
