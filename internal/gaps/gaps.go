// Package gaps finds coverage holes in a merged timeline: per-sensor
// chartable point counts and the largest timestamp gap between adjacent
// points, over a trailing window.
package gaps

import (
	"time"

	"github.com/luki/telemerge/internal/merge"
)

// SensorGap summarises one sensor's coverage inside the window.
type SensorGap struct {
	Sensor   int
	Points   int // records with a temperature value for this sensor
	MaxGap   time.Duration
	GapStart time.Time
	GapEnd   time.Time
}

// Report is the result of one gap analysis.
type Report struct {
	Total    int // records before windowing
	Filtered int // records inside the window
	From     time.Time
	To       time.Time
	Sensors  []SensorGap
}

// Analyze windows the merged records to the trailing window (anchored at
// the newest record; window <= 0 keeps everything) and scans each sensor
// for its largest gap between consecutive temperature points.
func Analyze(records []merge.Record, window time.Duration, sensorCount int) Report {
	rep := Report{Total: len(records)}
	if len(records) == 0 {
		return rep
	}

	filtered := records
	if window > 0 {
		cutoff := records[len(records)-1].Timestamp.Add(-window)
		start := 0
		for start < len(records) && records[start].Timestamp.Before(cutoff) {
			start++
		}
		filtered = records[start:]
	}
	rep.Filtered = len(filtered)
	if len(filtered) > 0 {
		rep.From = filtered[0].Timestamp
		rep.To = filtered[len(filtered)-1].Timestamp
	}

	for s := 1; s <= sensorCount; s++ {
		sg := SensorGap{Sensor: s}
		var prev time.Time
		var seen bool
		for _, r := range filtered {
			if r.Temp(s) == nil {
				continue
			}
			if seen {
				if gap := r.Timestamp.Sub(prev); gap > sg.MaxGap {
					sg.MaxGap = gap
					sg.GapStart = prev
					sg.GapEnd = r.Timestamp
				}
			}
			prev = r.Timestamp
			seen = true
			sg.Points++
		}
		rep.Sensors = append(rep.Sensors, sg)
	}
	return rep
}

// MissingAny counts records where at least one sensor in [lo, hi] has no
// temperature value.
func MissingAny(records []merge.Record, lo, hi int) int {
	count := 0
	for _, r := range records {
		for s := lo; s <= hi; s++ {
			if r.Temp(s) == nil {
				count++
				break
			}
		}
	}
	return count
}

// MissingAll counts records where every sensor in [lo, hi] has no
// temperature value.
func MissingAll(records []merge.Record, lo, hi int) int {
	count := 0
	for _, r := range records {
		all := true
		for s := lo; s <= hi; s++ {
			if r.Temp(s) != nil {
				all = false
				break
			}
		}
		if all {
			count++
		}
	}
	return count
}
