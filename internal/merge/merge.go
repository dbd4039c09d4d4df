// Package merge reconciles two independently sampled feed streams — a
// temperature channel and a humidity channel — into one per-minute
// timeline with per-sensor values and validity flags.
//
// Two historical record layouts are handled: the packed layout, where
// field2/field3 carry comma-joined values for every sensor, and the legacy
// layout with one field per sensor. The legacy path treats an exact 0 as
// an invalid placeholder rather than a real reading; that matches what the
// old firmware emitted on sensor dropout and is preserved on purpose.
package merge

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/luki/telemerge/internal/feed"
)

const (
	// DefaultSensorCount is the number of probes on the deployed boards.
	DefaultSensorCount = 5

	// legacyFieldCap bounds per-field addressing in the legacy and
	// humidity layouts regardless of the configured sensor count.
	legacyFieldCap = 8
)

// Config carries the merge parameters. The zero value gets
// DefaultSensorCount.
type Config struct {
	SensorCount int
}

// Skip records one reading that was dropped because its timestamp could
// not be parsed. Dropping is per-reading and never aborts the merge.
type Skip struct {
	Feed      string // "temperature" or "humidity"
	Index     int    // position in the input feed
	CreatedAt string
	Reason    string
}

// Result is the output of one merge pass.
type Result struct {
	Records []Record
	Skipped []Skip
}

// MinuteKey buckets a timestamp to its nearest whole minute
// (half-away-from-zero). Readings from different feeds landing in the
// same bucket coalesce into one record.
func MinuteKey(t time.Time) int64 {
	return int64(math.Round(float64(t.Unix()) / 60.0))
}

// Merge runs a full two-phase pass: temperature feed first, then humidity
// feed, then finalisation. The result is sorted ascending by timestamp,
// ties kept in insertion order. Nil or empty feeds simply contribute
// nothing; merging two empty feeds yields an empty result.
func Merge(cfg Config, tempFeed, humFeed []feed.RawReading) Result {
	if cfg.SensorCount <= 0 {
		cfg.SensorCount = DefaultSensorCount
	}
	m := merger{
		cfg:   cfg,
		byKey: make(map[int64]*recordState),
	}
	m.ingestTemperature(tempFeed)
	m.ingestHumidity(humFeed)
	return m.finalize()
}

type recordState struct {
	timestamp time.Time
	slots     []Slot
	flags     []Flag
}

type merger struct {
	cfg     Config
	byKey   map[int64]*recordState
	order   []*recordState
	skipped []Skip
}

// state returns the record for ts's minute bucket, creating it with ts as
// the record timestamp on first sight.
func (m *merger) state(ts time.Time) *recordState {
	key := MinuteKey(ts)
	if st, ok := m.byKey[key]; ok {
		return st
	}
	st := &recordState{
		timestamp: ts,
		slots:     make([]Slot, m.cfg.SensorCount),
		flags:     make([]Flag, m.cfg.SensorCount),
	}
	m.byKey[key] = st
	m.order = append(m.order, st)
	return st
}

// legacyLimit is the sensor range for one-field-per-sensor layouts.
func (m *merger) legacyLimit() int {
	if m.cfg.SensorCount < legacyFieldCap {
		return m.cfg.SensorCount
	}
	return legacyFieldCap
}

func (m *merger) skip(feedName string, idx int, createdAt string, err error) {
	m.skipped = append(m.skipped, Skip{
		Feed:      feedName,
		Index:     idx,
		CreatedAt: createdAt,
		Reason:    err.Error(),
	})
}

func (m *merger) ingestTemperature(readings []feed.RawReading) {
	var policy FirstTouchFlag
	for i, r := range readings {
		ts, err := feed.ParseTimestamp(r.CreatedAt)
		if err != nil {
			m.skip("temperature", i, r.CreatedAt, err)
			continue
		}
		st := m.state(ts)

		if f2 := r.Field2; f2 != nil && strings.Contains(*f2, ",") {
			// Packed layout: field2 = temps, field3 = humidities.
			tParts := strings.Split(*f2, ",")
			f3 := ""
			if r.Field3 != nil {
				f3 = *r.Field3
			}
			rhParts := strings.Split(f3, ",")
			for s := 1; s <= m.cfg.SensorCount; s++ {
				var tv, hv *float64
				if s-1 < len(tParts) {
					tv = feed.ParseValue(&tParts[s-1])
				}
				if s-1 < len(rhParts) {
					hv = feed.ParseValue(&rhParts[s-1])
				}
				st.slots[s-1].Temp = tv
				st.slots[s-1].Hum = hv
				policy.Apply(&st.flags[s-1], tv != nil || hv != nil)
			}
			continue
		}

		// Legacy layout: one temperature per field, zero is a dropout
		// placeholder.
		for s := 1; s <= m.legacyLimit(); s++ {
			v := feed.ParseValue(r.Field(s))
			st.slots[s-1].Temp = v
			policy.Apply(&st.flags[s-1], v != nil && *v != 0)
		}
	}
}

func (m *merger) ingestHumidity(readings []feed.RawReading) {
	var policy OverridingFlag
	for i, r := range readings {
		ts, err := feed.ParseTimestamp(r.CreatedAt)
		if err != nil {
			m.skip("humidity", i, r.CreatedAt, err)
			continue
		}
		st := m.state(ts)

		for s := 1; s <= m.legacyLimit(); s++ {
			v := feed.ParseValue(r.Field(s))
			st.slots[s-1].Hum = v
			policy.Apply(&st.flags[s-1], v != nil && *v != 0)
		}
	}
}

func (m *merger) finalize() Result {
	records := make([]Record, 0, len(m.order))
	for _, st := range m.order {
		for i := range st.slots {
			st.slots[i].OK = st.flags[i].OK
		}
		records = append(records, Record{
			Timestamp: st.timestamp,
			Sensors:   st.slots,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return Result{Records: records, Skipped: m.skipped}
}
