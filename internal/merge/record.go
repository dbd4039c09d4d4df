package merge

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/luki/telemerge/internal/feed"
)

// Slot holds one sensor's merged state for a single minute. Temp and Hum
// are nil when that channel never produced a value for the minute.
type Slot struct {
	Temp *float64
	Hum  *float64
	OK   bool
}

// Record is one row of the merged timeline. Sensors always has exactly
// SensorCount entries; index 0 is sensor 1.
type Record struct {
	Timestamp time.Time
	Sensors   []Slot
}

// Temp returns sensor s's temperature (1-based), or nil.
func (r Record) Temp(s int) *float64 {
	if s < 1 || s > len(r.Sensors) {
		return nil
	}
	return r.Sensors[s-1].Temp
}

// Hum returns sensor s's relative humidity (1-based), or nil.
func (r Record) Hum(s int) *float64 {
	if s < 1 || s > len(r.Sensors) {
		return nil
	}
	return r.Sensors[s-1].Hum
}

// OK reports sensor s's validity flag (1-based).
func (r Record) OK(s int) bool {
	if s < 1 || s > len(r.Sensors) {
		return false
	}
	return r.Sensors[s-1].OK
}

// MarshalJSON writes the record in the flat t{s}/rh{s}/ok{s} layout the
// dashboards consume, with keys in a fixed order so repeated merges are
// byte-identical.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, `{"timestamp":%q`, r.Timestamp.UTC().Format(feed.OutLayout))
	for i, s := range r.Sensors {
		n := i + 1
		fmt.Fprintf(&b, `,"t%d":%s`, n, jsonNumber(s.Temp))
		fmt.Fprintf(&b, `,"rh%d":%s`, n, jsonNumber(s.Hum))
		ok := 0
		if s.OK {
			ok = 1
		}
		fmt.Fprintf(&b, `,"ok%d":%d`, n, ok)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func jsonNumber(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
