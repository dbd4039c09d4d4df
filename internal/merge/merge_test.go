package merge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/telemerge/internal/feed"
)

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func reading(createdAt string, fields ...*string) feed.RawReading {
	r := feed.RawReading{CreatedAt: createdAt}
	for i, f := range fields {
		r.SetField(i+1, f)
	}
	return r
}

func TestMergePackedCSV(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", nil, str("21.5,22.0"), str("40,41")),
	}

	res := Merge(Config{SensorCount: 5}, tempFeed, nil)
	require.Len(t, res.Records, 1)
	require.Empty(t, res.Skipped)

	rec := res.Records[0]
	assert.Equal(t, time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC), rec.Timestamp)
	require.Len(t, rec.Sensors, 5)

	want := []Slot{
		{Temp: num(21.5), Hum: num(40), OK: true},
		{Temp: num(22.0), Hum: num(41), OK: true},
		{}, {}, {},
	}
	if diff := cmp.Diff(want, rec.Sensors); diff != "" {
		t.Errorf("sensors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeLegacyZeroIsInvalid(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", str("0")),
	}

	res := Merge(Config{SensorCount: 1}, tempFeed, nil)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	require.NotNil(t, rec.Temp(1))
	assert.Equal(t, 0.0, *rec.Temp(1))
	assert.False(t, rec.OK(1), "legacy zero must stay invalid")
}

func TestMergeLegacyNonZero(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", str("18.2"), str("19.1")),
	}

	res := Merge(Config{SensorCount: 3}, tempFeed, nil)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, 18.2, *rec.Temp(1))
	assert.True(t, rec.OK(1))
	assert.Equal(t, 19.1, *rec.Temp(2))
	assert.True(t, rec.OK(2))
	assert.Nil(t, rec.Temp(3))
	assert.False(t, rec.OK(3))
}

func TestMergeFirstTouchRule(t *testing.T) {
	// Two packed temperature readings land in the same minute bucket. The
	// second overwrites the values but must not revise the flag decided by
	// the first.
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:05Z", nil, str("21.5,22.0"), str("40,41")),
		reading("2026-02-25T10:00:25Z", nil, str("null,null"), str("null,null")),
	}

	res := Merge(Config{SensorCount: 2}, tempFeed, nil)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Nil(t, rec.Temp(1), "second reading overwrites values")
	assert.Nil(t, rec.Hum(1))
	assert.True(t, rec.OK(1), "flag from first reading survives")
	assert.True(t, rec.OK(2))
}

func TestMergeFirstTouchInvalidFirst(t *testing.T) {
	// The first reading decides the flag even when invalid; a later valid
	// temperature reading at the same key cannot upgrade it.
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:05Z", nil, str("null,null"), nil),
		reading("2026-02-25T10:00:25Z", nil, str("21.5,22.0"), str("40,41")),
	}

	res := Merge(Config{SensorCount: 2}, tempFeed, nil)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, 21.5, *rec.Temp(1))
	assert.False(t, rec.OK(1), "first-touch flag stays invalid")
}

func TestMergeHumidityOverrideRule(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", nil, str("null,null"), nil),
	}
	humFeed := []feed.RawReading{
		reading("2026-02-25T10:00:20Z", str("55.5"), str("0")),
	}

	res := Merge(Config{SensorCount: 2}, tempFeed, humFeed)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, 55.5, *rec.Hum(1))
	assert.True(t, rec.OK(1), "non-zero humidity upgrades the flag")

	require.NotNil(t, rec.Hum(2))
	assert.Equal(t, 0.0, *rec.Hum(2))
	assert.False(t, rec.OK(2), "zero humidity never sets the flag")
}

func TestMergeHumidityCreatesRecord(t *testing.T) {
	humFeed := []feed.RawReading{
		reading("2026-02-25T11:00:00Z", str("60")),
	}

	res := Merge(Config{SensorCount: 2}, nil, humFeed)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Nil(t, rec.Temp(1))
	assert.Equal(t, 60.0, *rec.Hum(1))
	assert.True(t, rec.OK(1))
	assert.False(t, rec.OK(2))
}

func TestMergeShortCSVSplit(t *testing.T) {
	// Packed reading with fewer parts than sensors: trailing sensors stay
	// empty instead of blowing up.
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", nil, str("21.5,22.0"), str("40")),
	}

	res := Merge(Config{SensorCount: 5}, tempFeed, nil)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, 40.0, *rec.Hum(1))
	assert.Nil(t, rec.Hum(2))
	for s := 3; s <= 5; s++ {
		assert.Nil(t, rec.Temp(s))
		assert.Nil(t, rec.Hum(s))
		assert.False(t, rec.OK(s))
	}
}

func TestMergeSkipsBadTimestamps(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("not-a-timestamp", str("21")),
		reading("2026-02-25T10:00:00Z", str("22")),
	}
	humFeed := []feed.RawReading{
		reading("", str("50")),
	}

	res := Merge(Config{SensorCount: 1}, tempFeed, humFeed)
	require.Len(t, res.Records, 1)
	require.Len(t, res.Skipped, 2)

	assert.Equal(t, "temperature", res.Skipped[0].Feed)
	assert.Equal(t, 0, res.Skipped[0].Index)
	assert.Equal(t, "not-a-timestamp", res.Skipped[0].CreatedAt)
	assert.NotEmpty(t, res.Skipped[0].Reason)
	assert.Equal(t, "humidity", res.Skipped[1].Feed)
}

func TestMergeOrderingAndCompleteness(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:05:00Z", nil, str("22,23"), nil),
		reading("2026-02-25T10:00:00Z", nil, str("21,22"), nil),
		reading("2026-02-25T10:10:00Z", nil, str("23,24"), nil),
	}
	humFeed := []feed.RawReading{
		reading("2026-02-25T10:02:00Z", str("50"), str("51")),
	}

	res := Merge(Config{SensorCount: 4}, tempFeed, humFeed)
	require.Len(t, res.Records, 4)

	for i, rec := range res.Records {
		require.Len(t, rec.Sensors, 4, "record %d", i)
		if i > 0 {
			assert.False(t, rec.Timestamp.Before(res.Records[i-1].Timestamp),
				"records must be non-decreasing by timestamp")
		}
	}
}

func TestMergeEmptyFeeds(t *testing.T) {
	res := Merge(Config{SensorCount: 5}, nil, nil)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Skipped)
}

func TestMergeDeterministic(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", nil, str("21.5,22.0,23.1"), str("40,41,42")),
		reading("2026-02-25T10:01:00Z", str("20.9"), str("21.3")),
	}
	humFeed := []feed.RawReading{
		reading("2026-02-25T10:01:10Z", str("58"), str("0")),
	}

	first := Merge(Config{SensorCount: 3}, tempFeed, humFeed)
	a, err := json.Marshal(first.Records)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again := Merge(Config{SensorCount: 3}, tempFeed, humFeed)
		b, err := json.Marshal(again.Records)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "merge must be byte-identical")
	}
}

func TestMergeDefaultSensorCount(t *testing.T) {
	tempFeed := []feed.RawReading{
		reading("2026-02-25T10:00:00Z", nil, str("21,22"), nil),
	}
	res := Merge(Config{}, tempFeed, nil)
	require.Len(t, res.Records, 1)
	assert.Len(t, res.Records[0].Sensors, DefaultSensorCount)
}

func TestMinuteKey(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2026-02-25T10:00:00Z", 29533560},
		{"2026-02-25T10:00:29Z", 29533560},
		{"2026-02-25T10:00:31Z", 29533561}, // rounds up to the next minute
		{"2026-02-25T10:01:00Z", 29533561},
	}
	for _, tt := range tests {
		ts, err := feed.ParseTimestamp(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, MinuteKey(ts), "MinuteKey(%s)", tt.in)
	}
}
