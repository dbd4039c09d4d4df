// Package chart renders sparklines over merged feed timelines with
// colour-coded value scales, gap markers for missing samples, and
// timeline labels.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Point is one chartable sample. Value is nil where the merged record had
// no reading for the sensor; OK mirrors the record's validity flag.
type Point struct {
	Value *float64
	Time  time.Time
	OK    bool
}

// Channel selects the colour scale for a series.
type Channel int

const (
	Temperature Channel = iota
	Humidity
)

// ValueColor returns the colour for a value on the given channel's scale.
func ValueColor(ch Channel, v float64) lipgloss.Color {
	if ch == Humidity {
		switch {
		case v < 20:
			return lipgloss.Color("208") // dangerously dry
		case v < 35:
			return lipgloss.Color("220")
		case v > 90:
			return lipgloss.Color("39") // saturated
		default:
			return lipgloss.Color("78")
		}
	}
	switch {
	case v >= 38:
		return lipgloss.Color("196")
	case v >= 33:
		return lipgloss.Color("208")
	case v >= 29:
		return lipgloss.Color("220")
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderSparkline renders a sparkline for one sensor's series. Missing
// samples render as dim gap dashes; invalid (not-OK) samples render in a
// muted grey so dropouts are visible without hiding the raw value.
func RenderSparkline(points []Point, ch Channel, width int, rangeMin, rangeMax float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	for _, p := range points {
		if p.Value == nil {
			sb.WriteString(dim.Render("╌"))
			continue
		}

		norm := (*p.Value - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		block := string(sparkBlocks[idx])
		if !p.OK {
			sb.WriteString(muted.Render(block))
			continue
		}
		style := lipgloss.NewStyle().Foreground(ValueColor(ch, *p.Value))
		sb.WriteString(style.Render(block))
	}

	return sb.String()
}

// RenderTimeline renders HH:MM labels under the sparkline at hour
// boundaries (merged records are per-minute, so minute ticks would be
// every column).
func RenderTimeline(points []Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}
	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick
	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		isHourTick := p.Time.Minute() == 0
		if !isHourTick && i > 0 && !points[i-1].Time.IsZero() {
			isHourTick = p.Time.Hour() != points[i-1].Time.Hour()
		}
		if isHourTick {
			ticks = append(ticks, tick{pos: padLen + i, label: p.Time.Format("15:04")})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	return tickStyle.Render(string(line))
}

// RenderValue renders a single value with channel colour coding, or a dim
// placeholder when the value is missing.
func RenderValue(ch Channel, v *float64, ok bool) string {
	if v == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("   --  ")
	}
	unit := "°C"
	if ch == Humidity {
		unit = "%"
	}
	s := fmt.Sprintf("%5.1f%s", *v, unit)
	style := lipgloss.NewStyle().Foreground(ValueColor(ch, *v))
	if !ok {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	}
	return style.Render(s)
}

// Range returns a padded display range for a series, falling back to the
// given defaults when no values are present.
func Range(points []Point, defMin, defMax float64) (float64, float64) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	found := false
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		found = true
		lo = math.Min(lo, *p.Value)
		hi = math.Max(hi, *p.Value)
	}
	if !found {
		return defMin, defMax
	}
	if hi-lo < 1 {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}
