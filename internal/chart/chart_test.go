package chart

import (
	"strings"
	"testing"
	"time"
)

func num(f float64) *float64 { return &f }

func TestSparkline(t *testing.T) {
	base := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	var pts []Point
	for i := 0; i < 12; i++ {
		pts = append(pts, Point{
			Value: num(float64(20 + i)),
			Time:  base.Add(time.Duration(i) * time.Minute),
			OK:    true,
		})
	}

	result := RenderSparkline(pts, Temperature, 20, 15, 45)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineGapDashes(t *testing.T) {
	base := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	pts := []Point{
		{Value: num(21), Time: base, OK: true},
		{Value: nil, Time: base.Add(time.Minute)},
		{Value: num(22), Time: base.Add(2 * time.Minute), OK: true},
	}

	result := RenderSparkline(pts, Temperature, 3, 15, 45)
	if !strings.Contains(result, "╌") {
		t.Error("expected gap dash for missing sample")
	}
	t.Logf("Sparkline with gap: %s", result)
}

func TestSparklineEmpty(t *testing.T) {
	result := RenderSparkline(nil, Humidity, 10, 0, 100)
	if len(result) == 0 {
		t.Error("empty series should still render a placeholder line")
	}
	if RenderSparkline(nil, Humidity, 0, 0, 100) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestTimelineHourTicks(t *testing.T) {
	base := time.Date(2026, 2, 25, 9, 58, 0, 0, time.UTC)
	var pts []Point
	for i := 0; i < 10; i++ {
		pts = append(pts, Point{Value: num(21), Time: base.Add(time.Duration(i) * time.Minute), OK: true})
	}

	result := RenderTimeline(pts, 10)
	if !strings.Contains(result, "10:00") {
		t.Errorf("expected hour label in timeline, got %q", result)
	}
}

func TestRange(t *testing.T) {
	pts := []Point{
		{Value: num(20)},
		{Value: nil},
		{Value: num(30)},
	}
	lo, hi := Range(pts, 0, 100)
	if lo >= 20 || hi <= 30 {
		t.Errorf("range should pad beyond data: got [%f, %f]", lo, hi)
	}

	lo, hi = Range(nil, 15, 45)
	if lo != 15 || hi != 45 {
		t.Errorf("empty series should use defaults: got [%f, %f]", lo, hi)
	}
}

func TestRenderValue(t *testing.T) {
	if !strings.Contains(RenderValue(Temperature, num(21.5), true), "21.5") {
		t.Error("expected value in rendered output")
	}
	if !strings.Contains(RenderValue(Humidity, num(55), true), "%") {
		t.Error("expected humidity unit")
	}
	if !strings.Contains(RenderValue(Temperature, nil, false), "--") {
		t.Error("expected placeholder for missing value")
	}
}
