// Package viewer implements the interactive snapshot browser TUI: merged
// per-minute records with time scrubbing, station switching, and
// per-sensor sparkline rows for both channels.
package viewer

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/telemerge/internal/chart"
	"github.com/luki/telemerge/internal/config"
	"github.com/luki/telemerge/internal/merge"
	"github.com/luki/telemerge/internal/snapshot"
)

// Run launches the snapshot browser. station selects the initial station
// by name; empty picks the first configured one.
func Run(cfg config.Config, station string) error {
	if len(cfg.Stations) == 0 {
		return fmt.Errorf("no stations configured")
	}

	stIdx := 0
	if station != "" {
		found := false
		for i, st := range cfg.Stations {
			if strings.EqualFold(st.Name, station) {
				stIdx = i
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown station %q", station)
		}
	}

	p := tea.NewProgram(
		initModel(cfg, stIdx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
)

// ── Model ────────────────────────────────────────────────────────────

type model struct {
	cfg     config.Config
	stIdx   int
	records []merge.Record
	skipped int
	channel chart.Channel
	cursor  int
	scroll  int
	width   int
	height  int
	err     error
}

func initModel(cfg config.Config, stIdx int) model {
	m := model{cfg: cfg, stIdx: stIdx}
	m.loadStation()
	return m
}

func (m *model) loadStation() {
	st := m.cfg.Stations[m.stIdx]
	doc, err := snapshot.Load(m.cfg.SnapshotPath(st))
	if err != nil {
		m.err = err
		m.records = nil
		m.skipped = 0
		m.cursor = 0
		return
	}
	m.err = nil

	tempFeed, humFeed := doc.FeedPair()
	res := merge.Merge(m.cfg.MergeConfig(), tempFeed, humFeed)
	m.records = res.Records
	m.skipped = len(res.Skipped)

	if len(m.records) > 0 {
		m.cursor = len(m.records) - 1
	} else {
		m.cursor = 0
	}
	m.scroll = 0
}

// ── Init / Update ────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case "shift+left", "H":
			m.cursor -= 60
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "shift+right", "L":
			m.cursor += 60
			if m.cursor >= len(m.records) {
				m.cursor = len(m.records) - 1
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.records) > 0 {
				m.cursor = len(m.records) - 1
			}

		case "t":
			if m.channel == chart.Temperature {
				m.channel = chart.Humidity
			} else {
				m.channel = chart.Temperature
			}

		case "[":
			if m.stIdx > 0 {
				m.stIdx--
				m.loadStation()
			}
		case "]":
			if m.stIdx < len(m.cfg.Stations)-1 {
				m.stIdx++
				m.loadStation()
			}

		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

func (m model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitle(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	if len(m.records) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(2, 0).
			Align(lipgloss.Center).
			Width(contentWidth).
			Render("No merged data for this station.")
		sections = append(sections, empty)
	} else {
		sections = append(sections, m.renderCursorInfo(contentWidth))
		sections = append(sections, m.renderSensorPanel(contentWidth))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}

	start := m.scroll
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m model) channelName() string {
	if m.channel == chart.Humidity {
		return "HUMIDITY"
	}
	return "TEMPERATURE"
}

func (m model) renderTitle(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("TELEMERGE " + m.channelName())

	st := m.cfg.Stations[m.stIdx]
	stText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true).
		Render(st.Name)

	nav := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("  [ %d/%d ]", m.stIdx+1, len(m.cfg.Stations)))

	dataInfo := ""
	if len(m.records) > 0 {
		first := m.records[0].Timestamp.Format("Jan 02 15:04")
		last := m.records[len(m.records)-1].Timestamp.Format("Jan 02 15:04")
		extra := ""
		if m.skipped > 0 {
			extra = fmt.Sprintf(", %d skipped", m.skipped)
		}
		dataInfo = lipgloss.NewStyle().
			Foreground(colorDim).
			Render(fmt.Sprintf("  %s - %s  (%d records%s)", first, last, len(m.records), extra))
	}

	right := stText + nav + dataInfo

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m model) renderCursorInfo(width int) string {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return ""
	}

	t := m.records[m.cursor].Timestamp
	ts := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true).
		Render(t.Format("2006-01-02 15:04"))

	pos := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.records)))

	barWidth := width - 36
	if barWidth < 10 {
		barWidth = 10
	}
	scrubber := m.renderScrubber(barWidth)

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render("  " + ts + pos + "  " + scrubber)
}

func (m model) renderScrubber(width int) string {
	if len(m.records) == 0 || width <= 0 {
		return ""
	}

	pos := 0
	if len(m.records) > 1 {
		pos = m.cursor * (width - 1) / (len(m.records) - 1)
	}
	if pos >= width {
		pos = width - 1
	}

	var sb strings.Builder
	dimS := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	curS := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	tickS := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	for i := 0; i < width; i++ {
		if i == pos {
			sb.WriteString(curS.Render("◆"))
			continue
		}
		slotIdx := 0
		if len(m.records) > 1 {
			slotIdx = i * (len(m.records) - 1) / (width - 1)
		}
		if slotIdx > 0 && slotIdx < len(m.records) {
			t := m.records[slotIdx].Timestamp
			tPrev := m.records[slotIdx-1].Timestamp
			if t.YearDay() != tPrev.YearDay() {
				sb.WriteString(tickS.Render("│"))
				continue
			}
		}
		sb.WriteString(dimS.Render("─"))
	}

	return sb.String()
}

func (m model) renderSensorPanel(totalWidth int) string {
	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	chartWidth := innerWidth - 50
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	labelW := 10
	valW := 8

	var rows []string

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("147")).
		Render(m.channelName())
	rows = append(rows, header)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("237")).
		Render(strings.Repeat("─", innerWidth))
	rows = append(rows, sep)

	defMin, defMax := 15.0, 45.0
	if m.channel == chart.Humidity {
		defMin, defMax = 0.0, 100.0
	}

	for s := 1; s <= m.cfg.SensorCount; s++ {
		pts := m.sparkWindow(s, chartWidth)

		rec := m.records[m.cursor]
		var cur *float64
		if m.channel == chart.Humidity {
			cur = rec.Hum(s)
		} else {
			cur = rec.Temp(s)
		}

		label := lipgloss.NewStyle().
			Foreground(colorLabel).
			Bold(true).
			Width(labelW).
			Render(fmt.Sprintf("sensor %d", s))

		okMark := lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render("●")
		if !rec.OK(s) {
			okMark = lipgloss.NewStyle().Foreground(colorDim).Render("○")
		}

		val := lipgloss.NewStyle().
			Width(valW).
			Align(lipgloss.Right).
			Render(chart.RenderValue(m.channel, cur, rec.OK(s)))

		rangeMin, rangeMax := chart.Range(pts, defMin, defMax)
		spark := chart.RenderSparkline(pts, m.channel, chartWidth, rangeMin, rangeMax)

		frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
		frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

		stats := m.renderStats(pts)

		rows = append(rows, label+" "+okMark+" "+val+" "+frameL+spark+frameR+" "+stats)

		timeline := chart.RenderTimeline(pts, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			pad := strings.Repeat(" ", labelW+valW+4)
			rows = append(rows, pad+" "+timeline)
		}
	}

	panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m model) renderStats(pts []chart.Point) string {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	sum, n := 0.0, 0
	for _, p := range pts {
		if p.Value == nil {
			continue
		}
		sum += *p.Value
		n++
		lo = math.Min(lo, *p.Value)
		hi = math.Max(hi, *p.Value)
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	if n == 0 {
		return dimS.Render("no data in window")
	}
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return dimS.Render("avg") + valS.Render(fmt.Sprintf("%5.1f", sum/float64(n))) +
		dimS.Render(" lo") + valS.Render(fmt.Sprintf("%5.1f", lo)) +
		dimS.Render(" pk") + valS.Render(fmt.Sprintf("%5.1f", hi))
}

// sparkWindow builds the chart window ending at the cursor for one sensor.
func (m model) sparkWindow(s int, width int) []chart.Point {
	if len(m.records) == 0 || width <= 0 {
		return nil
	}

	start := m.cursor - width + 1
	if start < 0 {
		start = 0
	}

	pts := make([]chart.Point, 0, m.cursor-start+1)
	for i := start; i <= m.cursor; i++ {
		rec := m.records[i]
		var v *float64
		if m.channel == chart.Humidity {
			v = rec.Hum(s)
		} else {
			v = rec.Temp(s)
		}
		pts = append(pts, chart.Point{Value: v, Time: rec.Timestamp, OK: rec.OK(s)})
	}
	return pts
}

func (m model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  h/l") + keyS.Render(":scrub") +
		dimS.Render("  H/L") + keyS.Render(":skip 1h") +
		dimS.Render("  home/end") + keyS.Render(":jump") +
		dimS.Render("  t") + keyS.Render(":channel") +
		dimS.Render("  [/]") + keyS.Render(":station") +
		dimS.Render("  j/k") + keyS.Render(":scroll")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}
