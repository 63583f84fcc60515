package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/ui"
	"github.com/muurk/epdwave/internal/wbf"
)

// Level is the browser's current depth
type Level int

const (
	LevelModes Level = iota
	LevelRanges
	LevelRows
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelModes:
		return "modes"
	case LevelRanges:
		return "ranges"
	case LevelRows:
		return "rows"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// chrome is the number of lines used by title, subtitle and help
const chrome = 8

type loadedMsg struct {
	res *wbf.Result
	err error
}

// Model is the browser's Bubble Tea model
type Model struct {
	path string
	load func() (*wbf.Result, error)

	res *wbf.Result
	doc *export.Document
	err error

	level    Level
	modeIdx  int
	rangeIdx int
	offset   int // First visible row at LevelRows

	modes     table.Model
	ranges    table.Model
	spinner   spinner.Model
	tempInput textinput.Model
	jumping   bool
	jumpErr   string
	bar       progress.Model
	help      help.Model
	keys      keyMap

	width  int
	height int
}

// New returns a browser that decodes path when started
func New(path string, opts ...wbf.Option) Model {
	m := newModel(path)
	m.load = func() (*wbf.Result, error) {
		return wbf.DecodeFile(path, opts...)
	}
	return m
}

// NewFromResult returns a browser over an already decoded file
func NewFromResult(path string, res *wbf.Result) Model {
	m := newModel(path)
	m.setResult(res)
	return m
}

func newModel(path string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "temperature in °C"
	ti.CharLimit = 4
	ti.Width = 20

	return Model{
		path:      path,
		spinner:   sp,
		tempInput: ti,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     ui.MinTerminalWidth,
		height:    24,
	}
}

// Level returns the current depth
func (m Model) Level() Level { return m.level }

// Selection returns the selected mode and range indexes
func (m Model) Selection() (mode, rng int) { return m.modeIdx, m.rangeIdx }

// Err returns the load error, if any
func (m Model) Err() error { return m.err }

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.res != nil || m.load == nil {
		return nil
	}
	load := m.load
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := load()
		return loadedMsg{res: res, err: err}
	})
}

func (m *Model) setResult(res *wbf.Result) {
	m.res = res
	m.doc = export.Build(res)

	m.modes = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Mode", Width: 10},
			{Title: "Address", Width: 10},
			{Title: "Rows", Width: 6},
		}),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	rows := make([]table.Row, 0, len(m.doc.Modes))
	for i, entry := range m.doc.Modes {
		total := 0
		for _, r := range entry.Ranges {
			total += len(r.Phases)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i),
			entry.Mode,
			fmt.Sprintf("0x%06x", res.Modes[i].Mode.Address),
			strconv.Itoa(total),
		})
	}
	m.modes.SetRows(rows)
	m.resize()
}

func (m *Model) fillRanges() {
	mw := m.res.Modes[m.modeIdx]

	m.ranges = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Range", Width: 14},
			{Title: "Address", Width: 10},
			{Title: "Bytes", Width: 6},
			{Title: "Checksum", Width: 9},
		}),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	rows := make([]table.Row, 0, len(mw.Ranges))
	for _, rw := range mw.Ranges {
		n := 0
		if rw.Waveform != nil {
			n = len(rw.Waveform.Control)
		}
		check := ui.SuccessMarker
		if !rw.Record.Valid() {
			check = ui.WarningMarker
		}
		rows = append(rows, table.Row{
			strconv.Itoa(rw.Index),
			rw.Range.String(),
			fmt.Sprintf("0x%06x", rw.Record.Address),
			strconv.Itoa(n),
			check,
		})
	}
	m.ranges.SetRows(rows)
	m.ranges.SetCursor(m.rangeIdx)
	m.resize()
}

func (m *Model) resize() {
	h := max(m.height-chrome, 3)
	m.modes.SetHeight(h)
	m.ranges.SetHeight(h)
	m.help.Width = m.width
}

func (m Model) visibleRows() int {
	return max(m.height-chrome, 1)
}

func (m Model) currentRows() []export.Row {
	if m.doc == nil || m.modeIdx >= len(m.doc.Modes) {
		return nil
	}
	ranges := m.doc.Modes[m.modeIdx].Ranges
	if m.rangeIdx >= len(ranges) {
		return nil
	}
	return ranges[m.rangeIdx].Phases
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setResult(msg.res)
		return m, nil

	case spinner.TickMsg:
		if m.res != nil || m.err != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.jumping {
			return m.updateJump(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.res == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		return m.drillDown(), nil
	case key.Matches(msg, m.keys.Back):
		return m.goBack(), nil
	case key.Matches(msg, m.keys.Jump) && m.level != LevelModes:
		m.jumping = true
		m.jumpErr = ""
		m.tempInput.SetValue("")
		return m, m.tempInput.Focus()
	}

	var cmd tea.Cmd
	switch m.level {
	case LevelModes:
		m.modes, cmd = m.modes.Update(msg)
	case LevelRanges:
		m.ranges, cmd = m.ranges.Update(msg)
	case LevelRows:
		m.scroll(msg)
	}
	return m, cmd
}

func (m *Model) scroll(msg tea.KeyMsg) {
	page := m.visibleRows()
	last := max(len(m.currentRows())-page, 0)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.offset--
	case key.Matches(msg, m.keys.Down):
		m.offset++
	case key.Matches(msg, m.keys.PageUp):
		m.offset -= page
	case key.Matches(msg, m.keys.PageDown):
		m.offset += page
	}
	m.offset = min(max(m.offset, 0), last)
}

func (m Model) drillDown() Model {
	switch m.level {
	case LevelModes:
		if len(m.res.Modes) == 0 {
			return m
		}
		m.modeIdx = m.modes.Cursor()
		m.rangeIdx = 0
		m.fillRanges()
		m.level = LevelRanges
	case LevelRanges:
		m.rangeIdx = m.ranges.Cursor()
		m.offset = 0
		m.level = LevelRows
	}
	return m
}

func (m Model) goBack() Model {
	switch m.level {
	case LevelRows:
		m.level = LevelRanges
	case LevelRanges:
		m.level = LevelModes
	}
	return m
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumping = false
		m.tempInput.Blur()
		return m, nil

	case tea.KeyEnter:
		celsius, err := strconv.Atoi(strings.TrimSpace(m.tempInput.Value()))
		if err != nil {
			m.jumpErr = "not a number"
			return m, nil
		}
		idx, ok := wbf.RangeFor(m.res.TemperatureRanges, celsius)
		if !ok {
			m.jumpErr = fmt.Sprintf("no range covers %d °C", celsius)
			return m, nil
		}
		m.jumping = false
		m.tempInput.Blur()
		m.rangeIdx = idx
		m.ranges.SetCursor(idx)
		m.offset = 0
		m.level = LevelRows
		return m, nil
	}

	var cmd tea.Cmd
	m.tempInput, cmd = m.tempInput.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Failed to decode "+m.path+"\n\n"+m.err.Error()) + "\n"
	}
	if m.res == nil {
		return fmt.Sprintf("\n %s Decoding %s...\n", m.spinner.View(), m.path)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  serial %d", m.path, m.res.Header.Serial)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	switch m.level {
	case LevelModes:
		b.WriteString(m.modes.View())
	case LevelRanges:
		b.WriteString(m.ranges.View())
	case LevelRows:
		b.WriteString(m.rowsView())
	}
	b.WriteString("\n")

	if m.jumping {
		b.WriteString("\n Jump to " + m.tempInput.View())
		if m.jumpErr != "" {
			b.WriteString("  " + ui.ErrorMessageStyle.Render(m.jumpErr))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) breadcrumb() string {
	parts := []string{fmt.Sprintf("%d modes, %d ranges, %d unique waveforms",
		len(m.res.Modes), len(m.res.TemperatureRanges), m.res.UniqueWaveforms())}
	if m.level >= LevelRanges {
		parts = append(parts, m.res.Modes[m.modeIdx].Mode.Name)
	}
	if m.level == LevelRows && m.rangeIdx < len(m.res.TemperatureRanges) {
		parts = append(parts, m.res.TemperatureRanges[m.rangeIdx].String())
	}
	return strings.Join(parts, " › ")
}

func (m Model) rowsView() string {
	rows := m.currentRows()
	end := min(m.offset+m.visibleRows(), len(rows))

	var b strings.Builder
	b.WriteString(ui.RenderPhaseRows(rows[m.offset:end], m.offset))
	if len(rows) > m.visibleRows() {
		b.WriteString("\n ")
		b.WriteString(m.bar.ViewAs(float64(end) / float64(len(rows))))
		b.WriteString(fmt.Sprintf("  %d/%d rows", end, len(rows)))
	}
	return b.String()
}
