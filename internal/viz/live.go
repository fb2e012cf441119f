package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/report"
	"github.com/san-kum/oscilab/internal/series"
	"github.com/san-kum/oscilab/internal/session"
)

const (
	canvasWidth  = 56
	canvasHeight = 18
	chartWidth   = 34
	chartHeight  = 5
	barWidth     = 20
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	reportStyle = lipgloss.NewStyle().Padding(1, 2).Width(72)
)

type TickMsg time.Time

// Model is the live view of one session.
type Model struct {
	session    *session.Session
	fps        int
	scene      *scene
	energy     energyBars
	kinShare   float64
	potShare   float64
	selected   int
	showCharts bool
	showReport bool
	showHelp   bool
	last       time.Time
}

func NewModel(sess *session.Session, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		session:    sess,
		fps:        fps,
		scene:      newScene(canvasWidth, canvasHeight),
		energy:     newEnergyBars(fps),
		showCharts: true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the session by the measured
// frame delta.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.session.Tick(now.Sub(m.last).Seconds())
		}
		m.last = now
		o := m.session.Active()
		m.kinShare, m.potShare = m.energy.update(o.KineticEnergy(), o.PotentialEnergy())
		m.scene.draw(o)
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.session.Toggle()
	case "r":
		m.session.Reset()
		m.scene.reset()
	case "s":
		m.session.ToggleSlowMotion()
	case "1", "2", "3":
		kinds := oscillator.Kinds()
		m.switchTo(kinds[int(msg.String()[0]-'1')])
	case "tab":
		m.cycleParam(1)
	case "shift+tab":
		m.cycleParam(-1)
	case "up", "k":
		m.nudge(1)
	case "down", "j":
		m.nudge(-1)
	case "c":
		m.showCharts = !m.showCharts
	case "p":
		m.showReport = !m.showReport
	case "t":
		names := ThemeNames()
		for i, name := range names {
			if name == CurrentTheme.Name {
				SetTheme(names[(i+1)%len(names)])
				break
			}
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	m.scene.draw(m.session.Active())
	return m, nil
}

func (m *Model) switchTo(kind oscillator.Kind) {
	if err := m.session.Switch(kind); err != nil {
		return
	}
	m.selected = 0
	m.scene.reset()
	m.energy.reset()
}

func (m *Model) cycleParam(dir int) {
	n := len(m.session.Sliders())
	if n == 0 {
		return
	}
	m.selected = (m.selected + dir + n) % n
}

func (m *Model) nudge(steps int) {
	sliders := m.session.Sliders()
	if m.selected >= len(sliders) {
		return
	}
	if _, err := m.session.Nudge(sliders[m.selected].Key, steps); err == nil {
		m.scene.reset()
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	o := m.session.Active()

	left := canvasStyle.Render(m.scene.canvas.String())
	if m.showReport {
		left = reportStyle.Render(report.Styled(report.Build(o)))
	} else if m.showCharts {
		left = lipgloss.JoinVertical(lipgloss.Left, left, m.charts())
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, left, statsStyle.Render(m.stats(o)))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) stats(o oscillator.Oscillator) string {
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(o.Kind().Title()), CurrentTheme.Secondary, CurrentTheme.Primary) + "\n\n")

	status := StatusPaused.Render("PAUSED")
	if m.session.Running() {
		status = StatusRunning.Render("RUNNING")
	}
	if m.session.SlowMotion() {
		status += "  " + StatusSlow.Render("SLOW ×0.1")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f s", o.Time()))
	row("ω", fmt.Sprintf("%.4f rad/s", o.AngularFrequency()))
	row("Period", fmt.Sprintf("%.4f s", o.Period()))
	if theta, _, _, ok := oscillator.AngularState(o); ok {
		row("Angle θ", fmt.Sprintf("%.4f rad", theta))
	}
	row("Position", fmt.Sprintf("%.4f m", o.Position()))
	row("Velocity", fmt.Sprintf("%.4f m/s", o.Velocity()))
	row("Acceleration", fmt.Sprintf("%.4f m/s²", o.Acceleration()))
	row("Kinetic", fmt.Sprintf("%.4f J", o.KineticEnergy()))
	row("Potential", fmt.Sprintf("%.4f J", o.PotentialEnergy()))
	row("Total", fmt.Sprintf("%.4f J", o.TotalEnergy()))

	s.WriteString("\n" + labelStyle.Render("Ec") + ProgressBar(m.kinShare, barWidth, KineticBar) + "\n")
	s.WriteString(labelStyle.Render("Ep") + ProgressBar(m.potShare, barWidth, PotentialBar) + "\n")

	s.WriteString("\n" + MetricLabel.Render("PARAMETERS") + "\n")
	params := o.Parameters()
	for i, sl := range m.session.Sliders() {
		q, _ := params.Get(sl.Key)
		ratio := 0.0
		if sl.Max > sl.Min {
			ratio = math.Max(0, math.Min(1, (q.Value-sl.Min)/(sl.Max-sl.Min)))
		}
		filled := int(ratio * 10)
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", 10-filled) + "]"
		line := fmt.Sprintf("%-16s %s %.2f %s", q.Key, bar, q.Value, q.Unit)
		if i == m.selected {
			s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + MetricLabel.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render(Separator(36) + "\nSP:Start/Pause R:Reset S:Slow Q:Quit\n1/2/3:System Tab:Param ↑↓:Tune\nC:Charts P:Report T:Theme ?:Help"))
	return s.String()
}

// charts plots the rolling series; non-finite data is reported instead
// of plotted.
func (m Model) charts() string {
	sr := m.session.Series()
	if sr.Len() < 2 {
		return graphStyle.Render(KeyHint.Render("charts fill while running"))
	}

	plot := func(caption string, cols ...series.Column) string {
		data := make([][]float64, len(cols))
		for i, c := range cols {
			data[i] = sr.Column(c)
			if !finite(data[i]...) {
				return KeyHint.Render(caption + ": non-finite values")
			}
		}
		return asciigraph.PlotMany(data,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(2),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
			asciigraph.Caption(caption),
		)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(plot("x (m)", series.Position)),
		graphStyle.Render(plot("v (m/s)", series.Velocity)),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(plot("a (m/s²)", series.Acceleration)),
		graphStyle.Render(plot("Ec Ep Et (J)", series.Kinetic, series.Potential, series.Total)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start/Pause              ║
║  R        - Reset to t = 0           ║
║  S        - Toggle slow motion       ║
║  1/2/3    - Spring/Pendulum/Compound ║
║  Tab      - Next parameter           ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  C        - Toggle charts            ║
║  P        - Toggle methodology       ║
║  T        - Cycle themes             ║
║  Esc      - Back to menu             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
