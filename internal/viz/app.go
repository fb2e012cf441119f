package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/session"
)

var systemInfo = map[oscillator.Kind]string{
	oscillator.KindHarmonic:         "mass on an ideal spring",
	oscillator.KindSimplePendulum:   "point mass on a thread",
	oscillator.KindCompoundPendulum: "rigid body about a pivot",
}

const (
	stateMenu = iota
	stateSim
)

// App is the full program: a system menu in front of the live view.
type App struct {
	state  int
	cursor int
	kinds  []oscillator.Kind
	live   Model
}

func NewApp(sess *session.Session, fps int) App {
	kinds := oscillator.Kinds()
	cursor := 0
	for i, k := range kinds {
		if k == sess.Kind() {
			cursor = i
		}
	}
	return App{
		state:  stateMenu,
		cursor: cursor,
		kinds:  kinds,
		live:   NewModel(sess, fps),
	}
}

func (a App) Init() tea.Cmd { return a.live.Init() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if a.state == stateMenu {
			return a.menuKey(key)
		}
		if key.String() == "esc" {
			a.live.session.Pause()
			a.state = stateMenu
			return a, nil
		}
	}

	// ticks keep flowing in the menu so the live view resumes smoothly
	next, cmd := a.live.Update(msg)
	a.live = next.(Model)
	return a, cmd
}

func (a App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.kinds)-1 {
			a.cursor++
		}
	case "1", "2", "3":
		a.cursor = int(msg.String()[0] - '1')
		fallthrough
	case "enter", " ":
		kind := a.kinds[a.cursor]
		if kind != a.live.session.Kind() {
			a.live.switchTo(kind)
		}
		a.state = stateSim
	}
	return a, nil
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}
	return a.viewMenu()
}

// preview samples one period of x(t) from a fresh default model.
func preview(kind oscillator.Kind, n int) []float64 {
	o, err := oscillator.New(kind)
	if err != nil {
		return nil
	}
	step := o.Period() / float64(n)
	xs := make([]float64, 0, n)
	o.Start()
	for i := 0; i < n; i++ {
		xs = append(xs, o.Position())
		o.Update(step)
	}
	return xs
}

func (a App) viewMenu() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + h.Render("OSCILAB") + "\n    " + sub.Render("closed-form oscillators") + "\n    " + sub.Render("─────────────────────────") + "\n\n")

	for i, kind := range a.kinds {
		spark := SparklineChart(preview(kind, 24), 24)
		name := fmt.Sprintf("%d %-24s", i+1, kind.Title())
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s  %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(name),
				spark,
				lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(systemInfo[kind])))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s  %s\n", sub.Render(name), spark, sub.Render(systemInfo[kind])))
		}
	}

	key := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true)
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" select  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// Run starts the full-screen program on sess.
func Run(sess *session.Session, fps int) error {
	_, err := tea.NewProgram(NewApp(sess, fps), tea.WithAltScreen()).Run()
	return err
}
