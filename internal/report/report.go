// Package report lays out the step-by-step solution of the active system:
// what is known, what is sought, the governing equations, the numbers
// substituted into them and a reading of the current state.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/oscilab/internal/oscillator"
)

const (
	SectionKnown          = "Known Data"
	SectionUnknowns       = "Unknowns"
	SectionEquations      = "Equations"
	SectionSubstitution   = "Substitution"
	SectionInterpretation = "Interpretation"
)

type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

type Report struct {
	System   oscillator.Kind `json:"system"`
	Title    string          `json:"title"`
	Time     float64         `json:"time"`
	Sections []Section       `json:"sections"`
}

// Build reads o at its current time.
func Build(o oscillator.Oscillator) Report {
	return Report{
		System: o.Kind(),
		Title:  o.Kind().Title(),
		Time:   o.Time(),
		Sections: []Section{
			{Title: SectionKnown, Lines: known(o.KnownData())},
			{Title: SectionUnknowns, Lines: unknowns(o.Unknowns())},
			{Title: SectionEquations, Lines: o.Equations()},
			{Title: SectionSubstitution, Lines: o.Calculations()},
			{Title: SectionInterpretation, Lines: interpretation(o)},
		},
	}
}

func known(p oscillator.Params) []string {
	lines := make([]string, len(p))
	for i, q := range p {
		lines[i] = fmt.Sprintf("%s = %.4f %s", q.Name, q.Value, q.Unit)
	}
	return lines
}

func unknowns(p oscillator.Params) []string {
	lines := make([]string, len(p))
	for i, q := range p {
		lines[i] = fmt.Sprintf("%s = ? %s", q.Name, q.Unit)
	}
	return lines
}

func interpretation(o oscillator.Oscillator) []string {
	return []string{
		fmt.Sprintf("Angular frequency ω = %.4f rad/s", o.AngularFrequency()),
		fmt.Sprintf("Period T = %.4f s", o.Period()),
		fmt.Sprintf("At t = %.2f s:", o.Time()),
		fmt.Sprintf("  Position x = %.4f m", o.Position()),
		fmt.Sprintf("  Velocity v = %.4f m/s", o.Velocity()),
		fmt.Sprintf("  Acceleration a = %.4f m/s²", o.Acceleration()),
		fmt.Sprintf("  Kinetic energy Ec = %.4f J", o.KineticEnergy()),
		fmt.Sprintf("  Potential energy Ep = %.4f J", o.PotentialEnergy()),
		fmt.Sprintf("  Total energy Et = %.4f J", o.TotalEnergy()),
	}
}

// Section returns the named section.
func (r Report) Section(title string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Render writes r as plain text.
func Render(w io.Writer, r Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", r.Title, strings.Repeat("=", len([]rune(r.Title))))
	for i, s := range r.Sections {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(&sb, "   %s\n", line)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff")).
			MarginTop(1)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0e0e0")).
			PaddingLeft(2)

	equationStyle = lineStyle.
			Foreground(lipgloss.Color("#ffcc00"))
)

// Styled renders r for the terminal UI.
func Styled(r Report) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Methodology · " + r.Title))
	for i, s := range r.Sections {
		sb.WriteString("\n")
		sb.WriteString(headingStyle.Render(fmt.Sprintf("%d. %s", i+1, s.Title)))
		style := lineStyle
		if s.Title == SectionEquations {
			style = equationStyle
		}
		for _, line := range s.Lines {
			sb.WriteString("\n")
			sb.WriteString(style.Render(line))
		}
	}
	return sb.String()
}
