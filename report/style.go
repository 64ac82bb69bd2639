package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleSquare = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleShinyAlpha = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	styleShiny = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// lineKind classifies a report line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeader
	kindShiny
	kindShinyAlpha
	kindSquare
)

// classify inspects a line produced by this package.
func classify(line string) lineKind {
	if strings.HasPrefix(line, "* ") {
		_, summary, ok := strings.Cut(line, " = ")
		if !ok {
			return kindPlain
		}
		name, _, _ := strings.Cut(summary, ":")
		shiny := strings.Contains(summary, " *") || strings.Contains(summary, "■")
		switch {
		case strings.Contains(summary, "■"):
			return kindSquare
		case shiny && strings.HasPrefix(name, "α-"):
			return kindShinyAlpha
		case shiny:
			return kindShiny
		}
		return kindPlain
	}
	switch {
	case strings.HasPrefix(line, "==="),
		strings.HasPrefix(line, "Parameters: "),
		strings.HasPrefix(line, "Seed: "),
		strings.HasPrefix(line, "Step "):
		return kindHeader
	}
	return kindPlain
}

// Highlight colours result lines by how good the spawn is. Other lines
// pass through, headers dimmed.
func Highlight(line string) string {
	switch classify(line) {
	case kindSquare:
		return styleSquare.Render(line)
	case kindShinyAlpha:
		return styleShinyAlpha.Render(line)
	case kindShiny:
		return styleShiny.Render(line)
	case kindHeader:
		return styleHeader.Render(line)
	}
	return line
}
