package main

import "github.com/charmbracelet/lipgloss"

// communityColors cycles across communities in the summary table.
var communityColors = []lipgloss.Color{
	lipgloss.Color("4"),  // blue
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("1"),  // red
	lipgloss.Color("6"),  // cyan
	lipgloss.Color("2"),  // green
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("9"),  // bright red
	lipgloss.Color("12"), // bright blue
}

type tableStyles struct {
	color  bool
	header lipgloss.Style
}

func newTableStyles(color bool) tableStyles {
	st := tableStyles{color: color}
	if color {
		st.header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	} else {
		st.header = lipgloss.NewStyle()
	}
	return st
}

// community returns the row style for a community label.
func (st tableStyles) community(c int) lipgloss.Style {
	if !st.color {
		return lipgloss.NewStyle()
	}
	color := communityColors[((c%len(communityColors))+len(communityColors))%len(communityColors)]
	return lipgloss.NewStyle().Foreground(color)
}
