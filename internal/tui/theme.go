package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/store"
)

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Card      lipgloss.Style
	DoneCard  lipgloss.Style
	Break     lipgloss.Style
	Input     lipgloss.Style
	Modal     lipgloss.Style
	Priority  map[models.Priority]lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
}

func priorityStyles(urgent, important, delegate, later string) map[models.Priority]lipgloss.Style {
	return map[models.Priority]lipgloss.Style{
		models.PriorityUrgentImportant:       lipgloss.NewStyle().Foreground(lipgloss.Color(urgent)).Bold(true),
		models.PriorityNotUrgentImportant:    lipgloss.NewStyle().Foreground(lipgloss.Color(important)).Bold(true),
		models.PriorityUrgentNotImportant:    lipgloss.NewStyle().Foreground(lipgloss.Color(delegate)),
		models.PriorityNotUrgentNotImportant: lipgloss.NewStyle().Foreground(lipgloss.Color(later)),
	}
}

var Themes = map[store.Theme]Theme{
	store.ThemeDark: {
		Name:      "Dark",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("63"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63")).Bold(true).Padding(0, 1),
		Card:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DoneCard:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		Break:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(50),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(1, 2),
		Priority:  priorityStyles("9", "214", "81", "244"),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
	},
	store.ThemeLight: {
		Name:      "Light",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("25"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25")).Bold(true).Padding(0, 1),
		Card:      lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		DoneCard:  lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Strikethrough(true),
		Break:     lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("90")).Padding(0, 1).Width(50),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("90")).Padding(1, 2),
		Priority:  priorityStyles("160", "130", "25", "245"),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	},
}

func themeFor(t store.Theme) Theme {
	if theme, ok := Themes[t]; ok {
		return theme
	}
	return Themes[store.ThemeDark]
}
