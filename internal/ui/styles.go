package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Status      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Help        lipgloss.Style
	Card        lipgloss.Style
	CardValue   lipgloss.Style
	Label       lipgloss.Style
	Focused     lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Active      lipgloss.Style
	Inactive    lipgloss.Style
	StepDone    lipgloss.Style
	StepCurrent lipgloss.Style
	StepTodo    lipgloss.Style
	PageCurrent lipgloss.Style
	TableStyles TableStyles
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
}

type TableStyles struct {
	Header         lipgloss.Style
	Cell           lipgloss.Style
	Selected       lipgloss.Style
	HeaderSelected lipgloss.Style
	Dragging       lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Subtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 2)
		s.CardValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Focused = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.PageCurrent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Subtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 2)
		s.CardValue = lipgloss.NewStyle().Bold(true)
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Focused = lipgloss.NewStyle().Foreground(lipgloss.Color("27")).Bold(true)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.PageCurrent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
	}
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	s.Active = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	s.Inactive = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	s.StepDone = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	s.StepCurrent = s.Focused
	s.StepTodo = s.Status
	s.TableStyles = TableStyles{
		Header:         lipgloss.NewStyle().Bold(true),
		Cell:           lipgloss.NewStyle(),
		Selected:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		HeaderSelected: lipgloss.NewStyle().Underline(true),
		Dragging:       lipgloss.NewStyle().Reverse(true),
	}
	return s
}
