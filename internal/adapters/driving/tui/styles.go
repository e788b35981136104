package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the chat view.
type Styles struct {
	Title     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Pending   lipgloss.Style
	Source    lipgloss.Style
	SourceHit lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Status    lipgloss.Style
	Strict    lipgloss.Style
	InputBox  lipgloss.Style
	ChatBox   lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		SourceHit: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Strict:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		InputBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		ChatBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}
