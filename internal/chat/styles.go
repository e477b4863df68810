package chat

import "github.com/charmbracelet/lipgloss"

var (
	chatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 1)

	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	tagStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorTagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	loadingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	separatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Italic(true)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
