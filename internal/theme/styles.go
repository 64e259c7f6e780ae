package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/outpost/internal/domain"
)

// Main UI styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(12)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)
)

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorSpinner)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// ModeStyle returns the style of a session mode badge
func ModeStyle(mode domain.AuthMode) lipgloss.Style {
	color := ColorMuted
	switch mode {
	case domain.ModeAuthenticated:
		color = ColorAuthenticated
	case domain.ModeOffline:
		color = ColorOffline
	case domain.ModeUnauthenticated:
		color = ColorUnauthenticated
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// StatusStyle returns the style of a transaction status
func StatusStyle(status domain.TransactionStatus) lipgloss.Style {
	color := ColorNormal
	switch status {
	case domain.StatusCommitted:
		color = ColorCommitted
	case domain.StatusExpired:
		color = ColorExpired
	case domain.StatusPending:
		color = ColorPending
	case domain.StatusRolledBack:
		color = ColorRolledBack
	}
	return lipgloss.NewStyle().Foreground(color)
}
