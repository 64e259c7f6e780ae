package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Session mode colors
const (
	ColorAuthenticated   Color = "2" // Green - online
	ColorOffline         Color = "3" // Yellow - playing offline
	ColorUnauthenticated Color = "1" // Red - login needed
)

// Transaction status colors
const (
	ColorCommitted  Color = "2"   // Green
	ColorExpired    Color = "8"   // Gray
	ColorPending    Color = "214" // Orange
	ColorRolledBack Color = "1"   // Red
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorHelpGroup Color = "141" // Purple
	ColorSpinner   Color = "205" // Pink
)
