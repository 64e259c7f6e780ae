package ui

import (
	"github.com/renato0307/outpost/internal/theme"
	"github.com/renato0307/outpost/internal/version"
)

// renderHeader creates the header shared by every view: app name, version
// and tagline, plus an optional subtitle line
func renderHeader(subtitle string) string {
	result := theme.AppNameStyle.Render("Outpost") +
		theme.VersionStyle.Render(" "+version.Version) + "\n" +
		theme.TaglineStyle.Render(version.Tagline)

	if subtitle != "" {
		result += "\n" + theme.SubtitleStyle.Render(subtitle)
	}
	return result
}
