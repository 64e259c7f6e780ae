package cmd

import (
	"fmt"

	"github.com/renato0307/outpost/internal/theme"
	"github.com/renato0307/outpost/internal/version"
)

// VersionCmd prints build information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(cli *CLI) error {
	fmt.Printf("%s %s\n", theme.AppNameStyle.Render("outpost"), theme.VersionStyle.Render(version.Version))
	fmt.Println(theme.TaglineStyle.Render(version.Tagline))
	fmt.Printf("commit: %s\nbuilt:  %s\ngo:     %s\n", version.Commit, version.Date, version.GoVersion)
	return nil
}
