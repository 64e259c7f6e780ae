//go:build !darwin

package sound

// playForAlert falls back to the terminal bell
func playForAlert(alert Alert) error {
	return terminalBell()
}
