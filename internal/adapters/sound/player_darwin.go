//go:build darwin

package sound

import "os/exec"

// playForAlert plays sounds on macOS using afplay
func playForAlert(alert Alert) error {
	var soundFiles []string

	switch alert {
	case AlertSettled:
		soundFiles = []string{
			"/System/Library/Sounds/Glass.aiff",
			"/System/Library/Sounds/Tink.aiff",
		}
	case AlertAttention:
		soundFiles = []string{
			"/System/Library/Sounds/Basso.aiff",
			"/System/Library/Sounds/Sosumi.aiff",
		}
	default:
		soundFiles = []string{"/System/Library/Sounds/Glass.aiff"}
	}

	for _, soundFile := range soundFiles {
		cmd := exec.Command("afplay", soundFile)
		if err := cmd.Start(); err == nil {
			go cmd.Wait()
			return nil
		}
	}

	return terminalBell()
}
