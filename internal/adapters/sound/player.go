package sound

import (
	"fmt"

	"github.com/renato0307/outpost/internal/domain"
)

// Alert is the kind of event a sound announces
type Alert string

const (
	// AlertAttention asks the player to act: a rollback, an expiry or a
	// login prompt
	AlertAttention Alert = "attention"
	// AlertSettled announces a committed action
	AlertSettled Alert = "settled"
)

// Player plays notification sounds
type Player struct{}

// NewPlayer creates a new sound player
func NewPlayer() *Player {
	return &Player{}
}

// Play plays the sound for an alert. Platform-specific implementations are
// in player_*.go files with build tags.
func (p *Player) Play(alert Alert) error {
	return playForAlert(alert)
}

// AlertForSettlement maps a settlement event to its alert. Pending
// updates without a reauth request are silent.
func AlertForSettlement(e domain.TransactionSettled) (Alert, bool) {
	switch {
	case e.NeedsReauth:
		return AlertAttention, true
	case e.Status == domain.StatusCommitted:
		return AlertSettled, true
	case e.Status == domain.StatusRolledBack, e.Status == domain.StatusExpired:
		return AlertAttention, true
	}
	return "", false
}

// terminalBell outputs a terminal bell character as fallback
func terminalBell() error {
	fmt.Print("\a")
	return nil
}
