package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/theme"
)

// Mode symbols
const (
	SymbolAuthenticated   = "●"
	SymbolOffline         = "◐"
	SymbolUnauthenticated = "○"
)

// ModeBadge renders the session mode with its symbol
func ModeBadge(mode domain.AuthMode) string {
	symbol := SymbolUnauthenticated
	switch mode {
	case domain.ModeAuthenticated:
		symbol = SymbolAuthenticated
	case domain.ModeOffline:
		symbol = SymbolOffline
	}
	return theme.ModeStyle(mode).Render(symbol + " " + string(mode))
}

// RenderStatus renders the session, player state and pending work
func RenderStatus(s Snapshot) string {
	session := ModeBadge(s.Session.Mode)
	if s.Identity != nil {
		who := s.Identity.DisplayName
		if s.Identity.Email != "" {
			who = strings.TrimSpace(fmt.Sprintf("%s <%s>", who, s.Identity.Email))
		}
		if who != "" {
			session += "  " + theme.NormalStyle.Render(who)
		}
	}
	if !s.Session.IsStable {
		session += theme.MutedStyle.Render("  (settling)")
	}

	server := theme.NormalStyle.Render("reachable")
	if !s.Reachable {
		server = theme.ErrorStyle.Render("unreachable")
	}

	queue := fmt.Sprintf("%d waiting", len(s.Queue))
	if s.Draining {
		queue += theme.MutedStyle.Render("  (replaying)")
	}

	rows := []string{
		row("Session", session),
		row("Server", server),
		row("Balance", theme.NormalStyle.Render(fmt.Sprintf("%d", s.Player.Balance))),
		row("Inventory", renderInventory(s.Player.Inventory)),
		row("Characters", renderCharacters(s.Player.Characters)),
		row("Queue", queue),
		row("Pending", fmt.Sprintf("%d transactions", s.Pending)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderSettled renders one settlement event as a single line
func RenderSettled(e domain.TransactionSettled) string {
	status := theme.StatusStyle(e.Status).Render(string(e.Status))
	line := fmt.Sprintf("%s %s %s", status, e.Kind, theme.MutedStyle.Render(shortKey(e.IdempotencyKey)))
	if e.NeedsReauth {
		line += theme.ErrorStyle.Render("  login required")
	}
	if e.Reason != "" {
		line += "  " + e.Reason
	}
	return line
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + value
}

func renderInventory(inv map[int]int) string {
	if len(inv) == 0 {
		return theme.MutedStyle.Render("empty")
	}
	ids := make([]int, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("item %d ×%d", id, inv[id]))
	}
	return theme.NormalStyle.Render(strings.Join(parts, ", "))
}

func renderCharacters(chars map[string]domain.Character) string {
	if len(chars) == 0 {
		return theme.MutedStyle.Render("none")
	}
	list := make([]domain.Character, 0, len(chars))
	for _, c := range chars {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	parts := make([]string, 0, len(list))
	for _, c := range list {
		parts = append(parts, fmt.Sprintf("%s %s", c.Name, theme.MutedStyle.Render("("+shortKey(c.ID)+")")))
	}
	return strings.Join(parts, ", ")
}

// shortKey abbreviates a UUID for display
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
