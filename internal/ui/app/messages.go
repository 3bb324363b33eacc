// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// healthInterval is how often the header's connection status is refreshed.
const healthInterval = 30 * time.Second

// HealthMsg reports the backend health check.
type HealthMsg struct {
	Online bool
}

// healthTickMsg schedules the next health check.
type healthTickMsg struct{}

// CredentialsClearedMsg is sent from outside the program when the
// credential store was cleared, e.g. by a 401 on another path.
type CredentialsClearedMsg struct{}

func checkHealthCmd(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		h, err := b.CheckHealth(ctx)
		return HealthMsg{Online: err == nil && h != nil && h.Healthy()}
	}
}

func scheduleHealthCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg { return healthTickMsg{} })
}
