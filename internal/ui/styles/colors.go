// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Ketchup - Primary brand color, header and focus
var Ketchup = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// KetchupDeep - Darker brand color for backgrounds
var KetchupDeep = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#7C2D12"}

// Mustard - Secondary accent, assistant label and highlights
var Mustard = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"}

// Lettuce - Success and online state
var Lettuce = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, offline state
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Info - Notices and links
var Info = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// SurfaceDim - Header and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#FFF7ED", Dark: "#1C1917"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E5E4", Dark: "#44403C"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1C1917", Dark: "#F5F5F4"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE COLORS
// =============================================================================

// Customer messages - warm bun tones
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#431407", Dark: "#FFEDD5"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#FDBA74", Dark: "#C2410C"}

// Assistant messages - neutral with mustard border
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#FCD34D", Dark: "#A16207"}

// Failed actions
var ErrorBubbleBorder = lipgloss.AdaptiveColor{Light: "#FDA4AF", Dark: "#9F1239"}

// =============================================================================
// ACCESSIBILITY: Shapes beside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Online  string
	Offline string
}

// StatusIndicators pair every status color with a shape.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Online:  "●",
	Offline: "○",
}

// RenderSuccess renders a success line with indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Lettuce).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line with indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}
