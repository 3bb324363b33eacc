// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header        lipgloss.Style
	HeaderBrand   lipgloss.Style
	HeaderTagline lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	ProfileName   lipgloss.Style
	ProfileEmail  lipgloss.Style
	ProfileBadge  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel       lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantLabel  lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	Timestamp       lipgloss.Style
	TypingText      lipgloss.Style
	Spinner         lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style
	InputPrompt    lipgloss.Style
	Completion     lipgloss.Style
	CompletionSel  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Notice       lipgloss.Style
	NoticeError  lipgloss.Style

	// ==========================================================================
	// AUTH FORM STYLES
	// ==========================================================================

	FormBox         lipgloss.Style
	FormTitle       lipgloss.Style
	FormSubtitle    lipgloss.Style
	FormLabel       lipgloss.Style
	FormLabelActive lipgloss.Style
	FormError       lipgloss.Style
	FormHint        lipgloss.Style
	Button          lipgloss.Style
	ButtonActive    lipgloss.Style
}

// NewTheme creates a theme. name is "auto" (detect), "dark" or "light".
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(name) {
	case ThemeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ThemeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ketchup)

	t.HeaderTagline = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StatusOnline = lipgloss.NewStyle().Foreground(Lettuce)
	t.StatusOffline = lipgloss.NewStyle().Foreground(Rose)

	t.ProfileName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ProfileEmail = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ProfileBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Ketchup).
		Padding(0, 1)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ketchup)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Mustard)

	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder)

	t.ErrorBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ErrorBubbleBorder)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Mustard)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Ketchup).
		Padding(0, 1)

	t.InputDisabled = t.InputContainer.
		BorderForeground(Overlay).
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ketchup)

	t.Completion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.CompletionSel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Ketchup).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Info)

	t.NoticeError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	// Auth form
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Ketchup).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ketchup).
		MarginBottom(1)

	t.FormSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormLabelActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ketchup)

	t.FormError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.ButtonActive = t.Button.
		Bold(true).
		Foreground(Ketchup).
		BorderForeground(Ketchup)
}
