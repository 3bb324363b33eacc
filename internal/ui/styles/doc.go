// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the PerfBurger TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. NewTheme can force either variant.

# Color System (colors.go)

  - Ketchup - brand color, header, focus, customer label
  - Mustard - assistant label and spinner
  - Lettuce - success, online status
  - Rose - errors, offline status

# Theme (theme.go)

Theme groups every style the UI uses: header and profile, message bubbles,
input, status bar and the login/register form. GlamourStyle picks the
markdown renderer style that matches.

# Animations (animations.go)

SpinnerConfig frame sets, convertible to a bubbles spinner.
*/
package styles
