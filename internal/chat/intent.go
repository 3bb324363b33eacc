// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"regexp"
	"strings"
)

// orderReferencePattern matches an order id token anywhere in a message.
var orderReferencePattern = regexp.MustCompile(`(?i)\bPB\d{6}\b`)

// FindOrderReference returns the first order id in text, upper-cased.
func FindOrderReference(text string) (string, bool) {
	match := orderReferencePattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}
