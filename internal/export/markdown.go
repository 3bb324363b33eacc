// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/perfburger-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.Title()))

	if e.options.IncludeMetadata {
		if t.Customer != "" {
			fmt.Fprintf(&sb, "- **Cliente**: %s\n", escapeMarkdown(t.Customer))
		}
		if t.SessionID != "" {
			fmt.Fprintf(&sb, "- **Sesión**: `%s`\n", t.SessionID)
		}
		fmt.Fprintf(&sb, "- **Exportado**: %s\n", formatTimestamp(t.ExportedAt))
		fmt.Fprintf(&sb, "- **Mensajes**: %d\n\n---\n\n", len(t.Messages))
	}

	for i, msg := range t.Messages {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}
		sb.WriteString(e.formatMessageContent(msg))
		sb.WriteString("\n\n")
		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// formatMessageContent keeps assistant markup and quotes customer text so
// it is shown verbatim.
func (e *MarkdownExporter) formatMessageContent(msg model.ChatMessage) string {
	content := strings.TrimSpace(msg.Content)
	if msg.IsMarkdown() {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = "> " + escapeMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdown escapes characters that would break formatting in plain text.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
	)
	return r.Replace(s)
}
