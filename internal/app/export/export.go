// Package export renders conversation and debate transcripts into the three
// download formats. Everything here is a pure function of its inputs plus
// the supplied timestamp.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kongmeng/sages/internal/domain"
)

type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// timestampLayout is stable and sortable.
const timestampLayout = "2006-01-02 15:04:05"

// ParseFormat resolves a raw format string.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatText, FormatMarkdown, FormatJSON:
		return Format(s), true
	}
	return "", false
}

// MIMEType returns the content type for a format, empty when unknown.
func (f Format) MIMEType() string {
	switch f {
	case FormatText, FormatMarkdown:
		return "text/plain; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return ""
}

// Render serializes a single-persona conversation. Unknown formats render
// to the empty string, deliberately not an error.
func Render(turns []domain.Turn, personaName string, format Format, now time.Time) string {
	switch format {
	case FormatText:
		return renderText(turns, personaName, now)
	case FormatMarkdown:
		return renderMarkdown(turns, personaName, now)
	case FormatJSON:
		return renderJSON(turns, personaName, now)
	}
	return ""
}

func renderText(turns []domain.Turn, personaName string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation with %s\n", personaName)
	fmt.Fprintf(&b, "Exported: %s\n", now.Format(timestampLayout))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, turn := range turns {
		fmt.Fprintf(&b, "%s:\n%s\n\n", roleLabel(turn.Role, personaName), turn.Content)
	}
	return b.String()
}

func renderMarkdown(turns []domain.Turn, personaName string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation with %s\n\n", personaName)
	fmt.Fprintf(&b, "**Exported:** %s\n\n", now.Format(timestampLayout))
	b.WriteString("---\n\n")

	for _, turn := range turns {
		fmt.Fprintf(&b, "**%s**:\n\n%s\n\n", roleLabel(turn.Role, personaName), turn.Content)
	}
	return b.String()
}

// conversationDocument is the JSON export shape. Messages keep their
// original role/content pairs so the export round-trips losslessly.
type conversationDocument struct {
	Philosopher string            `json:"philosopher"`
	ExportedAt  string            `json:"exported_at"`
	Messages    []exportedMessage `json:"messages"`
}

type exportedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func renderJSON(turns []domain.Turn, personaName string, now time.Time) string {
	doc := conversationDocument{
		Philosopher: personaName,
		ExportedAt:  now.Format(timestampLayout),
		Messages:    make([]exportedMessage, 0, len(turns)),
	}
	for _, turn := range turns {
		doc.Messages = append(doc.Messages, exportedMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

func roleLabel(role domain.Role, personaName string) string {
	if role == domain.RoleUser {
		return "You"
	}
	return personaName
}

// RenderDebate serializes the shared debate log.
func RenderDebate(entries []domain.DebateEntry, format Format, now time.Time) string {
	switch format {
	case FormatText:
		return renderDebateText(entries, now)
	case FormatMarkdown:
		return renderDebateMarkdown(entries, now)
	case FormatJSON:
		return renderDebateJSON(entries, now)
	}
	return ""
}

func renderDebateText(entries []domain.DebateEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString("Philosophical Debate\n")
	if topic, ok := debateTopic(entries); ok {
		fmt.Fprintf(&b, "Topic: %s\n", topic)
	}
	fmt.Fprintf(&b, "Exported: %s\n", now.Format(timestampLayout))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, e := range entries {
		if e.Kind != domain.EntryResponse {
			continue
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", speakerName(e.Speaker), e.Content)
	}
	return b.String()
}

func renderDebateMarkdown(entries []domain.DebateEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Philosophical Debate\n\n")
	if topic, ok := debateTopic(entries); ok {
		fmt.Fprintf(&b, "**Topic:** %s\n\n", topic)
	}
	fmt.Fprintf(&b, "**Exported:** %s\n\n", now.Format(timestampLayout))
	b.WriteString("---\n\n")

	for _, e := range entries {
		if e.Kind != domain.EntryResponse {
			continue
		}
		fmt.Fprintf(&b, "**%s**:\n\n%s\n\n", speakerName(e.Speaker), e.Content)
	}
	return b.String()
}

type debateDocument struct {
	Topic      string                 `json:"topic"`
	ExportedAt string                 `json:"exported_at"`
	Messages   []exportedDebateRemark `json:"messages"`
}

type exportedDebateRemark struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

func renderDebateJSON(entries []domain.DebateEntry, now time.Time) string {
	doc := debateDocument{
		ExportedAt: now.Format(timestampLayout),
	}
	if topic, ok := debateTopic(entries); ok {
		doc.Topic = topic
	}
	for _, e := range entries {
		if e.Kind != domain.EntryResponse {
			continue
		}
		doc.Messages = append(doc.Messages, exportedDebateRemark{
			Speaker: speakerName(e.Speaker),
			Content: e.Content,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

func debateTopic(entries []domain.DebateEntry) (string, bool) {
	if len(entries) == 0 || entries[0].Kind != domain.EntryTopic {
		return "", false
	}
	return entries[0].Content, true
}

func speakerName(id domain.PersonaID) string {
	if p, ok := domain.GetPersona(id); ok {
		return p.DisplayName
	}
	return string(id)
}

// FileName suggests a download name for a single-persona export.
func FileName(personaName string, format Format) string {
	return fmt.Sprintf("%s_conversation.%s", strings.ToLower(personaName), format)
}

// DebateFileName suggests a download name derived from the first 30
// characters of the topic with spaces as underscores. Truncation counts
// runes so multibyte topics never produce an invalid UTF-8 name.
func DebateFileName(topic string, format Format) string {
	slug := topic
	if runes := []rune(slug); len(runes) > 30 {
		slug = string(runes[:30])
	}
	slug = strings.ReplaceAll(slug, " ", "_")
	return fmt.Sprintf("debate_%s.%s", slug, format)
}
