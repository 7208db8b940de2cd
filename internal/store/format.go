package store

import (
	"fmt"
	"strings"
)

// FormatEntries renders bibliography rows for display. format is "compact"
// (one line per record) or "detailed" (field-per-line).
func FormatEntries(entries []Entry, jsonEntries []JSONEntry, format string) string {
	var sb strings.Builder

	if len(entries) == 0 && len(jsonEntries) == 0 {
		return "No bibliography entries found."
	}

	if len(entries) > 0 {
		sb.WriteString(fmt.Sprintf("Text-derived entries (%d):\n", len(entries)))
		for _, e := range entries {
			if format == "detailed" {
				sb.WriteString(fmt.Sprintf("[%d]\n", e.ID))
				writeField(&sb, "author", e.Author)
				writeField(&sb, "title", e.Title)
				writeField(&sb, "year", e.Year)
				writeField(&sb, "place", e.Place)
				writeField(&sb, "publisher", e.Publisher)
				writeField(&sb, "pages", e.Pages)
				writeField(&sb, "library", e.Library)
				writeField(&sb, "note", e.Note)
				writeField(&sb, "full_entry", e.FullEntry)
			} else {
				sb.WriteString(fmt.Sprintf("[%d] %s\n", e.ID, compactLine(e)))
			}
		}
	}

	if len(jsonEntries) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Catalog entries (%d):\n", len(jsonEntries)))
		for _, e := range jsonEntries {
			if format == "detailed" {
				sb.WriteString(fmt.Sprintf("[%d]\n", e.ID))
				writeField(&sb, "lastname", deref(e.Lastname))
				writeField(&sb, "firstname", deref(e.Firstname))
				writeField(&sb, "birthyear", deref(e.Birthyear))
				writeField(&sb, "deathyear", deref(e.Deathyear))
				writeField(&sb, "title", deref(e.Title))
				writeField(&sb, "city", deref(e.City))
				writeField(&sb, "publisher", deref(e.Publisher))
				writeField(&sb, "publishyear", deref(e.Publishyear))
				writeField(&sb, "pagecount", deref(e.Pagecount))
				writeField(&sb, "library", deref(e.Library))
				writeField(&sb, "description", deref(e.Description))
				writeField(&sb, "index", deref(e.IndexNum))
				writeField(&sb, "source_file", e.SourceFile)
			} else {
				sb.WriteString(fmt.Sprintf("[%d] %s\n", e.ID, compactJSONLine(e)))
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func compactLine(e Entry) string {
	parts := []string{}
	if e.Author != "" {
		parts = append(parts, e.Author)
	}
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	line := strings.Join(parts, ": ")
	if line == "" {
		line = firstLine(e.FullEntry)
	}
	if e.Year != "" {
		line += fmt.Sprintf(" (%s)", e.Year)
	}
	return line
}

func compactJSONLine(e JSONEntry) string {
	name := strings.TrimSpace(strings.TrimPrefix(deref(e.Lastname)+", "+deref(e.Firstname), ", "))
	name = strings.TrimSuffix(name, ", ")
	parts := []string{}
	if name != "" {
		parts = append(parts, name)
	}
	if t := deref(e.Title); t != "" {
		parts = append(parts, t)
	}
	line := strings.Join(parts, ": ")
	if line == "" {
		line = "(untitled)"
	}
	if y := deref(e.Publishyear); y != "" {
		line += fmt.Sprintf(" (%s)", y)
	}
	return line
}

func writeField(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
