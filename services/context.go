package services

import (
	"strings"

	"newsrag/models"
)

const (
	contextExcerptLen  = 500
	fallbackExcerptLen = 150
	defaultTopK        = 3
)

// truncate cuts s at limit characters and appends an ellipsis marker. The
// cutoff is a plain character count, not sentence-aware, so the output is
// reproducible for identical input.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// BuildContext formats retrieved documents into the prompt context: one
// block per document with title, source URL, and a bounded excerpt, joined
// by blank lines in retrieval order.
func BuildContext(docs []models.SourceDocument) string {
	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		var b strings.Builder
		b.WriteString("Title: ")
		b.WriteString(doc.Metadata.Title)
		b.WriteString("\nSource: ")
		b.WriteString(doc.Metadata.URL)
		b.WriteString("\nContent: ")
		b.WriteString(truncate(doc.Content, contextExcerptLen))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// fallbackAnswer synthesizes an extractive answer from the top-ranked
// document: its title, a bounded excerpt, and a read-more pointer. The URL
// clause is omitted when the document has no URL.
func fallbackAnswer(top models.SourceDocument) string {
	var b strings.Builder
	b.WriteString("From \"")
	b.WriteString(top.Metadata.Title)
	b.WriteString("\": ")
	b.WriteString(truncate(top.Content, fallbackExcerptLen))
	if top.Metadata.URL != "" {
		b.WriteString(" Read more: ")
		b.WriteString(top.Metadata.URL)
	}
	return b.String()
}
