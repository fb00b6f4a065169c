package models

// DocumentMetadata describes where a stored document came from.
type DocumentMetadata struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Document is one unit of ingested text. Documents are immutable once stored;
// the trimmed URL is the deduplication key, and an empty URL means the
// document is unkeyed and never deduplicated.
type Document struct {
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
}

// SourceDocument is one retrieved result: the document content plus its origin.
type SourceDocument struct {
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}
