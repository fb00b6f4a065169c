package models

// QueryDebug carries diagnostic detail about how an answer was produced.
type QueryDebug struct {
	UsedFallback bool `json:"usedFallback"`
	VectorSearch bool `json:"vectorSearch"`
	Retrieved    int  `json:"retrieved"`
}

// QueryResponse is the result of one pass through the retrieval pipeline.
// Sources is always present; it is empty (never null) when nothing relevant
// was found.
type QueryResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"sources"`
	Debug   QueryDebug       `json:"_debug"`
}

type ChatResponse struct {
	Answer    string           `json:"answer"`
	Sources   []SourceDocument `json:"sources"`
	SessionID string           `json:"sessionID"`
	Debug     QueryDebug       `json:"_debug"`
}

// FeedIngestResult reports how one feed source fared during ingestion.
type FeedIngestResult struct {
	Feed    string `json:"feed"`
	Fetched int    `json:"fetched"`
	Added   int    `json:"added"`
	Error   string `json:"error,omitempty"`
}

type IngestResponse struct {
	Feeds      []FeedIngestResult `json:"feeds"`
	TotalAdded int                `json:"totalAdded"`
}

type StatsResponse struct {
	Documents    int  `json:"documents"`
	Sessions     int  `json:"sessions"`
	VectorSearch bool `json:"vectorSearch"`
}
