package models

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionID,omitempty"`
}

type QueryRequest struct {
	Query         string `json:"query" binding:"required"`
	TopK          int    `json:"topK,omitempty"`
	ForceFallback bool   `json:"forceFallback,omitempty"`
}

type IngestRequest struct {
	// Limit caps how many articles are fetched per feed. Zero means the
	// configured default.
	Limit int `json:"limit,omitempty"`
}

type AddDocumentsRequest struct {
	Documents []Document `json:"documents" binding:"required"`
}
