package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsrag/models"
	"newsrag/services"
)

// RAGController handles the HTTP requests for the news RAG API. It parses
// and validates requests and delegates everything else to the services.
type RAGController struct {
	ragService     services.RAGService
	sessionService *services.SessionService
	feedService    *services.FeedService
}

// NewRAGController is called from main.go to inject the service
// dependencies.
func NewRAGController(rag services.RAGService, sessions *services.SessionService, feeds *services.FeedService) *RAGController {
	return &RAGController{
		ragService:     rag,
		sessionService: sessions,
		feedService:    feeds,
	}
}

// Chat is the handler for POST /api/v1/chat. It answers within a session,
// creating one when no session id is supplied.
func (c *RAGController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	response := c.sessionService.Chat(ctx.Request.Context(), req.Message, req.SessionID)
	ctx.JSON(http.StatusOK, response)
}

// Query is the handler for POST /api/v1/query: a sessionless pass through
// the retrieval pipeline, with optional topK and forceFallback knobs.
func (c *RAGController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	response := c.ragService.Query(ctx.Request.Context(), req.Query, req.TopK, req.ForceFallback)
	ctx.JSON(http.StatusOK, response)
}

// Ingest is the handler for POST /api/v1/ingest. It pulls the configured
// feeds and reports per-feed results.
func (c *RAGController) Ingest(ctx *gin.Context) {
	var req models.IngestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	response := c.feedService.IngestAll(ctx.Request.Context(), req.Limit)
	ctx.JSON(http.StatusOK, response)
}

// AddDocuments is the handler for POST /api/v1/documents: a manual document
// batch, mostly useful for seeding and testing.
func (c *RAGController) AddDocuments(ctx *gin.Context) {
	var req models.AddDocumentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	added := c.ragService.AddDocuments(ctx.Request.Context(), req.Documents)
	ctx.JSON(http.StatusCreated, gin.H{"added": added})
}

// ClearDocuments is the handler for DELETE /api/v1/documents. It resets the
// in-process corpus and its dedup keys together, for re-seeding scenarios.
func (c *RAGController) ClearDocuments(ctx *gin.Context) {
	c.ragService.Clear()
	ctx.JSON(http.StatusOK, gin.H{"message": "Document store cleared"})
}

// Stats is the handler for GET /api/v1/stats.
func (c *RAGController) Stats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.StatsResponse{
		Documents:    c.ragService.DocumentCount(),
		Sessions:     c.sessionService.Count(),
		VectorSearch: c.ragService.VectorSearchEnabled(),
	})
}
