package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsrag/models"
	"newsrag/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, services.RAGService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewDocumentStore()
	rag := services.NewRAGService(store, services.NewNoopIndex(), nil)
	sessions := services.NewSessionService(rag)
	// No feeds configured: ingest becomes a harmless no-op in tests.
	feeds := services.NewFeedService(http.DefaultClient, rag, nil)
	ctrl := NewRAGController(rag, sessions, feeds)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/chat", ctrl.Chat)
	api.POST("/query", ctrl.Query)
	api.POST("/ingest", ctrl.Ingest)
	api.POST("/documents", ctrl.AddDocuments)
	api.DELETE("/documents", ctrl.ClearDocuments)
	api.GET("/stats", ctrl.Stats)
	return router, rag
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddDocumentsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/documents", models.AddDocumentsRequest{
		Documents: []models.Document{
			{Text: "cats and dogs are pets", Metadata: models.DocumentMetadata{Title: "A", URL: "u1"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body["added"])
}

func TestQueryEndpoint_EmptyStore(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/query", models.QueryRequest{Query: "pets"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Answer)
	require.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
}

func TestQueryEndpoint_BadBody(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/query", map[string]int{"topK": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpoint_IssuesSessionID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/chat", models.ChatRequest{Message: "hello there"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)

	// A second turn with the same id sticks to the session.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message: "again", SessionID: resp.SessionID,
	})
	var second models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, resp.SessionID, second.SessionID)
}

func TestStatsEndpoint(t *testing.T) {
	router, rag := newTestRouter(t)
	rag.AddDocuments(context.Background(), []models.Document{
		{Text: "cats", Metadata: models.DocumentMetadata{Title: "A", URL: "u1"}},
	})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Documents)
	assert.False(t, stats.VectorSearch)
}

func TestIngestEndpoint_NoFeeds(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/ingest", models.IngestRequest{Limit: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalAdded)
}

func TestClearDocumentsEndpoint(t *testing.T) {
	router, rag := newTestRouter(t)
	rag.AddDocuments(context.Background(), []models.Document{
		{Text: "cats", Metadata: models.DocumentMetadata{Title: "A", URL: "u1"}},
	})

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, rag.DocumentCount())
}

func TestQueryEndpoint_FallbackDebugFlag(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/documents", models.AddDocumentsRequest{
		Documents: []models.Document{
			{Text: "cats and dogs are pets", Metadata: models.DocumentMetadata{Title: "A", URL: "u1"}},
		},
	})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/query", models.QueryRequest{
		Query: "tell me about pets", ForceFallback: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Contains(t, raw, "_debug")

	var debug models.QueryDebug
	require.NoError(t, json.Unmarshal(raw["_debug"], &debug))
	assert.True(t, debug.UsedFallback)
}
