package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"newsrag/models"
)

// VectorIndex is the optional remote vector-store capability. Every method
// degrades instead of failing: a disabled or broken index reports false/nil
// and the caller falls back to the lexical path. Nothing here ever returns
// an error to the pipeline.
type VectorIndex interface {
	Enabled() bool
	// EnsureCollection resolves (lazily creating) the remote collection and
	// caches the handle for the process lifetime. False means the vector
	// path is unavailable for this call.
	EnsureCollection(ctx context.Context) bool
	// Embed returns one vector per text, or nil on any failure.
	Embed(ctx context.Context, texts []string) [][]float32
	// Add upserts a batch; all four slices must be parallel.
	Add(ctx context.Context, ids, texts []string, metas []models.DocumentMetadata, vectors [][]float32) bool
	// Query returns the k nearest documents, or nil on any failure.
	Query(ctx context.Context, vector []float32, k int) []models.SourceDocument
}

// noopIndex is the default when either the embedding credential or the
// vector database endpoint is missing.
type noopIndex struct{}

// NewNoopIndex returns a VectorIndex that is never available.
func NewNoopIndex() VectorIndex { return noopIndex{} }

func (noopIndex) Enabled() bool                                { return false }
func (noopIndex) EnsureCollection(context.Context) bool        { return false }
func (noopIndex) Embed(context.Context, []string) [][]float32  { return nil }
func (noopIndex) Add(context.Context, []string, []string, []models.DocumentMetadata, [][]float32) bool {
	return false
}
func (noopIndex) Query(context.Context, []float32, int) []models.SourceDocument { return nil }

// ChromaIndex delegates embedding to the Gemini embedding API and similarity
// search to a ChromaDB collection.
type ChromaIndex struct {
	client   chromago.Client
	embedder Embedder
	name     string

	mu         sync.Mutex
	collection chromago.Collection
}

// NewChromaIndex creates a Chroma client against the configured endpoint.
// The collection itself is resolved lazily on first use.
func NewChromaIndex(cfg *Config, embedder Embedder) (*ChromaIndex, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}
	return &ChromaIndex{client: client, embedder: embedder, name: cfg.ChromaCollection}, nil
}

// Close releases the underlying Chroma client resources.
func (c *ChromaIndex) Close() error { return c.client.Close() }

func (c *ChromaIndex) Enabled() bool { return true }

func (c *ChromaIndex) EnsureCollection(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collection != nil {
		return true
	}
	collection, err := c.client.GetOrCreateCollection(
		ctx,
		c.name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "news article collection"),
				chromago.NewStringAttribute("created_by", "newsrag"),
			),
		),
	)
	if err != nil {
		log.Printf("CHROMA ERROR: failed to get or create collection '%s': %v", c.name, err)
		return false
	}
	log.Printf("CHROMA: resolved collection '%s'", c.name)
	c.collection = collection
	return true
}

func (c *ChromaIndex) Embed(ctx context.Context, texts []string) [][]float32 {
	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		log.Printf("CHROMA WARN: embedding failed: %v", err)
		return nil
	}
	return vectors
}

func (c *ChromaIndex) Add(ctx context.Context, ids, texts []string, metas []models.DocumentMetadata, vectors [][]float32) bool {
	c.mu.Lock()
	collection := c.collection
	c.mu.Unlock()
	if collection == nil {
		return false
	}

	docIDs := make([]chromago.DocumentID, 0, len(ids))
	for _, id := range ids {
		docIDs = append(docIDs, chromago.DocumentID(id))
	}
	embs := make([]embeddings.Embedding, 0, len(vectors))
	for _, vec := range vectors {
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(vec))
	}
	metadatas := make([]chromago.DocumentMetadata, 0, len(metas))
	for _, meta := range metas {
		metadatas = append(metadatas, chromago.NewDocumentMetadata(
			chromago.NewStringAttribute("title", meta.Title),
			chromago.NewStringAttribute("url", meta.URL),
			chromago.NewStringAttribute("publishedAt", meta.PublishedAt),
			chromago.NewStringAttribute("source", meta.Source),
		))
	}

	err := collection.Add(ctx,
		chromago.WithIDs(docIDs...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metadatas...),
	)
	if err != nil {
		log.Printf("CHROMA ERROR: failed to add batch of %d documents: %v", len(ids), err)
		return false
	}
	return true
}

func (c *ChromaIndex) Query(ctx context.Context, vector []float32, k int) []models.SourceDocument {
	c.mu.Lock()
	collection := c.collection
	c.mu.Unlock()
	if collection == nil {
		return nil
	}

	results, err := collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chromago.WithNResults(k),
	)
	if err != nil {
		log.Printf("CHROMA WARN: query failed: %v", err)
		return nil
	}

	docs := []models.SourceDocument{}
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	if len(documentGroups) == 0 {
		return docs
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		var meta models.DocumentMetadata
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) && metadataGroups[0][i] != nil {
			meta = decodeMetadata(metadataGroups[0][i])
		}
		docs = append(docs, models.SourceDocument{Content: doc.ContentString(), Metadata: meta})
	}
	return docs
}

// decodeMetadata converts Chroma's opaque metadata to our document metadata.
// DocumentMetadata exposes no map accessor, so it goes through JSON.
func decodeMetadata(meta chromago.DocumentMetadata) models.DocumentMetadata {
	var out models.DocumentMetadata
	raw, err := json.Marshal(meta)
	if err != nil {
		log.Printf("CHROMA WARN: could not marshal document metadata: %v", err)
		return out
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Printf("CHROMA WARN: could not unmarshal document metadata: %v", err)
		return out
	}
	if v, ok := fields["title"].(string); ok {
		out.Title = v
	}
	if v, ok := fields["url"].(string); ok {
		out.URL = v
	}
	if v, ok := fields["publishedAt"].(string); ok {
		out.PublishedAt = v
	}
	if v, ok := fields["source"].(string); ok {
		out.Source = v
	}
	return out
}
