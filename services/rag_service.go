package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"newsrag/models"
)

// RAGService is the retrieval-augmented answering pipeline: ingestion into
// the corpus (and the vector index when available), retrieval, context
// assembly, and generation with an extractive fallback.
type RAGService interface {
	AddDocuments(ctx context.Context, docs []models.Document) int
	Query(ctx context.Context, query string, topK int, forceFallback bool) *models.QueryResponse
	DocumentCount() int
	VectorSearchEnabled() bool
	Clear()
}

type ragServiceImpl struct {
	store     *DocumentStore
	index     VectorIndex
	generator Generator
}

// NewRAGService wires the pipeline. generator may be nil when no generation
// credential is configured; every query then uses the extractive fallback.
func NewRAGService(store *DocumentStore, index VectorIndex, generator Generator) RAGService {
	return &ragServiceImpl{store: store, index: index, generator: generator}
}

func (r *ragServiceImpl) DocumentCount() int { return r.store.Len() }

func (r *ragServiceImpl) VectorSearchEnabled() bool { return r.index.Enabled() }

func (r *ragServiceImpl) Clear() { r.store.Clear() }

// AddDocuments ingests a batch. The vector path is attempted first for the
// not-yet-seen documents; whatever happens there, the documents always land
// in the in-process store so the lexical fallback corpus is never missing
// data the vector path has. Returns how many documents were newly added.
func (r *ragServiceImpl) AddDocuments(ctx context.Context, docs []models.Document) int {
	fresh := r.store.FilterNew(docs)
	if len(fresh) > 0 {
		r.indexRemotely(ctx, fresh)
	}
	added := r.store.Add(docs)
	log.Printf("SERVICE: ingested %d documents (%d duplicates skipped)", added, len(docs)-added)
	return added
}

// indexRemotely upserts new documents into the vector store. An embedding
// count mismatch means the batch is inconsistent; the whole attempt is
// discarded rather than partially indexed.
func (r *ragServiceImpl) indexRemotely(ctx context.Context, fresh []models.Document) {
	if !r.index.Enabled() || !r.index.EnsureCollection(ctx) {
		return
	}
	texts := make([]string, 0, len(fresh))
	metas := make([]models.DocumentMetadata, 0, len(fresh))
	ids := make([]string, 0, len(fresh))
	for _, doc := range fresh {
		texts = append(texts, doc.Text)
		metas = append(metas, doc.Metadata)
		ids = append(ids, uuid.New().String())
	}
	vectors := r.index.Embed(ctx, texts)
	if len(vectors) != len(texts) {
		log.Printf("SERVICE WARN: embedding count mismatch (%d texts, %d vectors), skipping vector indexing", len(texts), len(vectors))
		return
	}
	if !r.index.Add(ctx, ids, texts, metas, vectors) {
		log.Printf("SERVICE WARN: vector store upsert failed for %d documents", len(fresh))
	}
}

// Query runs retrieve -> assemble -> generate. The vector path is preferred
// for retrieval; generation falls back to an extractive template on the
// first failure, so at most one external generation call happens per query.
func (r *ragServiceImpl) Query(ctx context.Context, query string, topK int, forceFallback bool) (resp *models.QueryResponse) {
	// The pipeline never lets a fault escape to its caller.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("SERVICE ERROR: unexpected fault while answering: %v", rec)
			resp = cannedResponse(msgInternalFault)
		}
	}()

	query = strings.TrimSpace(query)
	if topK <= 0 {
		topK = defaultTopK
	}
	log.Printf("SERVICE: querying with: '%s' (topK=%d, forceFallback=%t)", query, topK, forceFallback)

	retrieved, usedVector, canned := r.retrieve(ctx, query, topK)
	if canned != "" {
		return cannedResponse(canned)
	}

	answer, usedFallback := r.generate(ctx, query, retrieved, forceFallback)
	return &models.QueryResponse{
		Answer:  answer,
		Sources: retrieved,
		Debug: models.QueryDebug{
			UsedFallback: usedFallback,
			VectorSearch: usedVector,
			Retrieved:    len(retrieved),
		},
	}
}

// retrieve returns the top-K documents for the query. A non-empty canned
// message signals a terminal no-data state; generation is skipped.
func (r *ragServiceImpl) retrieve(ctx context.Context, query string, topK int) (docs []models.SourceDocument, usedVector bool, canned string) {
	// Vector path first; an empty or failed remote result falls through to
	// the lexical corpus, which is never missing data the vector path has.
	if vectorDocs := r.vectorRetrieve(ctx, query, topK); len(vectorDocs) > 0 {
		return vectorDocs, true, ""
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, false, msgEmptyQuery
	}
	if r.store.Len() == 0 {
		return nil, false, msgNoDocuments
	}

	documents, vectors := r.store.Snapshot()
	ranked := RankDocuments(Vectorize(tokens), vectors, topK)
	if len(ranked) == 0 {
		return nil, false, msgNoMatch
	}
	docs = make([]models.SourceDocument, 0, len(ranked))
	for _, c := range ranked {
		docs = append(docs, models.SourceDocument{
			Content:  documents[c.Index].Text,
			Metadata: documents[c.Index].Metadata,
		})
	}
	return docs, false, ""
}

// vectorRetrieve attempts the remote similarity search. It returns nil
// whenever the vector path is unavailable or failed.
func (r *ragServiceImpl) vectorRetrieve(ctx context.Context, query string, topK int) []models.SourceDocument {
	if !r.index.Enabled() || !r.index.EnsureCollection(ctx) {
		return nil
	}
	vectors := r.index.Embed(ctx, []string{query})
	if len(vectors) != 1 {
		return nil
	}
	return r.index.Query(ctx, vectors[0], topK)
}

// generate produces the answer text. When forceFallback is unset, exactly
// one generation attempt is made; on failure the extractive fallback takes
// over. The fallback never calls the external service, so a second failure
// is unreachable.
func (r *ragServiceImpl) generate(ctx context.Context, query string, retrieved []models.SourceDocument, forceFallback bool) (string, bool) {
	if !forceFallback && r.generator != nil {
		prompt := "Context:\n" + BuildContext(retrieved) + "\n\nQuestion: " + query
		answer, err := r.generator.Generate(ctx, SystemInstruction, prompt)
		if err == nil {
			return answer, false
		}
		log.Printf("SERVICE WARN: generation failed, using fallback: %v", err)
	}
	return fallbackAnswer(retrieved[0]), true
}

func cannedResponse(answer string) *models.QueryResponse {
	return &models.QueryResponse{
		Answer:  answer,
		Sources: []models.SourceDocument{},
	}
}
