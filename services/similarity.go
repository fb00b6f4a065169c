package services

import (
	"math"
	"sort"
)

// ScoredCandidate pairs a document store index with its similarity score.
type ScoredCandidate struct {
	Index int
	Score float64
}

// CosineSimilarity computes the cosine of the angle between two sparse
// frequency vectors. When either vector has a zero norm the result is
// exactly 0; that is the documented policy for empty vectors, not an error.
func CosineSimilarity(a, b map[string]int) float64 {
	var dot, normA, normB float64
	for term, fa := range a {
		normA += float64(fa) * float64(fa)
		if fb, ok := b[term]; ok {
			dot += float64(fa) * float64(fb)
		}
	}
	for _, fb := range b {
		normB += float64(fb) * float64(fb)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankDocuments scores the query vector against every document vector,
// stable-sorts descending by score, truncates to topK, and drops candidates
// with score <= 0. Frequencies are non-negative, so the filter only removes
// true zero-similarity matches. Ties keep insertion order.
func RankDocuments(query map[string]int, vectors []map[string]int, topK int) []ScoredCandidate {
	if topK <= 0 {
		topK = defaultTopK
	}
	scored := make([]ScoredCandidate, len(vectors))
	for i, vec := range vectors {
		scored[i] = ScoredCandidate{Index: i, Score: CosineSimilarity(query, vec)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	ranked := make([]ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Score > 0 {
			ranked = append(ranked, c)
		}
	}
	return ranked
}
