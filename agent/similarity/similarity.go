// Package similarity scores embeddings against each other.
package similarity

import (
	"math"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

// Cosine returns dot(a,b) / (|a|*|b|). Zero-norm vectors and vectors of
// different dimension score 0.
func Cosine(a, b contractx.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(score):
		return 0
	case score > 1:
		return 1
	case score < -1:
		return -1
	}
	return score
}

// Best returns the index and score of the candidate most similar to query.
// Ties keep the earliest candidate. Returns -1 when there are no candidates.
func Best(query contractx.Vector, candidates []contractx.Vector) (int, float64) {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = Cosine(query, c)
	}
	idx := Argmax(scores)
	if idx < 0 {
		return -1, 0
	}
	return idx, scores[idx]
}

// Argmax returns the index of the first strictly greatest score, or -1 for
// an empty slice.
func Argmax(scores []float64) int {
	best, bestScore := -1, math.Inf(-1)
	for i, score := range scores {
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
