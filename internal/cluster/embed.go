package cluster

import (
	"context"
	"log"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// embedBackend scores similarity as the cosine similarity of two
// sentence embeddings, generalizing the teacher's genkit.DefineFlow /
// genkit.GenerateData call shape (internal/llm/analyst_flow.go) from a
// structured-generation flow to an embedding request. It is
// capability-flagged: construction fails closed to jaccardBackend rather
// than the pipeline erroring, so a missing or misconfigured embedder model
// degrades clustering quality instead of the run.
type embedBackend struct {
	g           *genkit.Genkit
	embedderName string
	cache       map[string][]float32
}

// NewEmbedBackend wires a genkit embedder as the C7 similarity backend. g
// and embedderName come from pipeline construction (SPEC_FULL §2); an
// empty embedderName means the capability was not configured and the
// caller should fall back to NewJaccardBackend.
func NewEmbedBackend(g *genkit.Genkit, embedderName string) SimilarityBackend {
	if g == nil || embedderName == "" {
		return jaccardBackend{}
	}
	return &embedBackend{g: g, embedderName: embedderName, cache: make(map[string][]float32)}
}

func NewJaccardBackend() SimilarityBackend { return jaccardBackend{} }

func (e *embedBackend) Name() string { return "embedding:" + e.embedderName }

func (e *embedBackend) Similarity(a, b string) float64 {
	va, okA := e.vectorFor(a)
	vb, okB := e.vectorFor(b)
	if !okA || !okB {
		return jaccardBackend{}.Similarity(a, b)
	}
	return cosine(va, vb)
}

func (e *embedBackend) vectorFor(text string) ([]float32, bool) {
	if v, ok := e.cache[text]; ok {
		return v, true
	}
	resp, err := genkit.Embed(context.Background(), e.g,
		ai.WithEmbedderName(e.embedderName),
		ai.WithTextDocs(text),
	)
	if err != nil || len(resp.Embeddings) == 0 {
		log.Printf("[cluster] embedder %q unavailable, falling back to token overlap: %v", e.embedderName, err)
		return nil, false
	}
	vec := resp.Embeddings[0].Embedding
	e.cache[text] = vec
	return vec, true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
