// Package semantic scores the overlap between resume text and job requirements.
//
// Word-set Jaccard similarity is the default. When an embedding backend is configured
// and reachable, cosine similarity of dense embeddings is used instead.
package semantic

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Method names the algorithm that produced a score
type Method string

// Scoring methods
const (
	MethodWordOverlap Method = "word_overlap"
	MethodEmbedding   Method = "embedding"
)

// Embedder turns text into a dense vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Loader creates the Embedder on first use
type Loader func(ctx context.Context) (Embedder, error)

// Options configures the scorer
type Options struct {
	Cap              float64
	UseEmbeddings    bool
	ResumeChars      int // resume excerpt length for embeddings
	RequirementChars int // requirement string length for embeddings
}

// DefaultOptions returns word-overlap scoring capped at 50.
func DefaultOptions() Options {
	return Options{Cap: 50, ResumeChars: 500, RequirementChars: 300}
}

// Result is a semantic score with the method that produced it.
// Degraded is set when embeddings were requested but word overlap was used.
type Result struct {
	Score    float64
	Method   Method
	Degraded bool
}

// Scorer computes semantic scores. The embedder is loaded at most once.
type Scorer struct {
	opts   Options
	loader Loader
	logger *zap.Logger

	once     sync.Once
	embedder Embedder
	loadErr  error
}

// NewScorer creates a Scorer. loader may be nil, in which case only word overlap is available.
func NewScorer(opts Options, loader Loader, logger *zap.Logger) *Scorer {
	if opts.Cap <= 0 {
		opts.Cap = 50
	}
	if opts.ResumeChars <= 0 {
		opts.ResumeChars = 500
	}
	if opts.RequirementChars <= 0 {
		opts.RequirementChars = 300
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{opts: opts, loader: loader, logger: logger}
}

// EmbeddingsAvailable reports whether the embedding backend can be used, loading it if needed.
func (s *Scorer) EmbeddingsAvailable(ctx context.Context) bool {
	if s.loader == nil {
		return false
	}
	s.once.Do(func() {
		s.embedder, s.loadErr = s.loader(ctx)
		if s.loadErr == nil && s.embedder == nil {
			s.loadErr = fmt.Errorf("embedding loader returned no embedder")
		}
		if s.loadErr != nil {
			s.logger.Warn("embedding model unavailable, using word overlap", zap.Error(s.loadErr))
		}
	})
	return s.loadErr == nil
}

// Score returns the semantic score of resume against skills.
func (s *Scorer) Score(ctx context.Context, resume string, skills []string) Result {
	if len(skills) == 0 {
		return Result{Score: 0, Method: MethodWordOverlap}
	}

	if s.opts.UseEmbeddings {
		if s.EmbeddingsAvailable(ctx) {
			score, err := s.embeddingScore(ctx, resume, skills)
			if err == nil {
				return Result{Score: score, Method: MethodEmbedding}
			}
			s.logger.Warn("embedding score failed, using word overlap", zap.Error(err))
		}
		return Result{Score: WordOverlap(resume, skills, s.opts.Cap), Method: MethodWordOverlap, Degraded: true}
	}

	return Result{Score: WordOverlap(resume, skills, s.opts.Cap), Method: MethodWordOverlap}
}

func (s *Scorer) embeddingScore(ctx context.Context, resume string, skills []string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("embedder panic: %v", r)
		}
	}()

	resumeVec, err := s.embedder.Embed(ctx, excerpt(resume, s.opts.ResumeChars))
	if err != nil {
		return 0, fmt.Errorf("failed to embed resume: %w", err)
	}
	reqVec, err := s.embedder.Embed(ctx, excerpt(strings.Join(skills, " "), s.opts.RequirementChars))
	if err != nil {
		return 0, fmt.Errorf("failed to embed requirements: %w", err)
	}

	sim, err := Cosine(resumeVec, reqVec)
	if err != nil {
		return 0, err
	}
	return clamp(sim*s.opts.Cap, 0, s.opts.Cap), nil
}

// WordOverlap returns the Jaccard similarity of the whitespace-separated word sets of
// resume and the joined skills, scaled to [0, maxScore]. Comparison is case-insensitive.
func WordOverlap(resume string, skills []string, maxScore float64) float64 {
	resumeWords := wordSet(resume)
	skillWords := wordSet(strings.Join(skills, " "))
	if len(skillWords) == 0 {
		return 0
	}

	intersection := 0
	for w := range skillWords {
		if _, ok := resumeWords[w]; ok {
			intersection++
		}
	}
	union := len(resumeWords) + len(skillWords) - intersection
	if union == 0 {
		return 0
	}

	return math.Min(float64(intersection)/float64(union)*maxScore, maxScore)
}

// Cosine returns the cosine similarity of two vectors of equal length.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("cannot compare vectors of length %d and %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("cannot compare zero vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
