package app

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/refactorforge/patternscan/internal/adapters/forgeapi"
)

// GenerationResult records one repository's recommendation generation
// attempt. Network failures are captured here, never propagated; a failing
// repository must not abort the rest of the batch.
type GenerationResult struct {
	RepositoryID         int64         `json:"repository_id"`
	RepositoryName       string        `json:"repository_name"`
	TechStack            string        `json:"tech_stack"`
	RecommendationsCount int           `json:"recommendations_count"`
	Success              bool          `json:"success"`
	ErrorMessage         string        `json:"error_message,omitempty"`
	GenerationTime       time.Duration `json:"generation_time_ns"`
}

// VerificationResult records whether a repository's recommendations carry
// populated metric fields.
type VerificationResult struct {
	RepositoryID         int64  `json:"repository_id"`
	RepositoryName       string `json:"repository_name"`
	TotalRecommendations int    `json:"total_recommendations"`
	WithMetrics          int    `json:"recommendations_with_metrics"`
	MetricsPopulated     bool   `json:"metrics_populated"`
	Error                string `json:"error,omitempty"`
}

// BatchResult is the full outcome of one multi-repository batch.
type BatchResult struct {
	Results       []GenerationResult   `json:"results"`
	Verifications []VerificationResult `json:"verifications"`
	TotalTime     time.Duration        `json:"total_time_ns"`
}

// requestPause spaces sequential API calls so the backend isn't hammered.
const requestPause = 500 * time.Millisecond

// Batch generates recommendations for every repository the backend knows
// about, then verifies metrics population, sequentially.
type Batch struct {
	client *forgeapi.Client
	log    *bolt.Logger
	pause  time.Duration
}

// NewBatch creates a batch runner. A zero pause uses the default spacing.
func NewBatch(client *forgeapi.Client, log *bolt.Logger, pause time.Duration) *Batch {
	if pause <= 0 {
		pause = requestPause
	}
	return &Batch{client: client, log: log, pause: pause}
}

// Run lists repositories and processes each in turn. Per-repository errors
// are recorded as failed results; only the initial repository listing can
// fail the batch outright.
func (b *Batch) Run(ctx context.Context) (*BatchResult, error) {
	start := time.Now()

	repos, err := b.client.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}

	out := &BatchResult{}
	for i, repo := range repos {
		if repo.ID == 0 {
			if b.log != nil {
				b.log.Warn().Str("repository", repo.Name).Msg("skipping repository with missing ID")
			}
			continue
		}
		out.Results = append(out.Results, b.generate(ctx, repo))
		if i < len(repos)-1 {
			b.sleep(ctx, b.pause)
		}
	}

	for _, repo := range repos {
		if repo.ID == 0 {
			continue
		}
		out.Verifications = append(out.Verifications, b.verify(ctx, repo))
		b.sleep(ctx, b.pause/2)
	}

	out.TotalTime = time.Since(start)
	return out, nil
}

// generate triggers recommendation generation for one repository.
func (b *Batch) generate(ctx context.Context, repo forgeapi.Repository) GenerationResult {
	start := time.Now()
	result := GenerationResult{
		RepositoryID:   repo.ID,
		RepositoryName: repo.Name,
		TechStack:      repo.TechStack,
	}

	count, err := b.client.GenerateRecommendations(ctx, repo.ID)
	result.GenerationTime = time.Since(start)
	if err != nil {
		result.ErrorMessage = err.Error()
		if b.log != nil {
			b.log.Error().Str("repository", repo.Name).Err(err).Msg("recommendation generation failed")
		}
		return result
	}

	result.Success = true
	result.RecommendationsCount = count
	if b.log != nil {
		b.log.Info().
			Str("repository", repo.Name).
			Int("recommendations", count).
			Int64("elapsed_ms", result.GenerationTime.Milliseconds()).
			Msg("recommendations generated")
	}
	return result
}

// verify fetches a repository's recommendations and counts how many carry
// non-placeholder metric values.
func (b *Batch) verify(ctx context.Context, repo forgeapi.Repository) VerificationResult {
	result := VerificationResult{
		RepositoryID:   repo.ID,
		RepositoryName: repo.Name,
	}

	recs, err := b.client.FetchRecommendations(ctx, repo.ID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.TotalRecommendations = len(recs)
	for _, rec := range recs {
		if rec.HasMetrics() {
			result.WithMetrics++
		}
	}
	result.MetricsPopulated = result.WithMetrics > 0
	return result
}

// sleep pauses between sequential requests, bailing early on cancellation.
func (b *Batch) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
