// Package evaluator scores candidate papers against a research profile using
// a remote model, in parallel and with graceful degradation.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FaroutYLq/whatsup/internal/ai"
	"github.com/FaroutYLq/whatsup/internal/library"
	"github.com/FaroutYLq/whatsup/internal/logger"
	"github.com/FaroutYLq/whatsup/internal/utils"
)

const (
	// maxAttempts bounds calls per paper when the remote scorer throttles.
	maxAttempts = 5
	// baseDelay is doubled on each throttled attempt; jitter in [0,1s) is
	// added so concurrent tasks do not retry in lockstep.
	baseDelay = time.Second

	maxVerboseSamples = 3
	titleLogLimit     = 50

	rateLimitReason       = "Rate limit exceeded"
	evaluationErrorReason = "Evaluation error"
)

var waitFor = utils.WaitFor

// Config holds the per-run evaluation settings. It is immutable for the
// lifetime of an Evaluator.
type Config struct {
	Threshold  float64
	MaxWorkers int
	Verbose    bool
}

type Evaluator struct {
	generator ai.Generator
	logger    *zap.Logger
	cfg       Config

	progress func(done, total int)

	sampleMu sync.Mutex
	samples  int
}

// New validates the configuration and builds an Evaluator. Configuration
// mistakes are programmer errors and fail immediately.
func New(generator ai.Generator, log *zap.Logger, cfg Config) (*Evaluator, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("max workers must be positive, got %d", cfg.MaxWorkers)
	}
	if cfg.Threshold < 0 || cfg.Threshold > maxScore {
		return nil, fmt.Errorf("threshold must be within [0, %v], got %v", maxScore, cfg.Threshold)
	}
	log = logger.WithScorerFields(log, generator.Provider(), generator.Model())

	return &Evaluator{generator: generator, logger: log, cfg: cfg}, nil
}

// OnProgress registers a callback invoked after each completed paper with the
// number of finished papers and the batch size. Completion order is not the
// input order, so fn must be safe for concurrent use.
func (e *Evaluator) OnProgress(fn func(done, total int)) {
	e.progress = fn
}

// Evaluate scores every paper against the research context and interests,
// keeps those at or above the threshold and returns them sorted by score
// descending. Ties keep input order: results are collected into per-index
// slots and the sort is stable. Individual failures degrade to sentinel
// scores and never abort the batch.
func (e *Evaluator) Evaluate(ctx context.Context, papers *library.Papers, researchContext, interests string) *library.Digest {
	total := papers.Len()
	if total == 0 {
		return &library.Digest{}
	}

	results := make([]*library.ScoredPaper, total)

	var done atomic.Int64
	var group errgroup.Group
	group.SetLimit(e.cfg.MaxWorkers)

	for i, paper := range papers.Items {
		group.Go(func() error {
			score, reason := e.evaluateOne(ctx, paper, researchContext, interests)
			results[i] = &library.ScoredPaper{
				Paper:           *paper,
				RelevanceScore:  score,
				RelevanceReason: reason,
			}

			if e.progress != nil {
				e.progress(int(done.Add(1)), total)
			}
			return nil
		})
	}

	// Tasks never return errors; degraded outcomes are regular results.
	_ = group.Wait()

	relevant := make([]*library.ScoredPaper, 0, total)
	for _, result := range results {
		if result.RelevanceScore >= e.cfg.Threshold {
			relevant = append(relevant, result)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].RelevanceScore > relevant[j].RelevanceScore
	})

	return &library.Digest{Items: relevant}
}

// evaluateOne resolves a single paper to a (score, reason) pair. Throttling
// is retried with exponential backoff and jitter; every other failure mode
// degrades to a sentinel result immediately.
func (e *Evaluator) evaluateOne(ctx context.Context, paper *library.Paper, researchContext, interests string) (float64, string) {
	prompt := buildPrompt(paper, researchContext, interests)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
		if err == nil {
			score, reason := parseResponse(raw)

			if score == 0 {
				e.logger.Debug("no positive score parsed from response",
					zap.String(logger.FieldPaperTitle, paper.Title),
					zap.String("raw_response", raw),
				)
			}

			e.logSample(paper.Title, raw, score, reason)

			return score, reason
		}

		if !ai.IsThrottled(err) {
			e.logger.Warn("evaluation failed",
				zap.String(logger.FieldPaperTitle, utils.TruncateForLog(paper.Title, titleLogLimit)),
				zap.Error(err),
			)
			return 0, evaluationErrorReason
		}

		if attempt == maxAttempts-1 {
			break
		}

		delay := baseDelay*(1<<attempt) + time.Duration(rand.Float64()*float64(time.Second))

		e.logger.Debug("throttled by remote scorer, backing off",
			zap.String(logger.FieldPaperTitle, utils.TruncateForLog(paper.Title, titleLogLimit)),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		if waitErr := waitFor(ctx, delay); waitErr != nil {
			// Canceled mid-backoff: resolve to a sentinel like any other
			// failure so the batch contract holds.
			return 0, evaluationErrorReason
		}
	}

	e.logger.Warn("rate limit retries exhausted",
		zap.String(logger.FieldPaperTitle, utils.TruncateForLog(paper.Title, titleLogLimit)),
		zap.Int("attempts", maxAttempts),
	)

	return 0, rateLimitReason
}

// logSample prints the first few raw responses with their parsed outcome for
// manual sanity-checking. The counter is shared across concurrent tasks.
func (e *Evaluator) logSample(title, raw string, score float64, reason string) {
	if !e.cfg.Verbose {
		return
	}

	e.sampleMu.Lock()
	defer e.sampleMu.Unlock()

	if e.samples >= maxVerboseSamples {
		return
	}
	e.samples++

	e.logger.Info("sample scorer response",
		zap.Int("sample", e.samples),
		zap.String(logger.FieldPaperTitle, utils.TruncateForLog(title, titleLogLimit)),
		zap.String("raw_response", raw),
		zap.Float64("parsed_score", score),
		zap.String("parsed_reason", reason),
	)
}
