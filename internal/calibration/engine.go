package calibration

// #region imports
import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// #region tone-analyzer

// ToneAnalyzer abstracts the external tone-analysis collaborator so the engine
// can run without a live gateway. Best-effort: failures are tolerated.
type ToneAnalyzer interface {
	AnalyzeTone(ctx context.Context, explanation string) (string, error)
}

// #endregion

// #region engine

// Engine computes the one-time calibration baseline from the first block of
// graded records. Idempotence (compute exactly once) is enforced by the
// session, which refuses to overwrite an existing baseline.
type Engine struct {
	analyzer  ToneAnalyzer // nil when AI assistance is disabled
	toneLimit int
}

// NewEngine creates a calibration engine. analyzer may be nil, in which case
// the tone distribution comes back empty.
func NewEngine(analyzer ToneAnalyzer) *Engine {
	return &Engine{analyzer: analyzer, toneLimit: 4}
}

// #endregion

// #region compute

// Compute derives the baseline from however many graded records exist at
// trigger time (at least CalibrationRequired, but not capped there). The
// trigger guarantees len(records) >= 1, so no division here can hit zero.
func (e *Engine) Compute(ctx context.Context, records []grading.EvaluationRecord) grading.CalibrationBaseline {
	scoresByCriterion := map[string][]int{}
	var explanationLengths []int

	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if ev.Score == nil {
				continue
			}
			scoresByCriterion[ev.CriterionID] = append(scoresByCriterion[ev.CriterionID], *ev.Score)
			explanationLengths = append(explanationLengths, len(ev.Explanation))
		}
	}

	meanScores := make(map[string]float64, len(scoresByCriterion))
	for critID, scores := range scoresByCriterion {
		var sum int
		for _, s := range scores {
			sum += s
		}
		meanScores[critID] = float64(sum) / float64(len(scores))
	}

	var strengthMean float64
	if len(explanationLengths) > 0 {
		var sum int
		for _, l := range explanationLengths {
			sum += l
		}
		strengthMean = float64(sum) / float64(len(explanationLengths))
	}

	return grading.CalibrationBaseline{
		MeanScores:              meanScores,
		ExplanationStrengthMean: strengthMean,
		ToneMean:                e.toneDistribution(ctx, records),
	}
}

// #endregion

// #region tone

// toneDistribution calls the collaborator once per non-empty explanation and
// buckets the descriptions. Counts are divided by the number of graded
// records. Collaborator failures are logged and simply contribute no count.
func (e *Engine) toneDistribution(ctx context.Context, records []grading.EvaluationRecord) map[string]float64 {
	toneMean := map[string]float64{}
	if e.analyzer == nil {
		return toneMean
	}

	var mu sync.Mutex
	counts := map[string]int{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.toneLimit)

	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if ev.Score == nil || strings.TrimSpace(ev.Explanation) == "" {
				continue
			}
			explanation := ev.Explanation
			g.Go(func() error {
				tone, err := e.analyzer.AnalyzeTone(gctx, explanation)
				if err != nil {
					log.Printf("[CALIB] tone analysis failed, skipping: %v", err)
					return nil
				}
				mu.Lock()
				counts[classifyTone(tone)]++
				mu.Unlock()
				return nil
			})
		}
	}
	g.Wait() // workers never return errors

	for category, n := range counts {
		toneMean[category] = float64(n) / float64(len(records))
	}
	return toneMean
}

// classifyTone buckets a free-text tone description into a coarse category.
func classifyTone(tone string) string {
	if strings.Contains(strings.ToLower(tone), "constructive") {
		return "constructive"
	}
	return "other"
}

// #endregion
