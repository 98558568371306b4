package analytics

// #region imports
import (
	"math"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

// #endregion

// #region input

// Input bundles everything a recompute reads. Analytics only ever consume
// persisted evaluation records, never in-flight draft state.
type Input struct {
	Records  []grading.EvaluationRecord // graded order
	Latest   *grading.EvaluationRecord  // most recently saved record
	Baseline *grading.CalibrationBaseline
	Criteria []rubric.Criterion
	// PrevHeatmap is the heatmap accumulated so far. Recompute appends one
	// value per criterion and never rewrites prior entries.
	PrevHeatmap map[string][]float64
}

// #endregion

// #region recompute

// Recompute derives session metrics from the graded records. It is pure and
// deterministic; drift is skipped (left unpatched) when no baseline exists.
// Callers must only invoke it when at least one record exists.
func Recompute(in Input) grading.AnalyticsPatch {
	var patch grading.AnalyticsPatch

	validity := validityRate(in.Records)
	patch.ExplanationValidityRate = &validity

	driftKnown := false
	var drift float64
	if in.Baseline != nil && in.Latest != nil {
		drift = scoreDrift(*in.Latest, *in.Baseline)
		patch.ScoreDriftPercentage = &drift
		driftKnown = true
	}

	patch.CriterionVarianceHeatmap = appendVariances(in.PrevHeatmap, in.Records, in.Criteria)
	patch.JustificationStrengthTrend = strengthTrend(in.Records)
	patch.HighRiskFlags = riskFlags(validity, analyzedCount(in.Records), drift, driftKnown)

	return patch
}

// #endregion

// #region validity

// validityRate is 100 * (Supported + Partial) / analyzed across every
// criterion evaluation of every graded record. Zero when nothing has been
// analyzed, never NaN.
func validityRate(records []grading.EvaluationRecord) float64 {
	var supported, analyzed int
	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if !ev.Analyzed() {
				continue
			}
			analyzed++
			if ev.AIAnalysis.Status == grading.StatusSupported || ev.AIAnalysis.Status == grading.StatusPartial {
				supported++
			}
		}
	}
	if analyzed == 0 {
		return 0
	}
	return 100 * float64(supported) / float64(analyzed)
}

func analyzedCount(records []grading.EvaluationRecord) int {
	var n int
	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if ev.Analyzed() {
				n++
			}
		}
	}
	return n
}

// #endregion

// #region drift

// scoreDrift is the mean absolute deviation of the latest record's scores
// from the baseline means, restricted to criteria present in the baseline.
func scoreDrift(latest grading.EvaluationRecord, baseline grading.CalibrationBaseline) float64 {
	var total float64
	var n int
	for _, ev := range latest.Evaluations {
		if ev.Score == nil {
			continue
		}
		mean, ok := baseline.MeanScores[ev.CriterionID]
		if !ok {
			continue
		}
		total += math.Abs(float64(*ev.Score) - mean)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// #endregion

// #region variance-heatmap

// appendVariances extends each criterion's variance series by one entry: the
// sample variance of that criterion's score sequence so far. Prior entries are
// copied untouched.
func appendVariances(prev map[string][]float64, records []grading.EvaluationRecord, criteria []rubric.Criterion) map[string][]float64 {
	history := map[string][]int{}
	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if ev.Score != nil {
				history[ev.CriterionID] = append(history[ev.CriterionID], *ev.Score)
			}
		}
	}

	next := make(map[string][]float64, len(criteria))
	for _, crit := range criteria {
		series := make([]float64, 0, len(prev[crit.ID])+1)
		series = append(series, prev[crit.ID]...)
		series = append(series, SampleVariance(history[crit.ID]))
		next[crit.ID] = series
	}
	return next
}

// SampleVariance is Σ(x−mean)²/(n−1), with the denominator forced to 1 when
// n <= 1. A sequence of length 1 therefore has variance 0.
func SampleVariance(scores []int) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	var sum int
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(n)

	var sq float64
	for _, s := range scores {
		d := float64(s) - mean
		sq += d * d
	}
	denom := float64(n - 1)
	if denom < 1 {
		denom = 1
	}
	return sq / denom
}

// #endregion

// #region strength-trend

// strengthTrend has one entry per graded record: the mean explanation length
// across that record's criteria, in graded order.
func strengthTrend(records []grading.EvaluationRecord) []float64 {
	trend := make([]float64, 0, len(records))
	for _, rec := range records {
		if len(rec.Evaluations) == 0 {
			trend = append(trend, 0)
			continue
		}
		var total int
		for _, ev := range rec.Evaluations {
			total += len(ev.Explanation)
		}
		trend = append(trend, float64(total)/float64(len(rec.Evaluations)))
	}
	return trend
}

// #endregion

// #region risk-flags

// riskFlags is rebuilt fresh on every recompute, never accumulated.
func riskFlags(validity float64, analyzed int, drift float64, driftKnown bool) []string {
	flags := []string{}
	if validity < 80 && analyzed > 0 {
		flags = append(flags, "Low explanation validity rate")
	}
	if driftKnown && drift > 5 {
		flags = append(flags, "Significant score drift detected")
	}
	return flags
}

// #endregion

// #region confidence

// ConfidenceScore is the finalization composite: 60% validity, 30% inverse
// drift, 10% inverse override count, clamped to [0, 100].
func ConfidenceScore(validity, drift float64, overrideCount int) float64 {
	validityPart := validity * 0.6
	driftPart := (100 - math.Min(100, drift*5)) * 0.3
	overridePart := (100 - math.Min(100, float64(overrideCount)*10)) * 0.1

	score := validityPart + driftPart + overridePart
	return math.Max(0, math.Min(100, score))
}

// #endregion

// #region early-vs-late

// EarlyVsLate splits per-criterion score histories between the calibration
// block (first CalibrationRequired records) and everything after it.
func EarlyVsLate(records []grading.EvaluationRecord) grading.EarlyVsLateScores {
	out := grading.EarlyVsLateScores{
		Early: map[string][]int{},
		Late:  map[string][]int{},
	}
	for i, rec := range records {
		bucket := out.Late
		if i < grading.CalibrationRequired {
			bucket = out.Early
		}
		for _, ev := range rec.Evaluations {
			if ev.Score != nil {
				bucket[ev.CriterionID] = append(bucket[ev.CriterionID], *ev.Score)
			}
		}
	}
	return out
}

// #endregion

// #region assistance-summary

// AssistanceSummary counts validation interventions (Partial or Not Supported
// verdicts) across all graded records. RefinementsApplied stays 0: tracking
// whether the grader edited an explanation after a suggestion was never built.
func AssistanceSummary(records []grading.EvaluationRecord, overrideCount int, aiEnabled bool) grading.AIAssistanceSummary {
	if !aiEnabled {
		return grading.AIAssistanceSummary{}
	}
	var interventions int
	for _, rec := range records {
		for _, ev := range rec.Evaluations {
			if ev.AIAnalysis == nil {
				continue
			}
			if ev.AIAnalysis.Status == grading.StatusPartial || ev.AIAnalysis.Status == grading.StatusNotSupported {
				interventions++
			}
		}
	}
	return grading.AIAssistanceSummary{
		TotalInterventions:         interventions,
		OverridesAfterIntervention: overrideCount,
	}
}

// #endregion
