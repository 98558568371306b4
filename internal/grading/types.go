package grading

// #region imports
import "time"

// #endregion

// CalibrationRequired is the number of graded submissions needed before a
// calibration baseline can be established and active grading unlocked.
const CalibrationRequired = 3

// #region validation-status

// ValidationStatus classifies whether a grader's explanation is textually
// supported by the submission, as judged by the validation collaborator.
type ValidationStatus string

const (
	StatusSupported    ValidationStatus = "Supported"
	StatusPartial      ValidationStatus = "Partial"
	StatusNotSupported ValidationStatus = "Not Supported"
	StatusNotAnalyzed  ValidationStatus = "Not Analyzed"
	StatusError        ValidationStatus = "Error"
)

// #endregion

// #region ai-analysis

// AIAnalysis is the validation collaborator's verdict for one criterion
// evaluation.
type AIAnalysis struct {
	Status              ValidationStatus
	ReferencedExcerpt   string
	SuggestedRefinement string
	Tone                string
	Err                 string // populated when Status == StatusError
}

// #endregion

// #region criterion-evaluation

// CriterionEvaluation is the grader's judgment for one (submission, criterion)
// pair. Score is nil until the grader assigns one; both Score and a non-empty
// Explanation are required before the parent record can be saved.
type CriterionEvaluation struct {
	CriterionID           string
	Score                 *int
	Explanation           string
	HighlightedText       string
	AIAnalysis            *AIAnalysis
	OverrideJustification string
}

// Analyzed reports whether this evaluation carries a usable verdict
// (set, and neither Error nor Not Analyzed).
func (e CriterionEvaluation) Analyzed() bool {
	return e.AIAnalysis != nil &&
		e.AIAnalysis.Status != StatusError &&
		e.AIAnalysis.Status != StatusNotAnalyzed
}

// #endregion

// #region evaluation-record

// EvaluationRecord is the full evaluation for one submission: exactly one
// record per submission id, covering every rubric criterion, replaced
// wholesale on re-save.
type EvaluationRecord struct {
	SubmissionID string
	Evaluations  []CriterionEvaluation
	Timestamp    time.Time
}

// #endregion

// #region override-log

// OverrideLog records a grader's justified decision to proceed against a
// validation verdict. Entries are append-only and never deduplicated.
type OverrideLog struct {
	SubmissionID           string
	CriterionID            string
	OriginalAIStatus       ValidationStatus
	ProfessorJustification string
	Timestamp              time.Time
}

// #endregion

// #region calibration-baseline

// CalibrationBaseline is the statistical reference point computed once from
// the first block of graded submissions. Never mutated after creation unless
// the session is reset.
type CalibrationBaseline struct {
	MeanScores              map[string]float64 // criterion id → mean score
	ExplanationStrengthMean float64            // mean explanation length (chars)
	ToneMean                map[string]float64 // tone category → frequency
}

// #endregion

// #region session-analytics

// EarlyVsLateScores splits per-criterion score histories between the
// calibration block and everything graded after it.
type EarlyVsLateScores struct {
	Early map[string][]int
	Late  map[string][]int
}

// AIAssistanceSummary aggregates how often the validation collaborator
// intervened during the session.
type AIAssistanceSummary struct {
	TotalInterventions         int
	RefinementsApplied         int
	OverridesAfterIntervention int
}

// SessionAnalytics is fully derived state, recomputed deterministically from
// the evaluation store, calibration baseline, and override ledger.
type SessionAnalytics struct {
	ExplanationValidityRate     float64
	ScoreDriftPercentage        float64
	CriterionVarianceHeatmap    map[string][]float64
	JustificationStrengthTrend  []float64
	HighRiskFlags               []string
	OverrideCount               int
	EarlyVsLateScores           EarlyVsLateScores
	RubricAdherencePercentage   float64
	SessionConfidenceScore      float64
	AIAssistanceSummary         AIAssistanceSummary
}

// InitialAnalytics returns the empty analytics value a session starts with.
func InitialAnalytics() SessionAnalytics {
	return SessionAnalytics{
		CriterionVarianceHeatmap: map[string][]float64{},
		EarlyVsLateScores: EarlyVsLateScores{
			Early: map[string][]int{},
			Late:  map[string][]int{},
		},
	}
}

// #endregion

// #region analytics-patch

// AnalyticsPatch is a partial analytics update: nil fields are left untouched
// when the patch is applied.
type AnalyticsPatch struct {
	ExplanationValidityRate    *float64
	ScoreDriftPercentage       *float64
	CriterionVarianceHeatmap   map[string][]float64
	JustificationStrengthTrend []float64
	HighRiskFlags              []string
	EarlyVsLateScores          *EarlyVsLateScores
	RubricAdherencePercentage  *float64
	SessionConfidenceScore     *float64
	AIAssistanceSummary        *AIAssistanceSummary
}

// Apply merges the patch into a, field by field.
func (p AnalyticsPatch) Apply(a *SessionAnalytics) {
	if p.ExplanationValidityRate != nil {
		a.ExplanationValidityRate = *p.ExplanationValidityRate
	}
	if p.ScoreDriftPercentage != nil {
		a.ScoreDriftPercentage = *p.ScoreDriftPercentage
	}
	if p.CriterionVarianceHeatmap != nil {
		a.CriterionVarianceHeatmap = p.CriterionVarianceHeatmap
	}
	if p.JustificationStrengthTrend != nil {
		a.JustificationStrengthTrend = p.JustificationStrengthTrend
	}
	if p.HighRiskFlags != nil {
		a.HighRiskFlags = p.HighRiskFlags
	}
	if p.EarlyVsLateScores != nil {
		a.EarlyVsLateScores = *p.EarlyVsLateScores
	}
	if p.RubricAdherencePercentage != nil {
		a.RubricAdherencePercentage = *p.RubricAdherencePercentage
	}
	if p.SessionConfidenceScore != nil {
		a.SessionConfidenceScore = *p.SessionConfidenceScore
	}
	if p.AIAssistanceSummary != nil {
		a.AIAssistanceSummary = *p.AIAssistanceSummary
	}
}

// #endregion
