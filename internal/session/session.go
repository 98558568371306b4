package session

// #region imports
import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/calibrex/grading-controller/internal/analytics"
	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/ledger"
	"github.com/calibrex/grading-controller/internal/rubric"
	"github.com/calibrex/grading-controller/internal/store"
)

// #endregion

// #region session-struct

// Session is the top-level controller for one grading session. It exclusively
// owns the evaluation store, override ledger, calibration baseline, and
// derived analytics; nothing outlives Reset. One grader, one session: every
// operation is applied atomically and serially under a single mutex.
type Session struct {
	mu sync.Mutex

	id           string
	screen       Screen
	course       *rubric.Course
	assignment   *rubric.Assignment
	criteria     []rubric.Criterion
	submissions  []rubric.Submission
	currentIndex int
	aiEnabled    bool

	store     *store.EvaluationStore
	ledger    *ledger.OverrideLedger
	baseline  *grading.CalibrationBaseline
	analytics grading.SessionAnalytics

	observer Observer
}

// New creates an empty session in the Setup phase. observer may be nil.
func New(observer Observer) *Session {
	if observer == nil {
		observer = NopObserver{}
	}
	s := &Session{observer: observer}
	s.init()
	return s
}

// init builds the zero-value session state. Callers hold the lock (or own the
// session exclusively, as in New).
func (s *Session) init() {
	s.id = uuid.New().String()
	s.screen = ScreenSetup
	s.course = nil
	s.assignment = nil
	s.criteria = nil
	s.submissions = nil
	s.currentIndex = 0
	s.aiEnabled = true
	s.store = store.NewEvaluationStore(nil)
	s.ledger = ledger.NewOverrideLedger()
	s.baseline = nil
	s.analytics = grading.InitialAnalytics()
}

// #endregion

// #region setup

// SelectCourseAssignmentRubric fixes the session's course, assignment, and
// rubric. The criterion set is immutable afterwards.
func (s *Session) SelectCourseAssignmentRubric(course rubric.Course, assignment rubric.Assignment, criteria []rubric.Criterion) error {
	if len(criteria) == 0 {
		return fmt.Errorf("assignment %s has no rubric", assignment.ID)
	}
	for _, c := range criteria {
		if c.MaxScore <= 0 {
			return fmt.Errorf("criterion %s: max score must be positive, got %d", c.ID, c.MaxScore)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.course = &course
	s.assignment = &assignment
	s.criteria = criteria
	s.store = store.NewEvaluationStore(criteria)
	log.Printf("[SESSION] selected %s / %s (%d criteria)", course.ID, assignment.ID, len(criteria))
	return nil
}

// LoadSubmissions installs the batch to grade and resets grading progress,
// analytics, the override ledger, and the calibration baseline: a new rubric
// or batch invalidates all prior calibration.
func (s *Session) LoadSubmissions(submissions []rubric.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions = make([]rubric.Submission, len(submissions))
	copy(s.submissions, submissions)
	s.currentIndex = 0
	s.store.Reset()
	s.ledger.Reset()
	s.baseline = nil
	s.analytics = grading.InitialAnalytics()
	log.Printf("[SESSION] loaded %d submissions, progress reset", len(submissions))
}

// SetAIEnabled toggles validation assistance for subsequent saves.
func (s *Session) SetAIEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiEnabled = enabled
}

// #endregion

// #region save

// SaveEvaluation upserts the full evaluation for the submission at index,
// marks it graded, and recomputes analytics. The save is suspended with
// *grading.OverridePendingError when assistance is enabled and any flagged
// verdict lacks an override justification; calling save again after the
// justification completes the same logical operation. No state is mutated on
// any error path.
func (s *Session) SaveEvaluation(index int, evaluations []grading.CriterionEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.submissions) {
		return fmt.Errorf("submission index %d out of range", index)
	}

	if s.aiEnabled {
		if pending := unjustifiedFlags(evaluations); len(pending) > 0 {
			return &grading.OverridePendingError{CriterionIDs: pending}
		}
	}

	rec, err := s.store.Upsert(s.submissions[index].ID, evaluations)
	if err != nil {
		return err
	}
	s.submissions[index].Graded = true

	s.recomputeAnalytics(&rec)
	s.observer.EvaluationSaved(s.id, rec)

	log.Printf("[SESSION] saved evaluation for %s (%d/%d graded)",
		rec.SubmissionID, s.store.Len(), len(s.submissions))
	return nil
}

// unjustifiedFlags lists criteria whose verdict disputes the explanation but
// carries no override justification yet.
func unjustifiedFlags(evaluations []grading.CriterionEvaluation) []string {
	var pending []string
	for _, ev := range evaluations {
		if ev.AIAnalysis == nil {
			continue
		}
		status := ev.AIAnalysis.Status
		if status != grading.StatusPartial && status != grading.StatusNotSupported {
			continue
		}
		if strings.TrimSpace(ev.OverrideJustification) == "" {
			pending = append(pending, ev.CriterionID)
		}
	}
	return pending
}

// recomputeAnalytics runs after every successful upsert. Drift-dependent
// metrics are silently skipped until a baseline exists.
func (s *Session) recomputeAnalytics(latest *grading.EvaluationRecord) {
	records := s.store.All()
	if len(records) == 0 {
		return
	}
	patch := analytics.Recompute(analytics.Input{
		Records:     records,
		Latest:      latest,
		Baseline:    s.baseline,
		Criteria:    s.criteria,
		PrevHeatmap: s.analytics.CriterionVarianceHeatmap,
	})
	patch.Apply(&s.analytics)
}

// #endregion

// #region navigation

// Advance moves to the next submission; a no-op at the last index.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex < len(s.submissions)-1 {
		s.currentIndex++
	}
}

// GoToSubmission jumps to the given submission. Called from LiveAnalytics or
// Reflection it re-enters ActiveGrading (the explicit revisit action).
func (s *Session) GoToSubmission(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.submissions) {
		return fmt.Errorf("submission index %d out of range", index)
	}
	s.currentIndex = index
	if s.screen == ScreenLiveAnalytics || s.screen == ScreenReflection {
		s.setScreen(ScreenActiveGrading)
	}
	return nil
}

// #endregion

// #region transition

// Transition moves the workflow to another screen. Entry into ActiveGrading
// is gated on a complete calibration; a violation comes back as
// *grading.PreconditionNotMetError so the caller can re-offer calibration.
func (s *Session) Transition(to Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !transitionAllowed(s.screen, to) {
		return &grading.PreconditionNotMetError{
			Reason: fmt.Sprintf("no transition from %s to %s", s.screen, to),
		}
	}

	if to == ScreenActiveGrading {
		if s.store.Len() < grading.CalibrationRequired {
			return &grading.PreconditionNotMetError{
				Reason: fmt.Sprintf("calibration needs %d graded submissions, have %d",
					grading.CalibrationRequired, s.store.Len()),
			}
		}
		if s.baseline == nil {
			return &grading.PreconditionNotMetError{Reason: "calibration baseline not established"}
		}
	}

	if to == ScreenFinalization {
		s.finalize()
	}

	s.setScreen(to)
	return nil
}

func transitionAllowed(from, to Screen) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Session) setScreen(to Screen) {
	from := s.screen
	s.screen = to
	s.observer.ScreenChanged(s.id, from, to)
	log.Printf("[SESSION] %s -> %s", from, to)
}

// finalize computes the composite finalization metrics from the accumulated
// analytics and ledger.
func (s *Session) finalize() {
	records := s.store.All()
	s.analytics.SessionConfidenceScore = analytics.ConfidenceScore(
		s.analytics.ExplanationValidityRate,
		s.analytics.ScoreDriftPercentage,
		s.ledger.Count(),
	)
	// Rubric adherence is deliberately the validity rate; a separate adherence
	// formula was never specified.
	s.analytics.RubricAdherencePercentage = s.analytics.ExplanationValidityRate
	s.analytics.EarlyVsLateScores = analytics.EarlyVsLate(records)
	s.analytics.AIAssistanceSummary = analytics.AssistanceSummary(records, s.ledger.Count(), s.aiEnabled)
}

// #endregion

// #region calibration

// CalibrationDue reports whether enough records exist to establish a baseline
// and none has been set yet.
func (s *Session) CalibrationDue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len() >= grading.CalibrationRequired && s.baseline == nil
}

// SetCalibrationBaseline installs the baseline. Computed exactly once: a
// no-op when a baseline already exists, so later saves never shift it.
func (s *Session) SetCalibrationBaseline(baseline grading.CalibrationBaseline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline != nil {
		log.Printf("[SESSION] baseline already set, ignoring recomputation")
		return
	}
	s.baseline = &baseline
	log.Printf("[SESSION] calibration baseline set from %d records", s.store.Len())
}

// #endregion

// #region analytics-ops

// UpdateAnalytics applies a partial analytics update.
func (s *Session) UpdateAnalytics(patch grading.AnalyticsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.Apply(&s.analytics)
}

// AddOverrideLog appends an override to the ledger and increments the
// override count by exactly one. Unconditional: the grading workflow only
// calls it once the grader supplied a non-empty justification.
func (s *Session) AddOverrideLog(entry grading.OverrideLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Append(entry)
	s.analytics.OverrideCount++
	s.observer.OverrideRecorded(s.id, entry)
}

// #endregion

// #region reset

// Reset discards everything and returns the session to its initial empty
// state. The only cancellation primitive: no soft or partial reset exists.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.id
	s.init()
	log.Printf("[SESSION] reset (%s -> %s)", old, s.id)
}

// #endregion

// #region accessors

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Screen returns the current workflow phase.
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Course returns the selected course, if any.
func (s *Session) Course() (rubric.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.course == nil {
		return rubric.Course{}, false
	}
	return *s.course, true
}

// Assignment returns the selected assignment, if any.
func (s *Session) Assignment() (rubric.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignment == nil {
		return rubric.Assignment{}, false
	}
	return *s.assignment, true
}

// Criteria returns the session's rubric.
func (s *Session) Criteria() []rubric.Criterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rubric.Criterion, len(s.criteria))
	copy(out, s.criteria)
	return out
}

// Submissions returns a copy of the loaded submissions.
func (s *Session) Submissions() []rubric.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rubric.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// CurrentIndex returns the index of the submission being graded.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// CurrentSubmission returns the submission being graded, if any is loaded.
func (s *Session) CurrentSubmission() (rubric.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex >= len(s.submissions) {
		return rubric.Submission{}, false
	}
	return s.submissions[s.currentIndex], true
}

// AIEnabled reports whether validation assistance is on.
func (s *Session) AIEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiEnabled
}

// GradedCount returns the number of saved evaluation records.
func (s *Session) GradedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Records returns all evaluation records in graded order.
func (s *Session) Records() []grading.EvaluationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Record returns the evaluation record for a submission id, if one exists.
func (s *Session) Record(submissionID string) (grading.EvaluationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(submissionID)
}

// Baseline returns the calibration baseline, or false if not yet established.
func (s *Session) Baseline() (grading.CalibrationBaseline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline == nil {
		return grading.CalibrationBaseline{}, false
	}
	return *s.baseline, true
}

// Analytics returns the current derived session metrics.
func (s *Session) Analytics() grading.SessionAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analytics
}

// OverrideLogs returns the override ledger entries in append order.
func (s *Session) OverrideLogs() []grading.OverrideLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.All()
}

// #endregion
