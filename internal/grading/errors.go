package grading

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region incomplete-evaluation

// IncompleteEvaluationError rejects a save when any rubric criterion is
// missing a score, carries an out-of-range score, or lacks an explanation.
// No state is mutated; the grader fixes the form and saves again.
type IncompleteEvaluationError struct {
	CriterionIDs []string
	Reason       string
}

func (e *IncompleteEvaluationError) Error() string {
	return fmt.Sprintf("incomplete evaluation (%s): %s", strings.Join(e.CriterionIDs, ", "), e.Reason)
}

// #endregion

// #region precondition-not-met

// PreconditionNotMetError refuses a screen transition whose calibration gate
// is not satisfied. Not a hard fault: the caller re-offers calibration.
type PreconditionNotMetError struct {
	Reason string
}

func (e *PreconditionNotMetError) Error() string {
	return "precondition not met: " + e.Reason
}

// #endregion

// #region override-pending

// OverridePendingError suspends (not fails) a save until the grader supplies
// an override justification for every flagged criterion. Calling save again
// after the justification completes the same logical operation.
type OverridePendingError struct {
	CriterionIDs []string
}

func (e *OverridePendingError) Error() string {
	return "save suspended, override justification required for: " + strings.Join(e.CriterionIDs, ", ")
}

// #endregion
