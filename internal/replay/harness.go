package replay

// #region imports
import (
	"context"
	"fmt"

	"github.com/calibrex/grading-controller/internal/calibration"
	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
	"github.com/calibrex/grading-controller/internal/session"
)

// #endregion

// #region result-types

// ActionResult captures the outcome of one replayed action.
type ActionResult struct {
	Step int
	Type string
	Err  error
}

// Summary aggregates the end state of a replay run.
type Summary struct {
	Description   string
	Actions       []ActionResult
	Errors        int
	GradedCount   int
	OverrideCount int
	HighRiskFlags []string
	Confidence    float64
	FinalScreen   session.Screen
}

// #endregion

// #region replay

// Replay runs a fixture's actions through a fresh session backed by the
// built-in catalog. The calibration engine runs without a tone analyzer, so
// replays are deterministic and offline.
func Replay(ctx context.Context, f Fixture) (Summary, error) {
	criteria := rubric.RubricFor(f.AssignmentID)
	if criteria == nil {
		return Summary{}, fmt.Errorf("no rubric for assignment %s", f.AssignmentID)
	}
	assignment, err := findAssignment(f.AssignmentID)
	if err != nil {
		return Summary{}, err
	}
	course, err := findCourse(assignment.CourseID)
	if err != nil {
		return Summary{}, err
	}

	sess := session.New(nil)
	if err := sess.SelectCourseAssignmentRubric(course, assignment, criteria); err != nil {
		return Summary{}, err
	}
	sess.LoadSubmissions(rubric.SubmissionsFor(f.AssignmentID))
	sess.SetAIEnabled(f.AIEnabled)

	engine := calibration.NewEngine(nil)

	summary := Summary{Description: f.Description}
	for i, action := range f.Actions {
		err := apply(ctx, sess, engine, action)
		summary.Actions = append(summary.Actions, ActionResult{Step: i, Type: action.Type, Err: err})
		if err != nil {
			summary.Errors++
		}
	}

	a := sess.Analytics()
	summary.GradedCount = sess.GradedCount()
	summary.OverrideCount = a.OverrideCount
	summary.HighRiskFlags = a.HighRiskFlags
	summary.Confidence = a.SessionConfidenceScore
	summary.FinalScreen = sess.Screen()
	return summary, nil
}

// apply executes one action against the session.
func apply(ctx context.Context, sess *session.Session, engine *calibration.Engine, action FixtureAction) error {
	switch action.Type {
	case "save":
		return sess.SaveEvaluation(action.Index, toEvaluations(action.Evaluations))
	case "override":
		subs := sess.Submissions()
		if action.Index < 0 || action.Index >= len(subs) {
			return fmt.Errorf("override index %d out of range", action.Index)
		}
		sess.AddOverrideLog(grading.OverrideLog{
			SubmissionID:           subs[action.Index].ID,
			CriterionID:            action.CriterionID,
			OriginalAIStatus:       grading.ValidationStatus(action.OriginalStatus),
			ProfessorJustification: action.Justification,
		})
		return nil
	case "calibrate":
		if !sess.CalibrationDue() {
			return nil
		}
		sess.SetCalibrationBaseline(engine.Compute(ctx, sess.Records()))
		return nil
	case "transition":
		return sess.Transition(session.Screen(action.Screen))
	case "advance":
		sess.Advance()
		return nil
	case "goto":
		return sess.GoToSubmission(action.Index)
	case "set_ai":
		sess.SetAIEnabled(action.Enabled)
		return nil
	case "reset":
		sess.Reset()
		return nil
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

// toEvaluations converts fixture evaluations to session evaluations.
func toEvaluations(fixtures []FixtureEvaluation) []grading.CriterionEvaluation {
	out := make([]grading.CriterionEvaluation, 0, len(fixtures))
	for _, fe := range fixtures {
		ev := grading.CriterionEvaluation{
			CriterionID:           fe.CriterionID,
			Score:                 fe.Score,
			Explanation:           fe.Explanation,
			HighlightedText:       fe.HighlightedText,
			OverrideJustification: fe.OverrideJustification,
		}
		if fe.Status != "" {
			ev.AIAnalysis = &grading.AIAnalysis{Status: grading.ValidationStatus(fe.Status)}
		}
		out = append(out, ev)
	}
	return out
}

// #endregion

// #region catalog-lookups

func findAssignment(id string) (rubric.Assignment, error) {
	for _, a := range rubric.Assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return rubric.Assignment{}, fmt.Errorf("unknown assignment %s", id)
}

func findCourse(id string) (rubric.Course, error) {
	for _, c := range rubric.Courses {
		if c.ID == id {
			return c, nil
		}
	}
	return rubric.Course{}, fmt.Errorf("unknown course %s", id)
}

// #endregion
