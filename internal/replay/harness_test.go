package replay

import (
	"context"
	"testing"

	"github.com/calibrex/grading-controller/internal/session"
)

func intp(n int) *int { return &n }

// fixtureEvals builds a complete evaluation for the lit205-e1 rubric, capping
// the requested score at each criterion's maximum.
func fixtureEvals(score int) []FixtureEvaluation {
	caps := []struct {
		id  string
		max int
	}{
		{"crit1", 5}, {"crit2", 5}, {"crit3", 5}, {"crit4", 4}, {"crit5", 3},
	}
	out := make([]FixtureEvaluation, 0, len(caps))
	for _, c := range caps {
		s := score
		if s > c.max {
			s = c.max
		}
		out = append(out, FixtureEvaluation{
			CriterionID: c.id,
			Score:       intp(s),
			Explanation: "Meets the criterion with specific textual support.",
		})
	}
	return out
}

func TestReplayScriptedSession(t *testing.T) {
	f := Fixture{
		Description:  "full session through finalization",
		AssignmentID: "lit205-e1",
		AIEnabled:    false,
		Actions: []FixtureAction{
			{Type: "transition", Screen: "Calibration"},
			{Type: "save", Index: 0, Evaluations: fixtureEvals(4)},
			{Type: "save", Index: 1, Evaluations: fixtureEvals(3)},
			{Type: "save", Index: 2, Evaluations: fixtureEvals(5)},
			{Type: "calibrate"},
			{Type: "transition", Screen: "ActiveGrading"},
			{Type: "save", Index: 3, Evaluations: fixtureEvals(2)},
			{Type: "transition", Screen: "Reflection"},
			{Type: "transition", Screen: "Finalization"},
		},
	}

	sum, err := Replay(context.Background(), f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sum.Errors != 0 {
		for _, a := range sum.Actions {
			if a.Err != nil {
				t.Logf("step %d (%s): %v", a.Step, a.Type, a.Err)
			}
		}
		t.Fatalf("errors = %d, want 0", sum.Errors)
	}
	if sum.GradedCount != 4 {
		t.Errorf("graded = %d, want 4", sum.GradedCount)
	}
	if sum.FinalScreen != session.ScreenFinalization {
		t.Errorf("final screen = %s", sum.FinalScreen)
	}
	if sum.Confidence < 0 || sum.Confidence > 100 {
		t.Errorf("confidence %v outside [0,100]", sum.Confidence)
	}
}

func TestReplayCountsGateViolation(t *testing.T) {
	f := Fixture{
		AssignmentID: "lit205-e1",
		Actions: []FixtureAction{
			{Type: "transition", Screen: "Calibration"},
			{Type: "transition", Screen: "ActiveGrading"}, // blocked, nothing graded
		},
	}

	sum, err := Replay(context.Background(), f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sum.Errors != 1 {
		t.Errorf("errors = %d, want 1", sum.Errors)
	}
	if sum.FinalScreen != session.ScreenCalibration {
		t.Errorf("final screen = %s, want Calibration", sum.FinalScreen)
	}
}

func TestReplayOverrideAction(t *testing.T) {
	f := Fixture{
		AssignmentID: "lit205-e1",
		AIEnabled:    true,
		Actions: []FixtureAction{
			{
				Type:           "override",
				Index:          0,
				CriterionID:    "crit1",
				OriginalStatus: "Not Supported",
				Justification:  "The thesis is implicit in the opening.",
			},
		},
	}

	sum, err := Replay(context.Background(), f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sum.OverrideCount != 1 {
		t.Errorf("overrides = %d, want 1", sum.OverrideCount)
	}
}

func TestReplayUnknownAssignment(t *testing.T) {
	if _, err := Replay(context.Background(), Fixture{AssignmentID: "nope"}); err == nil {
		t.Error("unknown assignment accepted")
	}
}

func TestReplayUnknownAction(t *testing.T) {
	f := Fixture{
		AssignmentID: "lit205-e1",
		Actions:      []FixtureAction{{Type: "teleport"}},
	}
	sum, err := Replay(context.Background(), f)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sum.Errors != 1 {
		t.Errorf("errors = %d, want 1", sum.Errors)
	}
}
