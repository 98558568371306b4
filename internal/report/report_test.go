package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

func testInput() Input {
	return Input{
		AssignmentName: "Essay 1: Modernism in Fiction",
		Date:           time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC),
		Analytics: grading.SessionAnalytics{
			ExplanationValidityRate:   87.5,
			ScoreDriftPercentage:      1.2,
			RubricAdherencePercentage: 87.5,
			SessionConfidenceScore:    82.3,
			OverrideCount:             1,
			HighRiskFlags:             []string{},
			AIAssistanceSummary: grading.AIAssistanceSummary{
				TotalInterventions:         3,
				OverridesAfterIntervention: 1,
			},
		},
		Submissions: []rubric.Submission{
			{ID: "sub1", StudentName: "Alice Smith"},
		},
		Criteria: []rubric.Criterion{
			{ID: "crit1", Name: "Thesis Clarity"},
		},
		Overrides: []grading.OverrideLog{
			{
				SubmissionID:           "sub1",
				CriterionID:            "crit1",
				OriginalAIStatus:       grading.StatusNotSupported,
				ProfessorJustification: "The thesis is implicit but present.",
			},
		},
	}
}

func TestBuildReport(t *testing.T) {
	out := Build(testInput())

	wantLines := []string{
		"Grading Consistency Report - Essay 1: Modernism in Fiction",
		"Date: 2026-03-15",
		"- Session Confidence Score: 82.3%",
		"- Rubric Adherence: 87.5%",
		"- Score Drift from Calibration: 1.2%",
		"- Total AI Interventions: 3",
		"- Overrides after AI Intervention: 1",
		"- Explanation Validity Rate: 87.5%",
		"- High-Risk Flags: None",
		"Override Log (1 total):",
		"- Submission: Alice Smith | Criterion: Thesis Clarity | Original AI Status: Not Supported | Justification: The thesis is implicit but present.",
		"--- End of Report ---",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("report missing line %q\n\n%s", line, out)
		}
	}
}

func TestBuildReportFlagsJoined(t *testing.T) {
	in := testInput()
	in.Analytics.HighRiskFlags = []string{"Low explanation validity rate", "Significant score drift detected"}

	out := Build(in)
	if !strings.Contains(out, "- High-Risk Flags: Low explanation validity rate, Significant score drift detected") {
		t.Errorf("flags not joined:\n%s", out)
	}
}

func TestBuildReportUnknownNames(t *testing.T) {
	in := testInput()
	in.Overrides[0].SubmissionID = "ghost"
	in.Overrides[0].CriterionID = "ghost"

	out := Build(in)
	if !strings.Contains(out, "Submission: N/A | Criterion: N/A") {
		t.Errorf("unknown ids not rendered as N/A:\n%s", out)
	}
}

func TestMockLMSHonorsCancellation(t *testing.T) {
	lms := MockLMS{Delay: 5 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := lms.Submit(ctx, "lit205-e1", nil); err == nil {
		t.Error("cancelled submit returned nil")
	}
}

func TestMockLMSCompletes(t *testing.T) {
	lms := MockLMS{Delay: time.Millisecond}
	if err := lms.Submit(context.Background(), "lit205-e1", nil); err != nil {
		t.Errorf("submit: %v", err)
	}
}
