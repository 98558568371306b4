package report

// #region imports
import (
	"fmt"
	"strings"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

// #endregion

// #region input

// Input is the session snapshot a report is rendered from.
type Input struct {
	AssignmentName string
	Date           time.Time
	Analytics      grading.SessionAnalytics
	Submissions    []rubric.Submission
	Criteria       []rubric.Criterion
	Overrides      []grading.OverrideLog
}

// #endregion

// #region build

// Build renders the plain-text grading consistency report. One-way export;
// no import or round-trip exists.
func Build(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grading Consistency Report - %s\n", in.AssignmentName)
	b.WriteString("-------------------------------------------------------\n")
	fmt.Fprintf(&b, "Date: %s\n\n", in.Date.Format("2006-01-02"))

	b.WriteString("Overall Metrics:\n")
	fmt.Fprintf(&b, "- Session Confidence Score: %.1f%%\n", in.Analytics.SessionConfidenceScore)
	fmt.Fprintf(&b, "- Rubric Adherence: %.1f%%\n", in.Analytics.RubricAdherencePercentage)
	fmt.Fprintf(&b, "- Score Drift from Calibration: %.1f%%\n", in.Analytics.ScoreDriftPercentage)
	fmt.Fprintf(&b, "- Total AI Interventions: %d\n", in.Analytics.AIAssistanceSummary.TotalInterventions)
	fmt.Fprintf(&b, "- Overrides after AI Intervention: %d\n\n", in.Analytics.AIAssistanceSummary.OverridesAfterIntervention)

	b.WriteString("Detailed Analytics:\n")
	fmt.Fprintf(&b, "- Explanation Validity Rate: %.1f%%\n", in.Analytics.ExplanationValidityRate)
	flags := "None"
	if len(in.Analytics.HighRiskFlags) > 0 {
		flags = strings.Join(in.Analytics.HighRiskFlags, ", ")
	}
	fmt.Fprintf(&b, "- High-Risk Flags: %s\n\n", flags)

	fmt.Fprintf(&b, "Override Log (%d total):\n", in.Analytics.OverrideCount)
	for _, entry := range in.Overrides {
		fmt.Fprintf(&b, "- Submission: %s | Criterion: %s | Original AI Status: %s | Justification: %s\n",
			studentName(in.Submissions, entry.SubmissionID),
			criterionName(in.Criteria, entry.CriterionID),
			entry.OriginalAIStatus,
			entry.ProfessorJustification,
		)
	}

	b.WriteString("\n--- End of Report ---\n")
	return b.String()
}

func studentName(submissions []rubric.Submission, id string) string {
	for _, s := range submissions {
		if s.ID == id {
			return s.StudentName
		}
	}
	return "N/A"
}

func criterionName(criteria []rubric.Criterion, id string) string {
	for _, c := range criteria {
		if c.ID == id {
			return c.Name
		}
	}
	return "N/A"
}

// #endregion
