package main

// #region imports
import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/calibrex/grading-controller/internal/calibration"
	"github.com/calibrex/grading-controller/internal/gateway"
	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/journal"
	"github.com/calibrex/grading-controller/internal/report"
	"github.com/calibrex/grading-controller/internal/rubric"
	"github.com/calibrex/grading-controller/internal/session"
)

// #endregion

// #region repl-state

// repl holds the interactive grader's working state: the session plus the
// draft evaluations for the submission currently on screen. Drafts are
// in-flight form state; analytics never read them.
type repl struct {
	sess     *session.Session
	client   *gateway.Client // nil when no API key is configured
	calib    *calibration.Engine
	scanner  *bufio.Scanner
	drafts   map[string]*grading.CriterionEvaluation
	draftIdx int // submission index the drafts belong to
}

// #endregion

// #region main

func main() {
	journalPath := envOr("GRADER_JOURNAL", "grading_journal.db")
	model := envOr("GRADER_MODEL", "gpt-4o-mini")
	apiKey := os.Getenv("OPENAI_API_KEY")

	jrnl, err := journal.Open(journalPath)
	if err != nil {
		log.Fatalf("failed to open journal: %v", err)
	}
	defer jrnl.Close()

	r := &repl{
		sess:    session.New(jrnl),
		calib:   calibration.NewEngine(nil),
		scanner: bufio.NewScanner(os.Stdin),
		drafts:  map[string]*grading.CriterionEvaluation{},
	}
	if apiKey != "" {
		r.client = gateway.NewClient(apiKey, model)
		r.calib = calibration.NewEngine(r.client)
	} else {
		log.Println("OPENAI_API_KEY not set, AI assistance disabled")
		r.sess.SetAIEnabled(false)
	}

	fmt.Println("Grading Consistency Controller ready.")
	fmt.Printf("  Journal: %s | AI: %v\n", journalPath, r.client != nil)
	fmt.Println("Type 'help' for commands.")

	for {
		fmt.Print("> ")
		if !r.scanner.Scan() {
			break
		}
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		r.dispatch(line)
	}
}

// #endregion

// #region dispatch

func (r *repl) dispatch(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "help":
		printHelp()
	case "courses":
		for _, c := range rubric.Courses {
			fmt.Printf("  %-10s %s\n", c.ID, c.Name)
		}
	case "assignments":
		for _, a := range rubric.Assignments {
			fmt.Printf("  %-12s %s (rubric: %v)\n", a.ID, a.Name, a.HasRubric)
		}
	case "select":
		err = r.selectAssignment(args)
	case "begin":
		err = r.sess.Transition(session.ScreenCalibration)
	case "status":
		r.printStatus()
	case "show":
		r.showSubmission()
	case "grade":
		err = r.grade()
	case "save":
		err = r.save()
	case "calibrate":
		r.calibrate()
	case "enter":
		err = r.sess.Transition(session.ScreenActiveGrading)
	case "next":
		r.sess.Advance()
	case "goto":
		err = r.goTo(args)
	case "analytics":
		err = r.showAnalytics()
	case "reflect":
		err = r.sess.Transition(session.ScreenReflection)
	case "finalize":
		err = r.sess.Transition(session.ScreenFinalization)
	case "report":
		r.printReport()
	case "submit":
		err = r.submitToLMS()
	case "reset":
		r.sess.Reset()
		r.drafts = map[string]*grading.CriterionEvaluation{}
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func printHelp() {
	fmt.Println(`  courses | assignments     list the catalog
  select <assignment-id>    choose assignment and load submissions
  begin                     start calibration
  show | grade | save       view, grade, and save the current submission
  calibrate                 establish the baseline once 3 are graded
  enter                     enter active grading (gated on calibration)
  next | goto <n>           navigate submissions
  analytics                 live analytics excursion
  reflect | finalize        later workflow phases
  report | submit           export report, submit grades to the LMS
  reset | quit`)
}

// #endregion

// #region setup-commands

func (r *repl) selectAssignment(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: select <assignment-id>")
	}
	var assignment *rubric.Assignment
	for i := range rubric.Assignments {
		if rubric.Assignments[i].ID == args[0] {
			assignment = &rubric.Assignments[i]
			break
		}
	}
	if assignment == nil {
		return fmt.Errorf("unknown assignment %s", args[0])
	}
	criteria := rubric.RubricFor(assignment.ID)
	if criteria == nil {
		return fmt.Errorf("assignment %s has no rubric", assignment.ID)
	}
	var course rubric.Course
	for _, c := range rubric.Courses {
		if c.ID == assignment.CourseID {
			course = c
		}
	}

	if err := r.sess.SelectCourseAssignmentRubric(course, *assignment, criteria); err != nil {
		return err
	}
	subs := rubric.SubmissionsFor(assignment.ID)
	r.sess.LoadSubmissions(subs)
	r.drafts = map[string]*grading.CriterionEvaluation{}
	fmt.Printf("loaded %d submissions for %s\n", len(subs), assignment.Name)
	return nil
}

// #endregion

// #region grading-commands

func (r *repl) showSubmission() {
	sub, ok := r.sess.CurrentSubmission()
	if !ok {
		fmt.Println("no submission loaded")
		return
	}
	fmt.Printf("[%d/%d] %s\n\n%s\n", r.sess.CurrentIndex()+1, len(r.sess.Submissions()), sub.StudentName, sub.Content)
}

// grade walks each rubric criterion, prompting for score and explanation.
// With AI enabled, the explanation is validated before moving on.
func (r *repl) grade() error {
	sub, ok := r.sess.CurrentSubmission()
	if !ok {
		return fmt.Errorf("no submission loaded")
	}
	if r.draftIdx != r.sess.CurrentIndex() {
		r.drafts = map[string]*grading.CriterionEvaluation{}
		r.draftIdx = r.sess.CurrentIndex()
	}

	for _, crit := range r.sess.Criteria() {
		fmt.Printf("\n%s (max %d): %s\n", crit.Name, crit.MaxScore, crit.Description)

		score, err := r.promptInt(fmt.Sprintf("score (0-%d)> ", crit.MaxScore))
		if err != nil {
			return err
		}
		explanation := r.prompt("explanation> ")

		draft := &grading.CriterionEvaluation{
			CriterionID: crit.ID,
			Score:       &score,
			Explanation: explanation,
		}
		if r.client != nil && r.sess.AIEnabled() && strings.TrimSpace(explanation) != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			analysis, err := r.client.Validate(ctx, gateway.ValidationRequest{
				SubmissionText: sub.Content,
				Criterion:      crit,
				Score:          score,
				Explanation:    explanation,
			})
			cancel()
			if err != nil {
				log.Printf("[GRADER] validation failed: %v", err)
			}
			draft.AIAnalysis = &analysis
			fmt.Printf("  AI verdict: %s\n", analysis.Status)
			if analysis.SuggestedRefinement != "" {
				fmt.Printf("  suggestion: %s\n", analysis.SuggestedRefinement)
			}
		}
		r.drafts[crit.ID] = draft
	}
	fmt.Println("\ndrafted; 'save' to commit")
	return nil
}

// save commits the drafts. A suspended save (override pending) prompts for
// justification and re-enters the same save.
func (r *repl) save() error {
	sub, ok := r.sess.CurrentSubmission()
	if !ok {
		return fmt.Errorf("no submission loaded")
	}

	evaluations := make([]grading.CriterionEvaluation, 0, len(r.drafts))
	for _, crit := range r.sess.Criteria() {
		if d, ok := r.drafts[crit.ID]; ok {
			evaluations = append(evaluations, *d)
		}
	}

	err := r.sess.SaveEvaluation(r.sess.CurrentIndex(), evaluations)
	var pending *grading.OverridePendingError
	for errors.As(err, &pending) {
		for _, critID := range pending.CriterionIDs {
			draft := r.drafts[critID]
			fmt.Printf("AI disputes criterion %s (%s).\n", critID, draft.AIAnalysis.Status)
			justification := r.prompt("override justification> ")
			if strings.TrimSpace(justification) == "" {
				return fmt.Errorf("save suspended, no justification supplied")
			}
			draft.OverrideJustification = justification
			r.sess.AddOverrideLog(grading.OverrideLog{
				SubmissionID:           sub.ID,
				CriterionID:            critID,
				OriginalAIStatus:       draft.AIAnalysis.Status,
				ProfessorJustification: justification,
			})
		}
		evaluations = evaluations[:0]
		for _, crit := range r.sess.Criteria() {
			if d, ok := r.drafts[crit.ID]; ok {
				evaluations = append(evaluations, *d)
			}
		}
		pending = nil
		err = r.sess.SaveEvaluation(r.sess.CurrentIndex(), evaluations)
	}
	if err != nil {
		return err
	}

	fmt.Printf("saved (%d/%d graded)\n", r.sess.GradedCount(), len(r.sess.Submissions()))
	r.drafts = map[string]*grading.CriterionEvaluation{}
	if r.sess.CalibrationDue() {
		fmt.Println("calibration block complete; run 'calibrate'")
	}
	return nil
}

func (r *repl) calibrate() {
	if !r.sess.CalibrationDue() {
		if _, ok := r.sess.Baseline(); ok {
			fmt.Println("baseline already established")
		} else {
			fmt.Printf("need %d graded submissions first\n", grading.CalibrationRequired)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	baseline := r.calib.Compute(ctx, r.sess.Records())
	cancel()
	r.sess.SetCalibrationBaseline(baseline)
	fmt.Printf("baseline set: %d criterion means, strength %.1f\n",
		len(baseline.MeanScores), baseline.ExplanationStrengthMean)
}

func (r *repl) goTo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: goto <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("not a number: %s", args[0])
	}
	return r.sess.GoToSubmission(n - 1)
}

// #endregion

// #region analytics-commands

// showAnalytics is the LiveAnalytics excursion: enter, print, return.
func (r *repl) showAnalytics() error {
	if err := r.sess.Transition(session.ScreenLiveAnalytics); err != nil {
		return err
	}
	r.printStatus()
	return r.sess.Transition(session.ScreenActiveGrading)
}

func (r *repl) printStatus() {
	a := r.sess.Analytics()
	fmt.Printf("screen=%s graded=%d/%d overrides=%d\n",
		r.sess.Screen(), r.sess.GradedCount(), len(r.sess.Submissions()), a.OverrideCount)
	fmt.Printf("validity=%.1f%% drift=%.2f flags=%v\n",
		a.ExplanationValidityRate, a.ScoreDriftPercentage, a.HighRiskFlags)
	if len(a.JustificationStrengthTrend) > 0 {
		fmt.Printf("strength trend=%v\n", a.JustificationStrengthTrend)
	}
}

func (r *repl) printReport() {
	assignment, ok := r.sess.Assignment()
	if !ok {
		fmt.Println("no assignment selected")
		return
	}
	fmt.Print(report.Build(report.Input{
		AssignmentName: assignment.Name,
		Date:           time.Now(),
		Analytics:      r.sess.Analytics(),
		Submissions:    r.sess.Submissions(),
		Criteria:       r.sess.Criteria(),
		Overrides:      r.sess.OverrideLogs(),
	}))
}

func (r *repl) submitToLMS() error {
	assignment, ok := r.sess.Assignment()
	if !ok {
		return fmt.Errorf("no assignment selected")
	}
	lms := report.MockLMS{Delay: 1500 * time.Millisecond}
	fmt.Println("submitting grades...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := lms.Submit(ctx, assignment.ID, r.sess.Records()); err != nil {
		return err
	}
	fmt.Printf("grades for %q submitted\n", assignment.Name)
	return nil
}

// #endregion

// #region helpers

func (r *repl) prompt(label string) string {
	fmt.Print(label)
	if !r.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(r.scanner.Text())
}

func (r *repl) promptInt(label string) (int, error) {
	raw := r.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	return n, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion
