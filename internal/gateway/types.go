package gateway

// #region imports
import (
	"context"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

// #endregion

// #region request

// ValidationRequest carries everything the validation collaborator needs to
// judge whether an explanation is textually supported by the submission.
type ValidationRequest struct {
	SubmissionText  string
	Criterion       rubric.Criterion
	Score           int
	Explanation     string
	HighlightedText string // optional excerpt the grader selected
}

// #endregion

// #region interfaces

// Validator is the stateless validation collaborator. On transport or parse
// failure it returns an analysis with StatusError plus a *GatewayError; the
// session proceeds either way and no saved data is invalidated.
type Validator interface {
	Validate(ctx context.Context, req ValidationRequest) (grading.AIAnalysis, error)
}

// ToneAnalyzer returns a free-text tone description for an explanation.
// Best-effort: callers tolerate failures.
type ToneAnalyzer interface {
	AnalyzeTone(ctx context.Context, explanation string) (string, error)
}

// #endregion

// #region gateway-error

// GatewayError wraps a failed collaborator call.
type GatewayError struct {
	Op  string // "validate" | "analyze_tone"
	Err error
}

func (e *GatewayError) Error() string {
	return "gateway " + e.Op + ": " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// #endregion
