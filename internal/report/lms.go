package report

// #region imports
import (
	"context"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// #region lms

// LMS is the terminal grade-submission collaborator: a single opaque submit
// action with success or failure, no richer protocol.
type LMS interface {
	Submit(ctx context.Context, assignmentID string, records []grading.EvaluationRecord) error
}

// MockLMS simulates a submission by sleeping for Delay.
type MockLMS struct {
	Delay time.Duration
}

// Submit waits out the configured delay, honoring cancellation.
func (m MockLMS) Submit(ctx context.Context, assignmentID string, records []grading.EvaluationRecord) error {
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// #endregion
