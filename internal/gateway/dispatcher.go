package gateway

// #region imports
import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// DefaultDebounce is how long the dispatcher waits after an explanation edit
// before issuing a validation request.
const DefaultDebounce = 600 * time.Millisecond

// #region dispatcher

// Dispatcher debounces per-criterion validation requests. A new edit before
// the timer fires cancels the pending timer and schedules a fresh one, but an
// already-in-flight request is never cancelled. Every issued request carries a
// per-criterion monotonically increasing sequence number; a response is
// applied only if its sequence is the latest issued for that criterion, so an
// unordered completion race collapses into last-issued-wins.
type Dispatcher struct {
	validator Validator
	debounce  time.Duration
	apply     func(criterionID string, analysis grading.AIAnalysis)

	mu     sync.Mutex
	seq    map[string]uint64 // criterion id → latest issued sequence
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. apply is invoked with the winning
// analysis; it must be safe to call from a background goroutine.
func NewDispatcher(validator Validator, debounce time.Duration, apply func(criterionID string, analysis grading.AIAnalysis)) *Dispatcher {
	return &Dispatcher{
		validator: validator,
		debounce:  debounce,
		apply:     apply,
		seq:       make(map[string]uint64),
		timers:    make(map[string]*time.Timer),
	}
}

// #endregion

// #region schedule

// Schedule queues a validation request for the criterion, replacing any
// not-yet-fired request for the same criterion.
func (d *Dispatcher) Schedule(ctx context.Context, req ValidationRequest) {
	critID := req.Criterion.ID

	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[critID]; ok {
		t.Stop()
	}
	d.timers[critID] = time.AfterFunc(d.debounce, func() {
		d.issue(ctx, critID, req)
	})
}

// issue sends the request with a fresh sequence number.
func (d *Dispatcher) issue(ctx context.Context, critID string, req ValidationRequest) {
	d.mu.Lock()
	d.seq[critID]++
	mySeq := d.seq[critID]
	delete(d.timers, critID)
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()

		analysis, err := d.validator.Validate(ctx, req)
		if err != nil {
			log.Printf("[GATEWAY] validation for criterion %s failed: %v", critID, err)
		}

		d.mu.Lock()
		latest := d.seq[critID] == mySeq
		d.mu.Unlock()
		if !latest {
			// A newer request was issued while this one was in flight.
			return
		}
		d.apply(critID, analysis)
	}()
}

// #endregion

// #region cancel

// Cancel drops any pending (not yet issued) request for the criterion and
// marks in-flight responses stale. Used when the grader clears a score or
// moves to another submission.
func (d *Dispatcher) Cancel(criterionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[criterionID]; ok {
		t.Stop()
		delete(d.timers, criterionID)
	}
	d.seq[criterionID]++
}

// Wait blocks until all in-flight requests complete. Pending timers are not
// waited on; call Cancel first to discard them.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// #endregion
