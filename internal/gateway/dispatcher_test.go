package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

// scriptedValidator reports each call on started and can hold selected
// requests open on a gate, so completion order is controlled by the test.
type scriptedValidator struct {
	mu      sync.Mutex
	started chan string
	gates   map[string]chan struct{}
}

func (v *scriptedValidator) Validate(_ context.Context, req ValidationRequest) (grading.AIAnalysis, error) {
	if v.started != nil {
		v.started <- req.Explanation
	}
	v.mu.Lock()
	gate := v.gates[req.Explanation]
	v.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return grading.AIAnalysis{
		Status:              grading.StatusSupported,
		SuggestedRefinement: req.Explanation,
	}, nil
}

func validationReq(explanation string) ValidationRequest {
	return ValidationRequest{
		SubmissionText: "An essay about the green light.",
		Criterion:      rubric.Criterion{ID: "crit1", Name: "Thesis", MaxScore: 5},
		Score:          4,
		Explanation:    explanation,
	}
}

func waitStarted(t *testing.T, started chan string, want string) {
	t.Helper()
	select {
	case got := <-started:
		if got != want {
			t.Fatalf("validator received %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("validator never received %q", want)
	}
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	v := &scriptedValidator{started: make(chan string, 4)}
	applied := make(chan grading.AIAnalysis, 4)
	d := NewDispatcher(v, 30*time.Millisecond, func(_ string, a grading.AIAnalysis) {
		applied <- a
	})

	d.Schedule(context.Background(), validationReq("draft one"))
	d.Schedule(context.Background(), validationReq("draft two"))
	d.Schedule(context.Background(), validationReq("draft three"))

	waitStarted(t, v.started, "draft three")
	d.Wait()

	select {
	case a := <-applied:
		if a.SuggestedRefinement != "draft three" {
			t.Errorf("applied %q, want the final edit", a.SuggestedRefinement)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never applied")
	}
	select {
	case a := <-applied:
		t.Fatalf("earlier edit applied: %q", a.SuggestedRefinement)
	case extra := <-v.started:
		t.Fatalf("earlier edit issued: %q", extra)
	default:
	}
}

func TestStaleInFlightResponseDiscarded(t *testing.T) {
	slowGate := make(chan struct{})
	v := &scriptedValidator{
		started: make(chan string, 4),
		gates:   map[string]chan struct{}{"slow draft": slowGate},
	}
	applied := make(chan grading.AIAnalysis, 4)
	d := NewDispatcher(v, time.Millisecond, func(_ string, a grading.AIAnalysis) {
		applied <- a
	})

	// First request goes in flight and stalls.
	d.Schedule(context.Background(), validationReq("slow draft"))
	waitStarted(t, v.started, "slow draft")

	// Second request for the same criterion completes immediately.
	d.Schedule(context.Background(), validationReq("final draft"))
	waitStarted(t, v.started, "final draft")

	select {
	case a := <-applied:
		if a.SuggestedRefinement != "final draft" {
			t.Fatalf("applied %q, want final draft", a.SuggestedRefinement)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("newer analysis never applied")
	}

	// The stalled request now completes, but its response is stale.
	close(slowGate)
	d.Wait()

	select {
	case a := <-applied:
		t.Fatalf("stale response applied: %q", a.SuggestedRefinement)
	default:
	}
}

func TestCancelDropsPendingRequest(t *testing.T) {
	v := &scriptedValidator{started: make(chan string, 4)}
	d := NewDispatcher(v, 40*time.Millisecond, func(string, grading.AIAnalysis) {
		t.Error("apply called after cancel")
	})

	d.Schedule(context.Background(), validationReq("abandoned draft"))
	d.Cancel("crit1")

	time.Sleep(120 * time.Millisecond)
	select {
	case got := <-v.started:
		t.Fatalf("cancelled request was issued: %q", got)
	default:
	}
}

func TestCancelMarksInFlightStale(t *testing.T) {
	gate := make(chan struct{})
	v := &scriptedValidator{
		started: make(chan string, 4),
		gates:   map[string]chan struct{}{"doomed draft": gate},
	}
	var mu sync.Mutex
	var applies int
	d := NewDispatcher(v, time.Millisecond, func(string, grading.AIAnalysis) {
		mu.Lock()
		applies++
		mu.Unlock()
	})

	d.Schedule(context.Background(), validationReq("doomed draft"))
	waitStarted(t, v.started, "doomed draft")

	d.Cancel("crit1")
	close(gate)
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	if applies != 0 {
		t.Errorf("applies = %d after cancel, want 0", applies)
	}
}

func TestCriteriaDebounceIndependently(t *testing.T) {
	v := &scriptedValidator{started: make(chan string, 4)}
	var mu sync.Mutex
	got := map[string]bool{}
	d := NewDispatcher(v, time.Millisecond, func(criterionID string, _ grading.AIAnalysis) {
		mu.Lock()
		got[criterionID] = true
		mu.Unlock()
	})

	reqA := validationReq("thesis note")
	reqB := validationReq("evidence note")
	reqB.Criterion = rubric.Criterion{ID: "crit2", Name: "Evidence", MaxScore: 4}

	d.Schedule(context.Background(), reqA)
	d.Schedule(context.Background(), reqB)

	deadline := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-v.started:
		case <-deadline:
			t.Fatal("requests never issued")
		}
	}
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !got["crit1"] || !got["crit2"] {
		t.Errorf("applied criteria = %v, want both", got)
	}
}
