package ledger

import (
	"testing"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
)

func TestAppendNeverDedupes(t *testing.T) {
	l := NewOverrideLedger()
	entry := grading.OverrideLog{
		SubmissionID:           "sub1",
		CriterionID:            "crit1",
		OriginalAIStatus:       grading.StatusNotSupported,
		ProfessorJustification: "The essay addresses this implicitly in paragraph two.",
	}

	for i := 0; i < 3; i++ {
		l.Append(entry)
	}
	if l.Count() != 3 {
		t.Fatalf("count = %d, want 3 (identical entries must not dedupe)", l.Count())
	}
}

func TestAppendStampsZeroTimestamp(t *testing.T) {
	l := NewOverrideLedger()
	l.Append(grading.OverrideLog{SubmissionID: "sub1", CriterionID: "crit1"})

	pinned := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	l.Append(grading.OverrideLog{SubmissionID: "sub2", CriterionID: "crit1", Timestamp: pinned})

	entries := l.All()
	if entries[0].Timestamp.IsZero() {
		t.Error("zero timestamp not stamped")
	}
	if !entries[1].Timestamp.Equal(pinned) {
		t.Errorf("caller timestamp overwritten: %v", entries[1].Timestamp)
	}
}

func TestAllPreservesOrder(t *testing.T) {
	l := NewOverrideLedger()
	for _, id := range []string{"crit3", "crit1", "crit2"} {
		l.Append(grading.OverrideLog{SubmissionID: "sub1", CriterionID: id})
	}

	var got []string
	for _, e := range l.All() {
		got = append(got, e.CriterionID)
	}
	want := []string{"crit3", "crit1", "crit2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestReset(t *testing.T) {
	l := NewOverrideLedger()
	l.Append(grading.OverrideLog{SubmissionID: "sub1", CriterionID: "crit1"})
	l.Reset()
	if l.Count() != 0 {
		t.Errorf("count after reset = %d", l.Count())
	}
}
