package ledger

// #region imports
import (
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// #region ledger

// OverrideLedger is the append-only log of professor decisions to proceed
// against a validation verdict. Entries are never mutated, deleted, or
// deduplicated: re-overriding the same (submission, criterion) pair produces a
// second entry.
type OverrideLedger struct {
	entries []grading.OverrideLog
}

// NewOverrideLedger returns an empty ledger.
func NewOverrideLedger() *OverrideLedger {
	return &OverrideLedger{}
}

// Append records one override event unconditionally. The caller is responsible
// for only invoking it with a non-empty justification. A zero timestamp is
// stamped with the current time.
func (l *OverrideLedger) Append(entry grading.OverrideLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	l.entries = append(l.entries, entry)
}

// All returns the entries in append order.
func (l *OverrideLedger) All() []grading.OverrideLog {
	out := make([]grading.OverrideLog, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of recorded overrides.
func (l *OverrideLedger) Count() int {
	return len(l.entries)
}

// Reset drops all entries.
func (l *OverrideLedger) Reset() {
	l.entries = nil
}

// #endregion
