package store

// #region imports
import (
	"fmt"
	"strings"
	"time"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

// #endregion

// #region store

// EvaluationStore holds one evaluation record per submission, in the order
// submissions were first graded. Saves are all-or-nothing: a record must cover
// every rubric criterion with a valid score and non-empty explanation.
type EvaluationStore struct {
	criteria []rubric.Criterion
	records  []grading.EvaluationRecord
	index    map[string]int // submission id → position in records
}

// NewEvaluationStore creates a store bound to the session's rubric.
func NewEvaluationStore(criteria []rubric.Criterion) *EvaluationStore {
	return &EvaluationStore{
		criteria: criteria,
		index:    make(map[string]int),
	}
}

// #endregion

// #region upsert

// Upsert validates evaluations against the rubric and replaces any existing
// record for submissionID wholesale, stamping the current time. Returns the
// stored record.
func (s *EvaluationStore) Upsert(submissionID string, evaluations []grading.CriterionEvaluation) (grading.EvaluationRecord, error) {
	if err := s.validate(evaluations); err != nil {
		return grading.EvaluationRecord{}, err
	}

	rec := grading.EvaluationRecord{
		SubmissionID: submissionID,
		Evaluations:  evaluations,
		Timestamp:    time.Now().UTC(),
	}

	if pos, ok := s.index[submissionID]; ok {
		s.records[pos] = rec
	} else {
		s.index[submissionID] = len(s.records)
		s.records = append(s.records, rec)
	}
	return rec, nil
}

// validate checks that every rubric criterion has a score within range and a
// non-empty explanation.
func (s *EvaluationStore) validate(evaluations []grading.CriterionEvaluation) error {
	byID := make(map[string]grading.CriterionEvaluation, len(evaluations))
	for _, ev := range evaluations {
		byID[ev.CriterionID] = ev
	}

	var missing []string
	var reason string
	for _, crit := range s.criteria {
		ev, ok := byID[crit.ID]
		switch {
		case !ok:
			missing = append(missing, crit.ID)
			reason = "criterion not evaluated"
		case ev.Score == nil:
			missing = append(missing, crit.ID)
			reason = "score missing"
		case *ev.Score < 0 || *ev.Score > crit.MaxScore:
			missing = append(missing, crit.ID)
			reason = fmt.Sprintf("score %d outside 0..%d", *ev.Score, crit.MaxScore)
		case strings.TrimSpace(ev.Explanation) == "":
			missing = append(missing, crit.ID)
			reason = "explanation missing"
		}
	}
	if len(missing) > 0 {
		return &grading.IncompleteEvaluationError{CriterionIDs: missing, Reason: reason}
	}
	return nil
}

// #endregion

// #region accessors

// Get returns the record for a submission id, if one exists.
func (s *EvaluationStore) Get(submissionID string) (grading.EvaluationRecord, bool) {
	pos, ok := s.index[submissionID]
	if !ok {
		return grading.EvaluationRecord{}, false
	}
	return s.records[pos], true
}

// All returns the records in graded order.
func (s *EvaluationStore) All() []grading.EvaluationRecord {
	out := make([]grading.EvaluationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Latest returns the most recently saved record, or false if the store is empty.
// Note "latest" follows save time, not graded order: re-saving an old
// submission makes it the latest.
func (s *EvaluationStore) Latest() (grading.EvaluationRecord, bool) {
	if len(s.records) == 0 {
		return grading.EvaluationRecord{}, false
	}
	latest := s.records[0]
	for _, rec := range s.records[1:] {
		if !rec.Timestamp.Before(latest.Timestamp) {
			latest = rec
		}
	}
	return latest, true
}

// Len returns the number of graded records.
func (s *EvaluationStore) Len() int {
	return len(s.records)
}

// Reset drops all records.
func (s *EvaluationStore) Reset() {
	s.records = nil
	s.index = make(map[string]int)
}

// #endregion
