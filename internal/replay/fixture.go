package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a scripted grading session.
type Fixture struct {
	Description  string          `json:"description"`
	AssignmentID string          `json:"assignment_id"`
	AIEnabled    bool            `json:"ai_enabled"`
	Actions      []FixtureAction `json:"actions"`
}

// FixtureAction is one scripted session operation. Fields apply depending on
// Type: "save" (Index, Evaluations), "override" (Index, CriterionID,
// OriginalStatus, Justification), "calibrate", "transition" (Screen),
// "advance", "goto" (Index), "set_ai" (Enabled), "reset".
type FixtureAction struct {
	Type           string              `json:"type"`
	Index          int                 `json:"index,omitempty"`
	Screen         string              `json:"screen,omitempty"`
	Enabled        bool                `json:"enabled,omitempty"`
	CriterionID    string              `json:"criterion_id,omitempty"`
	OriginalStatus string              `json:"original_status,omitempty"`
	Justification  string              `json:"justification,omitempty"`
	Evaluations    []FixtureEvaluation `json:"evaluations,omitempty"`
}

// FixtureEvaluation mirrors grading.CriterionEvaluation with JSON tags. An
// empty Status means the criterion was never analyzed.
type FixtureEvaluation struct {
	CriterionID           string `json:"criterion_id"`
	Score                 *int   `json:"score"`
	Explanation           string `json:"explanation"`
	HighlightedText       string `json:"highlighted_text,omitempty"`
	Status                string `json:"status,omitempty"`
	OverrideJustification string `json:"override_justification,omitempty"`
}

// #endregion

// #region load

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if f.AssignmentID == "" {
		return Fixture{}, fmt.Errorf("fixture missing assignment_id")
	}
	return f, nil
}

// #endregion
