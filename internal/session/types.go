package session

// #region imports
import (
	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// #region screen

// Screen identifies a phase of the grading workflow.
type Screen string

const (
	ScreenSetup         Screen = "Setup"
	ScreenCalibration   Screen = "Calibration"
	ScreenActiveGrading Screen = "ActiveGrading"
	ScreenLiveAnalytics Screen = "LiveAnalytics"
	ScreenReflection    Screen = "Reflection"
	ScreenFinalization  Screen = "Finalization"
)

// allowedTransitions is the forward-only transition table. LiveAnalytics is a
// non-committing side excursion from ActiveGrading; backward navigation
// happens only through explicit revisit actions (GoToSubmission).
var allowedTransitions = map[Screen][]Screen{
	ScreenSetup:         {ScreenCalibration},
	ScreenCalibration:   {ScreenActiveGrading},
	ScreenActiveGrading: {ScreenLiveAnalytics, ScreenReflection},
	ScreenLiveAnalytics: {ScreenActiveGrading},
	ScreenReflection:    {ScreenFinalization, ScreenActiveGrading},
	ScreenFinalization:  {},
}

// #endregion

// #region observer

// Observer receives audit notifications for committed session events. All
// callbacks run synchronously inside the session's critical section and must
// not call back into the session.
type Observer interface {
	EvaluationSaved(sessionID string, record grading.EvaluationRecord)
	OverrideRecorded(sessionID string, entry grading.OverrideLog)
	ScreenChanged(sessionID string, from, to Screen)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) EvaluationSaved(string, grading.EvaluationRecord) {}
func (NopObserver) OverrideRecorded(string, grading.OverrideLog)     {}
func (NopObserver) ScreenChanged(string, Screen, Screen)             {}

// #endregion
