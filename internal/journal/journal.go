package journal

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/session"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS evaluation_log (
    id             TEXT PRIMARY KEY,
    session_id     TEXT NOT NULL,
    submission_id  TEXT NOT NULL,
    evaluations    TEXT NOT NULL,
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS override_log (
    id             TEXT PRIMARY KEY,
    session_id     TEXT NOT NULL,
    submission_id  TEXT NOT NULL,
    criterion_id   TEXT NOT NULL,
    original_status TEXT NOT NULL,
    justification  TEXT NOT NULL,
    created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transition_log (
    id             TEXT PRIMARY KEY,
    session_id     TEXT NOT NULL,
    from_screen    TEXT NOT NULL,
    to_screen      TEXT NOT NULL,
    created_at     TEXT NOT NULL
);
`

// #endregion

// #region journal

// Journal is an append-only SQLite audit of session events: saved evaluation
// records, overrides, and screen transitions. It implements session.Observer
// and is never read back into session state; the session core stays in
// memory. Write failures are logged and swallowed so an audit hiccup can
// never stall grading.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) a journal database at path and runs migrations.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	j, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// New builds a journal over an existing database handle.
func New(db *sql.DB) (*Journal, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// #endregion

// #region observer

// EvaluationSaved records one saved record, evaluations serialized as JSON.
func (j *Journal) EvaluationSaved(sessionID string, record grading.EvaluationRecord) {
	payload, err := json.Marshal(record.Evaluations)
	if err != nil {
		log.Printf("[JOURNAL] marshal evaluations: %v", err)
		return
	}
	_, err = j.db.Exec(
		`INSERT INTO evaluation_log (id, session_id, submission_id, evaluations, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, record.SubmissionID, string(payload),
		record.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("[JOURNAL] record evaluation: %v", err)
	}
}

// OverrideRecorded records one override event.
func (j *Journal) OverrideRecorded(sessionID string, entry grading.OverrideLog) {
	_, err := j.db.Exec(
		`INSERT INTO override_log (id, session_id, submission_id, criterion_id, original_status, justification, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, entry.SubmissionID, entry.CriterionID,
		string(entry.OriginalAIStatus), entry.ProfessorJustification,
		entry.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("[JOURNAL] record override: %v", err)
	}
}

// ScreenChanged records one workflow transition.
func (j *Journal) ScreenChanged(sessionID string, from, to session.Screen) {
	_, err := j.db.Exec(
		`INSERT INTO transition_log (id, session_id, from_screen, to_screen, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, string(from), string(to),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("[JOURNAL] record transition: %v", err)
	}
}

// #endregion

// #region queries

// SavedCount returns how many evaluation rows a session has journaled.
// Re-saves of the same submission produce separate rows: the journal is an
// audit trail, not a mirror of the upsert store.
func (j *Journal) SavedCount(sessionID string) (int, error) {
	var n int
	err := j.db.QueryRow(
		`SELECT COUNT(*) FROM evaluation_log WHERE session_id = ?`, sessionID,
	).Scan(&n)
	return n, err
}

// Transitions returns a session's screen transitions as "from->to" strings,
// in recorded order.
func (j *Journal) Transitions(sessionID string) ([]string, error) {
	rows, err := j.db.Query(
		`SELECT from_screen, to_screen FROM transition_log WHERE session_id = ? ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		out = append(out, from+"->"+to)
	}
	return out, rows.Err()
}

// #endregion
