package tui

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/muhammadolammi/maarg/internal/interview"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS reports (
	session_id TEXT PRIMARY KEY,
	role       TEXT NOT NULL,
	score      REAL NOT NULL,
	summary    TEXT NOT NULL,
	report     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_role_created ON reports (role, created_at);
`

// HistoryStore keeps finished reports between runs.
type HistoryStore interface {
	SaveReport(e Entry) error
	LatestScores() (map[string]float64, error)
}

// Entry is one saved report.
type Entry struct {
	SessionID string
	Role      string
	Report    interview.Report
	CreatedAt time.Time
}

// History is the sqlite-backed HistoryStore.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultHistoryPath returns ~/.maarg/history.sqlite.
func DefaultHistoryPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".maarg", "history.sqlite")
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &History{db: db, now: time.Now}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// SaveReport stores e, replacing any earlier report for the same session.
func (h *History) SaveReport(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = h.now()
	}
	body, err := json.Marshal(e.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = h.db.Exec(`
		INSERT OR REPLACE INTO reports (session_id, role, score, summary, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.Role, e.Report.ConfidenceScore, e.Report.Summary, string(body), e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LatestScores returns the most recent confidence score for each role.
func (h *History) LatestScores() (map[string]float64, error) {
	rows, err := h.db.Query(`
		SELECT role, score
		FROM reports
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var role string
		var score float64
		if err := rows.Scan(&role, &score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores[role] = score
	}
	return scores, rows.Err()
}

// Reports returns saved reports for role, newest first.
func (h *History) Reports(role string, limit int) ([]Entry, error) {
	rows, err := h.db.Query(`
		SELECT session_id, role, report, created_at
		FROM reports
		WHERE role = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, role, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var body string
		var created int64
		if err := rows.Scan(&e.SessionID, &e.Role, &body, &created); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if err := json.Unmarshal([]byte(body), &e.Report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", e.SessionID, err)
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
