package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const upsertInterviewSession = `-- name: UpsertInterviewSession :exec
INSERT INTO interview_sessions (id, user_id, role, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET
    role = CASE WHEN EXCLUDED.role = '' THEN interview_sessions.role ELSE EXCLUDED.role END,
    status = EXCLUDED.status,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertInterviewSessionParams struct {
	ID     uuid.UUID
	UserID string
	Role   string
	Status string
}

func (q *Queries) UpsertInterviewSession(ctx context.Context, arg UpsertInterviewSessionParams) error {
	_, err := q.db.ExecContext(ctx, upsertInterviewSession, arg.ID, arg.UserID, arg.Role, arg.Status)
	return err
}

const createOrUpdateInterviewReport = `-- name: CreateOrUpdateInterviewReport :exec
INSERT INTO interview_reports (session_id, user_id, role, report, transcript)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session_id)
DO UPDATE SET
    report = EXCLUDED.report,
    transcript = EXCLUDED.transcript
`

type CreateOrUpdateInterviewReportParams struct {
	SessionID  uuid.UUID
	UserID     string
	Role       string
	Report     json.RawMessage
	Transcript json.RawMessage
}

func (q *Queries) CreateOrUpdateInterviewReport(ctx context.Context, arg CreateOrUpdateInterviewReportParams) error {
	_, err := q.db.ExecContext(ctx, createOrUpdateInterviewReport,
		arg.SessionID,
		arg.UserID,
		arg.Role,
		arg.Report,
		arg.Transcript,
	)
	return err
}

const listInterviewReportsByUser = `-- name: ListInterviewReportsByUser :many
SELECT id, session_id, user_id, role, report, transcript, created_at FROM interview_reports
WHERE user_id=$1
ORDER BY created_at DESC
LIMIT $2
`

type ListInterviewReportsByUserParams struct {
	UserID string
	Limit  int32
}

func (q *Queries) ListInterviewReportsByUser(ctx context.Context, arg ListInterviewReportsByUserParams) ([]InterviewReport, error) {
	rows, err := q.db.QueryContext(ctx, listInterviewReportsByUser, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InterviewReport
	for rows.Next() {
		var i InterviewReport
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.UserID,
			&i.Role,
			&i.Report,
			&i.Transcript,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
