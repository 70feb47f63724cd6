package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createOrUpdateDocumentAnalysis = `-- name: CreateOrUpdateDocumentAnalysis :exec
INSERT INTO document_analyses (
results, document_id)
VALUES ( $1, $2)
ON CONFLICT (document_id)
DO UPDATE SET
    results = EXCLUDED.results,
    updated_at = CURRENT_TIMESTAMP
`

type CreateOrUpdateDocumentAnalysisParams struct {
	Results    json.RawMessage
	DocumentID uuid.UUID
}

func (q *Queries) CreateOrUpdateDocumentAnalysis(ctx context.Context, arg CreateOrUpdateDocumentAnalysisParams) error {
	_, err := q.db.ExecContext(ctx, createOrUpdateDocumentAnalysis, arg.Results, arg.DocumentID)
	return err
}

const getDocumentAnalysis = `-- name: GetDocumentAnalysis :one
SELECT id, document_id, results, created_at, updated_at FROM document_analyses WHERE document_id=$1
`

func (q *Queries) GetDocumentAnalysis(ctx context.Context, documentID uuid.UUID) (DocumentAnalysis, error) {
	row := q.db.QueryRowContext(ctx, getDocumentAnalysis, documentID)
	var i DocumentAnalysis
	err := row.Scan(
		&i.ID,
		&i.DocumentID,
		&i.Results,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
