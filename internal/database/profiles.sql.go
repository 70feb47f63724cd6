package database

import (
	"context"
	"database/sql"
)

const getProfile = `-- name: GetProfile :one
SELECT user_id, email, display_name, photo_key, created_at, updated_at FROM profiles WHERE user_id=$1
`

func (q *Queries) GetProfile(ctx context.Context, userID string) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile, userID)
	var i Profile
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.DisplayName,
		&i.PhotoKey,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertProfile = `-- name: UpsertProfile :one
INSERT INTO profiles (user_id, email, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (user_id)
DO UPDATE SET
    email = EXCLUDED.email,
    display_name = EXCLUDED.display_name,
    updated_at = CURRENT_TIMESTAMP
RETURNING user_id, email, display_name, photo_key, created_at, updated_at
`

type UpsertProfileParams struct {
	UserID      string
	Email       string
	DisplayName string
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, upsertProfile, arg.UserID, arg.Email, arg.DisplayName)
	var i Profile
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.DisplayName,
		&i.PhotoKey,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateProfilePhoto = `-- name: UpdateProfilePhoto :exec
UPDATE profiles
SET photo_key=$1, updated_at=CURRENT_TIMESTAMP
WHERE user_id=$2
`

type UpdateProfilePhotoParams struct {
	PhotoKey sql.NullString
	UserID   string
}

func (q *Queries) UpdateProfilePhoto(ctx context.Context, arg UpdateProfilePhotoParams) error {
	_, err := q.db.ExecContext(ctx, updateProfilePhoto, arg.PhotoKey, arg.UserID)
	return err
}
