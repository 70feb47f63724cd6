package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoKey    sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InterviewSession struct {
	ID        uuid.UUID
	UserID    string
	Role      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InterviewReport struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	UserID     string
	Role       string
	Report     json.RawMessage
	Transcript json.RawMessage
	CreatedAt  time.Time
}

type Document struct {
	ID               uuid.UUID
	UserID           string
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	StorageProvider  string
	ObjectKey        string
	StorageUrl       string
	Status           string
	CreatedAt        time.Time
}

type DocumentAnalysis struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Results    json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
