package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/events"
	"github.com/streadway/amqp"
)

// DocumentStore is the part of the database the worker reads and writes.
type DocumentStore interface {
	GetDocument(ctx context.Context, id uuid.UUID) (database.Document, error)
	UpdateDocumentStatus(ctx context.Context, arg database.UpdateDocumentStatusParams) error
	CreateOrUpdateDocumentAnalysis(ctx context.Context, arg database.CreateOrUpdateDocumentAnalysisParams) error
}

type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Analyzer runs the advisor features a document analysis is built from.
type Analyzer interface {
	ExtractSkills(ctx context.Context, in advisor.SkillsInput) (*advisor.SkillsOutput, error)
	MatchJobs(ctx context.Context, in advisor.JobsInput) (*advisor.JobsOutput, error)
}

type UpdatePublisher interface {
	PublishSessionUpdate(sessionID string, update events.Update) error
}

type DocumentObserver interface {
	ObserveDocument(status string)
}

type WorkerConfig struct {
	DB         DocumentStore
	Objects    Downloader
	Analyzer   Analyzer
	Publisher  UpdatePublisher
	Metrics    DocumentObserver
	RabbitConn *amqp.Connection
	// Backoff is the base wait between download and save retries.
	Backoff time.Duration
	Timeout time.Duration
}

// DocumentAnalysis is stored as the results of a document_analyses row.
type DocumentAnalysis struct {
	DocumentID  uuid.UUID     `json:"document_id"`
	HardSkills  []string      `json:"hard_skills"`
	SoftSkills  []string      `json:"soft_skills"`
	Jobs        []advisor.Job `json:"jobs"`
	JobsSummary string        `json:"jobs_summary,omitempty"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
