package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/events"
)

// maxDocumentRunes caps the document text sent to the model.
const maxDocumentRunes = 20000

func markError(result *DocumentAnalysis, msg string) {
	result.IsErrorResult = true
	result.Error = msg
}

func truncateText(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// setStatus records a document status change and publishes it. Failures are
// logged; the job carries on.
func (wc *WorkerConfig) setStatus(ctx context.Context, docID uuid.UUID, status, message string) {
	err := wc.DB.UpdateDocumentStatus(ctx, database.UpdateDocumentStatusParams{
		Status: status,
		ID:     docID,
	})
	if err != nil {
		log.Printf("error updating document status to %s for document_id: %v. err: %v", status, docID, err)
	}

	if wc.Publisher != nil {
		update := events.Update{
			Kind:    "document",
			Status:  status,
			Message: message,
		}
		if err := wc.Publisher.PublishSessionUpdate(docID.String(), update); err != nil {
			log.Println("failed to publish update:", err)
		}
	}

	if wc.Metrics != nil && status != StatusProcessing {
		wc.Metrics.ObserveDocument(status)
	}
}
