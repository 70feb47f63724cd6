package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/documents"
	"github.com/muhammadolammi/maarg/internal/events"
	"github.com/muhammadolammi/maarg/internal/llm"
)

// analyzeDocument runs the analysis pipeline for one uploaded document:
// download, text extraction, skill extraction, job matching and persistence.
// Downloads and the final save are retried; model calls retry inside the
// advisor.
func analyzeDocument(ctx context.Context, job events.AnalysisJob, wc *WorkerConfig) error {
	doc, err := wc.DB.GetDocument(ctx, job.DocumentID)
	if err != nil {
		return fmt.Errorf("error getting document %v: %w", job.DocumentID, err)
	}
	if doc.UserID != job.UserID {
		return fmt.Errorf("document %v does not belong to user %s", doc.ID, job.UserID)
	}

	fileBytes, err := llm.Retry(ctx, 3, wc.Backoff, func() ([]byte, error) {
		return wc.Objects.Download(ctx, doc.ObjectKey)
	})
	if err != nil {
		return fmt.Errorf("file download error: %w", err)
	}

	text, err := documents.ExtractText(doc.Mime, fileBytes)
	if err != nil {
		return fmt.Errorf("text extraction error: %w", err)
	}

	result := &DocumentAnalysis{DocumentID: doc.ID}
	skills, err := wc.Analyzer.ExtractSkills(ctx, advisor.SkillsInput{AcademicRecords: truncateText(text, maxDocumentRunes)})
	if err != nil {
		return fmt.Errorf("skill extraction error: %w", err)
	}
	result.HardSkills = skills.HardSkills
	result.SoftSkills = skills.SoftSkills

	if len(skills.HardSkills) > 0 {
		jobs, err := wc.Analyzer.MatchJobs(ctx, advisor.JobsInput{Skills: strings.Join(skills.HardSkills, ", ")})
		if err != nil {
			// keep the skills; the job list is best effort
			log.Printf("⚠️ Job matching failed for document %v: %v", doc.ID, err)
			markError(result, fmt.Sprintf("job matching error: %v", err))
		} else {
			result.Jobs = jobs.Jobs
			result.JobsSummary = jobs.Summary
		}
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal document analysis: %w", err)
	}
	_, err = llm.Retry(ctx, 3, wc.Backoff, func() (any, error) {
		return nil, wc.DB.CreateOrUpdateDocumentAnalysis(ctx, database.CreateOrUpdateDocumentAnalysisParams{
			Results:    resultJSON,
			DocumentID: doc.ID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save document analysis after retries: %w", err)
	}
	return nil
}

// processJob handles one queue message body end to end, including status
// updates. It returns the final status.
func processJob(ctx context.Context, workerID int, body []byte, wc *WorkerConfig) string {
	job := events.AnalysisJob{}
	if err := json.Unmarshal(body, &job); err != nil {
		log.Printf("error unmarshalling message body. err: %v", err)
		if job.DocumentID != uuid.Nil {
			wc.setStatus(ctx, job.DocumentID, StatusFailed, "analysis failed")
		}
		return StatusFailed
	}
	log.Printf("Worker %d processing document. document_id: %s", workerID+1, job.DocumentID)
	wc.setStatus(ctx, job.DocumentID, StatusProcessing, "analysis started")

	jobCtx := ctx
	if wc.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, wc.Timeout)
		defer cancel()
	}
	if err := analyzeDocument(jobCtx, job, wc); err != nil {
		log.Printf("error analysing document_id: %v. err: %v", job.DocumentID, err)
		wc.setStatus(ctx, job.DocumentID, StatusFailed, "analysis failed")
		return StatusFailed
	}
	wc.setStatus(ctx, job.DocumentID, StatusCompleted, "analysis completed")
	return StatusCompleted
}

func worker(ctx context.Context, id int, wc *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()

	ch, err := wc.RabbitConn.Channel()
	if err != nil {
		log.Printf("worker %d: error connecting to rabbitmq channel: %v", id+1, err)
		return
	}
	defer ch.Close()

	// one unacknowledged job per worker
	if err := ch.Qos(1, 0, false); err != nil {
		log.Printf("worker %d: failed to set qos: %v", id+1, err)
		return
	}
	msgs, err := ch.Consume(
		events.AnalysisQueue, // queue name
		"",                   // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		log.Printf("worker %d: error consuming rabbitmq message: %v", id+1, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			processJob(ctx, id, msg.Body, wc)
			if err := msg.Ack(false); err != nil {
				log.Printf("worker %d: failed to ack message: %v", id+1, err)
			}
		}
	}
}

// StartConsumerWorkerPool runs numWorkers consumers of the analysis queue and
// blocks until they all stop.
func (wc *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(ctx, i, wc, &wg)
	}
	wg.Wait()
}
