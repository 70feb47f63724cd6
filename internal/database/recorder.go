package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/maarg/internal/interview"
)

// StatusEnded is the final status of a session abandoned by reset or end.
const StatusEnded = "ended"

// InterviewStore is the subset of Queries the Recorder writes through.
type InterviewStore interface {
	UpsertInterviewSession(ctx context.Context, arg UpsertInterviewSessionParams) error
	CreateOrUpdateInterviewReport(ctx context.Context, arg CreateOrUpdateInterviewReportParams) error
}

// Recorder persists interview progress: the session row follows every phase
// change, ends as StatusEnded when the session is abandoned, and the report
// is stored once it is ready.
type Recorder struct {
	store   InterviewStore
	timeout time.Duration
}

func NewRecorder(store InterviewStore, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{store: store, timeout: timeout}
}

// Listener returns a controller listener that records events for userID.
// Failures are logged and never reach the controller.
func (r *Recorder) Listener(userID string) interview.Listener {
	return func(ev interview.Event) {
		if err := r.Record(context.Background(), userID, ev); err != nil {
			log.Printf("failed to record interview event %s for session %s: %v", ev.Kind, ev.SessionID, err)
		}
	}
}

func (r *Recorder) Record(ctx context.Context, userID string, ev interview.Event) error {
	switch ev.Kind {
	case interview.EventPhaseChanged, interview.EventReportReady, interview.EventEnded:
	default:
		return nil
	}
	if ev.Phase == interview.PhaseNotStarted && ev.Role == "" {
		return nil
	}
	id, err := uuid.Parse(ev.SessionID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch ev.Kind {
	case interview.EventPhaseChanged:
		return r.store.UpsertInterviewSession(ctx, UpsertInterviewSessionParams{
			ID:     id,
			UserID: userID,
			Role:   ev.Role,
			Status: string(ev.Phase),
		})
	case interview.EventEnded:
		return r.store.UpsertInterviewSession(ctx, UpsertInterviewSessionParams{
			ID:     id,
			UserID: userID,
			Role:   ev.Role,
			Status: StatusEnded,
		})
	}

	report, err := json.Marshal(ev.Report)
	if err != nil {
		return err
	}
	transcript := ev.Transcript
	if transcript == nil {
		transcript = []interview.TranscriptEntry{}
	}
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return err
	}
	return r.store.CreateOrUpdateInterviewReport(ctx, CreateOrUpdateInterviewReportParams{
		SessionID:  id,
		UserID:     userID,
		Role:       ev.Role,
		Report:     report,
		Transcript: transcriptJSON,
	})
}
