// Package events publishes status updates and document jobs to RabbitMQ.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/maarg/internal/interview"
)

const (
	SessionUpdatesExchange = "session_updates"
	AnalysisQueue          = "document_analyses"
)

// Update is the body published on the session_updates exchange.
type Update struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisJob asks a worker to analyse one uploaded document.
type AnalysisJob struct {
	DocumentID uuid.UUID `json:"document_id"`
	UserID     string    `json:"user_id"`
}

// Channel is the part of an AMQP channel the publisher uses.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	open func() (Channel, error)
	now  func() time.Time
}

// NewPublisher publishes over short-lived channels of conn.
func NewPublisher(conn *amqp.Connection) *Publisher {
	return NewPublisherWith(func() (Channel, error) { return conn.Channel() })
}

func NewPublisherWith(open func() (Channel, error)) *Publisher {
	return &Publisher{open: open, now: time.Now}
}

// Declare creates the exchange and queue the service relies on.
func Declare(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		SessionUpdatesExchange, // name
		"topic",                // kind
		true,                   // durable
		false,                  // auto-delete
		false,                  // internal
		false,                  // no-wait
		nil,                    // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(
		AnalysisQueue, // queue name
		true,          // durable (survives broker restarts)
		false,         // auto-delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

func (p *Publisher) PublishSessionUpdate(sessionID string, update Update) error {
	update.SessionID = sessionID
	if update.Timestamp.IsZero() {
		update.Timestamp = p.now()
	}
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return p.publish(SessionUpdatesExchange, fmt.Sprintf("session.%s", sessionID), amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *Publisher) EnqueueAnalysis(job AnalysisJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.publish("", AnalysisQueue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Body:         body,
	})
}

func (p *Publisher) publish(exchange, key string, msg amqp.Publishing) error {
	ch, err := p.open()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.Publish(exchange, key, false, false, msg)
}

// InterviewListener forwards phase changes and finished reports of an
// interview session to the session_updates exchange.
func (p *Publisher) InterviewListener() interview.Listener {
	return func(ev interview.Event) {
		var update Update
		switch ev.Kind {
		case interview.EventPhaseChanged:
			update = Update{Kind: "interview", Status: string(ev.Phase), Message: "phase changed"}
		case interview.EventReportReady:
			update = Update{Kind: "interview", Status: string(ev.Phase), Message: "report ready", Data: ev.Report}
		case interview.EventEnded:
			update = Update{Kind: "interview", Status: string(ev.Kind), Message: "session ended"}
		case interview.EventNotice:
			update = Update{Kind: "interview", Status: string(ev.Phase), Message: ev.Notice}
		default:
			return
		}
		if err := p.PublishSessionUpdate(ev.SessionID, update); err != nil {
			log.Println("failed to publish update:", err)
		}
	}
}
