package server

import (
	"errors"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/muhammadolammi/maarg/internal/identity"
	"github.com/muhammadolammi/maarg/internal/interview"
)

type startRequest struct {
	Role string `json:"role" form:"role"`
}

// interviewResponse carries the snapshot after every interview call, plus
// the error text when the call failed.
type interviewResponse struct {
	Snapshot interview.Snapshot `json:"snapshot"`
	Error    string             `json:"error,omitempty"`
}

func (s *Server) controller(c *fiber.Ctx) *interview.Controller {
	return s.Hub.Get(currentUser(c).UserID)
}

func (s *Server) InterviewSnapshot(c *fiber.Ctx) error {
	return c.JSON(interviewResponse{Snapshot: s.controller(c).Snapshot()})
}

func (s *Server) StartInterview(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body could not be read."})
	}
	ctrl := s.controller(c)
	return s.interviewResult(c, ctrl, ctrl.Start(c.UserContext(), req.Role))
}

func (s *Server) SubmitAnswer(c *fiber.Ctx) error {
	var sub interview.Submission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body could not be read."})
	}
	ctrl := s.controller(c)
	return s.interviewResult(c, ctrl, ctrl.SubmitAnswer(c.UserContext(), sub))
}

func (s *Server) RequestReport(c *fiber.Ctx) error {
	ctrl := s.controller(c)
	_, err := ctrl.RequestReport(c.UserContext())
	return s.interviewResult(c, ctrl, err)
}

func (s *Server) ResetInterview(c *fiber.Ctx) error {
	ctrl := s.controller(c)
	ctrl.Reset()
	return c.JSON(interviewResponse{Snapshot: ctrl.Snapshot()})
}

func (s *Server) EndInterview(c *fiber.Ctx) error {
	ctrl := s.controller(c)
	ctrl.End()
	return c.JSON(interviewResponse{Snapshot: ctrl.Snapshot()})
}

func (s *Server) interviewResult(c *fiber.Ctx, ctrl *interview.Controller, err error) error {
	resp := interviewResponse{Snapshot: ctrl.Snapshot()}
	if err == nil {
		return c.JSON(resp)
	}
	resp.Error = err.Error()
	return c.Status(interviewStatus(err)).JSON(resp)
}

func interviewStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrStaleResponse):
		return fiber.StatusAccepted
	case errors.Is(err, interview.ErrRequestPending), errors.Is(err, interview.ErrInvalidPhase), errors.Is(err, interview.ErrStaleSubmission):
		return fiber.StatusConflict
	case errors.Is(err, interview.ErrEmptyAnswer), errors.Is(err, interview.ErrUnknownRole):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadGateway
	}
}

// Broadcaster wakes websocket subscribers of a user whenever that user's
// controller emits an event.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[chan struct{}]struct{})}
}

// Listener returns the controller listener for userID.
func (b *Broadcaster) Listener(userID string) interview.Listener {
	return func(interview.Event) { b.Notify(userID) }
}

// Notify signals every subscriber of userID without blocking. Signals
// coalesce; a subscriber always reads the latest snapshot after waking.
func (b *Broadcaster) Notify(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *Broadcaster) Subscribe(userID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan struct{}]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs[userID], ch)
		if len(b.subs[userID]) == 0 {
			delete(b.subs, userID)
		}
		b.mu.Unlock()
	}
}

func (s *Server) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// InterviewSocket pushes the user's interview snapshot on connect and after
// every controller event until the client goes away.
func (s *Server) InterviewSocket(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	id, ok := conn.Locals(identityKey).(identity.Identity)
	if !ok {
		return
	}
	wake, unsubscribe := s.Broadcaster.Subscribe(id.UserID)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// resolved on every write; the hub may have replaced an evicted controller
	if err := conn.WriteJSON(s.Hub.Get(id.UserID).Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-wake:
			if err := conn.WriteJSON(s.Hub.Get(id.UserID).Snapshot()); err != nil {
				log.Printf("websocket write for %s failed: %v", id.UserID, err)
				return
			}
		}
	}
}
