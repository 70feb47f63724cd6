package server

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter allows each user at most limit requests per sliding window.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	swept    time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// IsAllowed records a request for userID and reports whether it fits the
// limit. A limit of zero or less disables limiting.
func (rl *RateLimiter) IsAllowed(userID string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) >= rl.window {
		rl.sweepLocked(now)
	}
	valid := rl.requests[userID][:0]
	for _, t := range rl.requests[userID] {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}
	if len(valid) >= rl.limit {
		rl.requests[userID] = valid
		return false
	}
	rl.requests[userID] = append(valid, now)
	return true
}

// sweepLocked forgets users with no request inside the window.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for userID, times := range rl.requests {
		if len(times) == 0 || now.Sub(times[len(times)-1]) >= rl.window {
			delete(rl.requests, userID)
		}
	}
	rl.swept = now
}

func (s *Server) RateLimited(c *fiber.Ctx) error {
	if !s.limiter.IsAllowed(currentUser(c).UserID) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "Too many requests. Please wait a moment and try again.",
		})
	}
	return c.Next()
}
