// Package identity supplies the signed-in user to the rest of the service.
// Authentication itself is delegated; this package only tracks which token
// belongs to whom.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	DefaultName  = "Demo User"
	DefaultEmail = "user@maarg.com"
)

var ErrUnauthenticated = errors.New("not signed in")

type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Provider resolves the identity behind a request context.
type Provider interface {
	CurrentUser(ctx context.Context) (Identity, bool)
	SignOut(ctx context.Context) error
}

type tokenKey struct{}

// WithToken attaches a session token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type entry struct {
	identity Identity
	expires  time.Time
}

// Sessions is an in-memory token store.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]entry
	byMail map[string]string
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: make(map[string]entry),
		byMail: make(map[string]string),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SignIn issues a token for the given user. The same email always maps to
// the same user id for the lifetime of the store.
func (s *Sessions) SignIn(name, email string) (string, Identity) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		name = DefaultName
	}
	if email == "" {
		email = DefaultEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byMail[email]
	if !ok {
		userID = uuid.NewString()
		s.byMail[email] = userID
	}
	id := Identity{UserID: userID, Name: name, Email: email}
	token := uuid.NewString()
	s.tokens[token] = entry{identity: id, expires: s.now().Add(s.ttl)}
	return token, id
}

func (s *Sessions) CurrentUser(ctx context.Context) (Identity, bool) {
	token := TokenFrom(ctx)
	if token == "" {
		return Identity{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok {
		return Identity{}, false
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.tokens, token)
		return Identity{}, false
	}
	return e.identity, true
}

func (s *Sessions) SignOut(ctx context.Context) error {
	token := TokenFrom(ctx)
	if token == "" {
		return ErrUnauthenticated
	}
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

// Profile is what views show for the signed-in user.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Initials    string `json:"initials"`
}

// NewProfile builds the view profile. A stored display name overrides the
// identity name.
func NewProfile(id Identity, storedName, photoURL string) Profile {
	name := strings.TrimSpace(storedName)
	if name == "" {
		name = id.Name
	}
	if name == "" {
		name = DefaultName
	}
	return Profile{
		UserID:      id.UserID,
		DisplayName: name,
		Email:       id.Email,
		PhotoURL:    photoURL,
		Initials:    Initials(name),
	}
}

// Initials returns up to two upper-case initials from name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(word)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "U"
	}
	return string(out)
}
