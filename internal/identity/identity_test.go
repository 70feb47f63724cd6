package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInAndCurrentUser(t *testing.T) {
	s := NewSessions(time.Hour)
	token, id := s.SignIn("Ada Lovelace", " Ada@Example.com ")
	assert.Equal(t, "ada@example.com", id.Email)

	got, ok := s.CurrentUser(WithToken(context.Background(), token))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = s.CurrentUser(context.Background())
	assert.False(t, ok)
	_, ok = s.CurrentUser(WithToken(context.Background(), "nope"))
	assert.False(t, ok)

	_, again := s.SignIn("Ada", "ada@example.com")
	assert.Equal(t, id.UserID, again.UserID)
}

func TestSignInDefaults(t *testing.T) {
	_, id := NewSessions(time.Hour).SignIn("", "")
	assert.Equal(t, DefaultName, id.Name)
	assert.Equal(t, DefaultEmail, id.Email)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewSessions(time.Hour)
	s.now = func() time.Time { return now }
	token, _ := s.SignIn("Ada", "ada@example.com")
	ctx := WithToken(context.Background(), token)

	_, ok := s.CurrentUser(ctx)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = s.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestSignOut(t *testing.T) {
	s := NewSessions(time.Hour)
	token, _ := s.SignIn("Ada", "ada@example.com")
	ctx := WithToken(context.Background(), token)

	require.NoError(t, s.SignOut(ctx))
	_, ok := s.CurrentUser(ctx)
	assert.False(t, ok)

	assert.ErrorIs(t, s.SignOut(context.Background()), ErrUnauthenticated)
}

func TestProfile(t *testing.T) {
	id := Identity{UserID: "u1", Name: "Ada Lovelace", Email: "ada@example.com"}

	p := NewProfile(id, "", "")
	assert.Equal(t, "Ada Lovelace", p.DisplayName)
	assert.Equal(t, "AL", p.Initials)

	p = NewProfile(id, "grace brewster hopper", "https://cdn.example.com/p.png")
	assert.Equal(t, "GB", p.Initials)
	assert.Equal(t, "https://cdn.example.com/p.png", p.PhotoURL)

	assert.Equal(t, "U", Initials("   "))
	assert.Equal(t, "É", Initials("élodie"))
}
