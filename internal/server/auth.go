package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/identity"
)

const (
	sessionCookie = "maarg_session"
	identityKey   = "identity"
	sessionMaxAge = 7 * 24 * time.Hour
)

// RequireUser resolves the session cookie into an identity. API requests
// without one get 401; page requests are sent to the login page.
func (s *Server) RequireUser(api bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookie)
		if token == "" {
			token = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		ctx := identity.WithToken(c.UserContext(), token)
		id, ok := s.Auth.CurrentUser(ctx)
		if !ok {
			if api {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Please sign in."})
			}
			return c.Redirect("/login")
		}
		c.SetUserContext(ctx)
		c.Locals(identityKey, id)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) identity.Identity {
	id, _ := c.Locals(identityKey).(identity.Identity)
	return id
}

func (s *Server) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"DefaultName":  identity.DefaultName,
		"DefaultEmail": identity.DefaultEmail,
	})
}

func (s *Server) Login(c *fiber.Ctx) error {
	token, id := s.Auth.SignIn(c.FormValue("name"), c.FormValue("email"))
	if s.Store != nil {
		if _, err := s.Store.UpsertProfile(c.UserContext(), database.UpsertProfileParams{
			UserID:      id.UserID,
			Email:       id.Email,
			DisplayName: id.Name,
		}); err != nil {
			return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
				"Error":        "Could not sign you in. Please try again.",
				"DefaultName":  identity.DefaultName,
				"DefaultEmail": identity.DefaultEmail,
			})
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionMaxAge),
		HTTPOnly: true,
		Secure:   s.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(fiber.Map{"token": token, "user": id})
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (s *Server) SignOut(c *fiber.Ctx) error {
	if err := s.Auth.SignOut(c.UserContext()); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if h, ok := s.Hub.Lookup(currentUser(c).UserID); ok {
		h.End()
	}
	c.ClearCookie(sessionCookie)
	return c.JSON(fiber.Map{"message": "Signed out."})
}
