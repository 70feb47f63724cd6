package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/maarg/internal/dashboard"
	"github.com/muhammadolammi/maarg/internal/identity"
)

const tabCookie = "maarg_tab"

// cookieTabs keeps the active dashboard tab in a cookie.
type cookieTabs struct {
	c      *fiber.Ctx
	secure bool
}

func (t cookieTabs) LoadTab() (dashboard.TabID, bool) {
	v := t.c.Cookies(tabCookie)
	return dashboard.TabID(v), v != ""
}

func (t cookieTabs) SaveTab(id dashboard.TabID) error {
	t.c.Cookie(&fiber.Cookie{
		Name:     tabCookie,
		Value:    string(id),
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *Server) shell(c *fiber.Ctx) *dashboard.Shell {
	return dashboard.NewShell(cookieTabs{c: c, secure: s.CookieSecure})
}

func (s *Server) Dashboard(c *fiber.Ctx) error {
	shell := s.shell(c)
	if tab := c.Query("tab"); tab != "" {
		if err := shell.SetActive(dashboard.TabID(tab)); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
	}
	profile, err := s.loadProfile(c)
	if err != nil {
		return err
	}
	return c.Render("dashboard", fiber.Map{
		"Profile":   profile,
		"Tabs":      shell.Views(),
		"Active":    string(shell.Active()),
		"Roles":     s.Catalog.RoleNames(),
		"Interview": s.controller(c).Snapshot(),
	})
}

func (s *Server) SelectTab(c *fiber.Ctx) error {
	shell := s.shell(c)
	if err := shell.SetActive(dashboard.TabID(c.FormValue("tab"))); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(fiber.Map{"active": shell.Active()})
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// loadProfile combines the identity with the stored profile, if any.
func (s *Server) loadProfile(c *fiber.Ctx) (identity.Profile, error) {
	id := currentUser(c)
	if s.Store == nil {
		return identity.NewProfile(id, "", ""), nil
	}
	stored, err := s.Store.GetProfile(c.UserContext(), id.UserID)
	if err != nil {
		if isNotFound(err) {
			return identity.NewProfile(id, "", ""), nil
		}
		return identity.Profile{}, err
	}
	photo := ""
	if stored.PhotoKey.Valid && s.Objects != nil {
		photo = s.Objects.URL(stored.PhotoKey.String)
	}
	return identity.NewProfile(id, stored.DisplayName, photo), nil
}
