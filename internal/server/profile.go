package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/interview"
	"github.com/muhammadolammi/maarg/internal/storage"
)

const (
	maxPhotoBytes = 5 << 20
	reportsLimit  = 20
)

var photoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

func (s *Server) Profile(c *fiber.Ctx) error {
	profile, err := s.loadProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

type profileRequest struct {
	DisplayName string `json:"displayName" form:"displayName"`
}

func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	if s.Store == nil {
		return unavailable(c, "Profile storage")
	}
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Request body could not be read."})
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please enter a display name."})
	}
	id := currentUser(c)
	if _, err := s.Store.UpsertProfile(c.UserContext(), database.UpsertProfileParams{
		UserID:      id.UserID,
		Email:       id.Email,
		DisplayName: name,
	}); err != nil {
		return err
	}
	return s.Profile(c)
}

func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	if s.Store == nil || s.Objects == nil {
		return unavailable(c, "Photo upload")
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please choose a photo."})
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !photoTypes[contentType] {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"message": "Photos must be PNG, JPEG or WebP."})
	}
	if fh.Size > maxPhotoBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": "Photos must be 5 MB or smaller."})
	}
	data, err := readFile(fh)
	if err != nil {
		return err
	}

	id := currentUser(c)
	key := storage.PhotoKey(id.UserID, fh.Filename)
	if err := s.Objects.Upload(c.UserContext(), key, contentType, data); err != nil {
		log.Printf("photo upload for %s failed: %v", id.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "Could not upload the photo. Please try again."})
	}
	if _, err := s.Store.UpsertProfile(c.UserContext(), database.UpsertProfileParams{
		UserID:      id.UserID,
		Email:       id.Email,
		DisplayName: id.Name,
	}); err != nil && !isNotFound(err) {
		return err
	}
	if err := s.Store.UpdateProfilePhoto(c.UserContext(), database.UpdateProfilePhotoParams{
		PhotoKey: sql.NullString{String: key, Valid: true},
		UserID:   id.UserID,
	}); err != nil {
		return err
	}
	return s.Profile(c)
}

type reportView struct {
	SessionID  string                      `json:"sessionId"`
	Role       string                      `json:"role"`
	Report     *interview.Report           `json:"report"`
	Transcript []interview.TranscriptEntry `json:"transcript"`
	CreatedAt  string                      `json:"createdAt"`
}

func (s *Server) Reports(c *fiber.Ctx) error {
	if s.Store == nil {
		return unavailable(c, "Report history")
	}
	rows, err := s.Store.ListInterviewReportsByUser(c.UserContext(), database.ListInterviewReportsByUserParams{
		UserID: currentUser(c).UserID,
		Limit:  reportsLimit,
	})
	if err != nil {
		return err
	}
	out := make([]reportView, 0, len(rows))
	for _, row := range rows {
		v := reportView{SessionID: row.SessionID.String(), Role: row.Role, CreatedAt: row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")}
		if err := json.Unmarshal(row.Report, &v.Report); err != nil {
			log.Printf("skipping unreadable report %s: %v", row.ID, err)
			continue
		}
		if v.Transcript, err = interview.DecodeTranscript(string(row.Transcript)); err != nil {
			v.Transcript = []interview.TranscriptEntry{}
		}
		out = append(out, v)
	}
	return c.JSON(out)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
