package server

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/documents"
	"github.com/muhammadolammi/maarg/internal/events"
	"github.com/muhammadolammi/maarg/internal/storage"
)

const maxUploadBytes = 10 << 20

type documentView struct {
	ID       uuid.UUID       `json:"id"`
	Filename string          `json:"filename"`
	Mime     string          `json:"mime"`
	Size     int64           `json:"sizeBytes"`
	Status   string          `json:"status"`
	URL      string          `json:"url,omitempty"`
	Analysis json.RawMessage `json:"analysis,omitempty"`
}

func newDocumentView(d database.Document) documentView {
	return documentView{
		ID:       d.ID,
		Filename: d.OriginalFilename,
		Mime:     d.Mime,
		Size:     d.SizeBytes,
		Status:   d.Status,
		URL:      d.StorageUrl,
	}
}

// UploadDocument stores a CV or transcript and queues it for analysis.
func (s *Server) UploadDocument(c *fiber.Ctx) error {
	if s.Store == nil || s.Objects == nil || s.Jobs == nil {
		return unavailable(c, "Document upload")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please choose a file."})
	}
	mime := documents.DetectMime(fh.Header.Get(fiber.HeaderContentType), fh.Filename)
	if !documents.Supported(mime) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"message": "Upload a PDF, DOCX or plain text file."})
	}
	if fh.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": "Files must be 10 MB or smaller."})
	}
	data, err := readFile(fh)
	if err != nil {
		return err
	}

	id := currentUser(c)
	key := storage.DocumentKey(id.UserID, fh.Filename)
	if err := s.Objects.Upload(c.UserContext(), key, mime, data); err != nil {
		log.Printf("document upload for %s failed: %v", id.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "Could not upload the file. Please try again."})
	}
	doc, err := s.Store.CreateDocument(c.UserContext(), database.CreateDocumentParams{
		ID:               uuid.New(),
		UserID:           id.UserID,
		OriginalFilename: fh.Filename,
		Mime:             mime,
		SizeBytes:        int64(len(data)),
		StorageProvider:  storage.Provider,
		ObjectKey:        key,
		StorageUrl:       s.Objects.URL(key),
	})
	if err != nil {
		return err
	}
	if err := s.Jobs.EnqueueAnalysis(events.AnalysisJob{DocumentID: doc.ID, UserID: id.UserID}); err != nil {
		log.Printf("failed to queue analysis for document %s: %v", doc.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "The file was saved but could not be queued for analysis."})
	}
	return c.Status(fiber.StatusAccepted).JSON(newDocumentView(doc))
}

func (s *Server) Document(c *fiber.Ctx) error {
	if s.Store == nil {
		return unavailable(c, "Document storage")
	}
	docID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid document id."})
	}
	doc, err := s.Store.GetDocument(c.UserContext(), docID)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Document not found."})
		}
		return err
	}
	if doc.UserID != currentUser(c).UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Document not found."})
	}
	view := newDocumentView(doc)
	analysis, err := s.Store.GetDocumentAnalysis(c.UserContext(), docID)
	switch {
	case err == nil:
		view.Analysis = analysis.Results
	case !isNotFound(err):
		return err
	}
	return c.JSON(view)
}
