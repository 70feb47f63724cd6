// Package server exposes the advice features, the mock interview and the
// dashboard over HTTP.
package server

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/muhammadolammi/maarg/internal/actions"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/database"
	"github.com/muhammadolammi/maarg/internal/events"
	"github.com/muhammadolammi/maarg/internal/identity"
	"github.com/muhammadolammi/maarg/internal/interview"
)

//go:embed views/*.html
var viewsFS embed.FS

// Authenticator issues and resolves session tokens.
type Authenticator interface {
	identity.Provider
	SignIn(name, email string) (string, identity.Identity)
}

// Store is the persistence the handlers read and write.
type Store interface {
	GetProfile(ctx context.Context, userID string) (database.Profile, error)
	UpsertProfile(ctx context.Context, arg database.UpsertProfileParams) (database.Profile, error)
	UpdateProfilePhoto(ctx context.Context, arg database.UpdateProfilePhotoParams) error
	ListInterviewReportsByUser(ctx context.Context, arg database.ListInterviewReportsByUserParams) ([]database.InterviewReport, error)
	CreateDocument(ctx context.Context, arg database.CreateDocumentParams) (database.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (database.Document, error)
	GetDocumentAnalysis(ctx context.Context, documentID uuid.UUID) (database.DocumentAnalysis, error)
}

// Objects stores uploaded files.
type Objects interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	URL(key string) string
}

// Jobs queues background document analysis.
type Jobs interface {
	EnqueueAnalysis(job events.AnalysisJob) error
}

type Deps struct {
	Actions     *actions.Actions
	Hub         *interview.Hub
	Broadcaster *Broadcaster
	Catalog     *catalog.Catalog
	Auth        Authenticator

	// Optional; the matching routes answer 503 when nil.
	Store   Store
	Objects Objects
	Jobs    Jobs
	Metrics http.Handler
	Health  func(ctx context.Context) error

	RateLimit    int
	RateWindow   time.Duration
	CookieSecure bool
	Debug        bool
}

type Server struct {
	Deps
	limiter *RateLimiter
}

// New builds the fiber app with every route registered.
func New(deps Deps) *fiber.App {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = NewBroadcaster()
	}
	if deps.RateWindow <= 0 {
		deps.RateWindow = time.Minute
	}
	s := &Server{Deps: deps, limiter: NewRateLimiter(deps.RateLimit, deps.RateWindow)}

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(views), ".html")
	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		BodyLimit:             maxUploadBytes + 1<<20,
	})
	app.Use(recover.New())
	if deps.Debug {
		app.Use(logger.New())
	}

	app.Get("/healthz", s.Healthz)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}
	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.Login)

	page := s.RequireUser(false)
	app.Get("/dashboard", page, s.Dashboard)
	app.Post("/dashboard/tab", page, s.SelectTab)

	api := app.Group("/api", s.RequireUser(true))
	api.Post("/auth/signout", s.SignOut)
	api.Get("/catalog/roles", s.Roles)

	limit := s.RateLimited
	api.Post("/skills", limit, handleAction(s.Actions.MapSkills))
	api.Post("/career-paths", limit, handleAction(s.Actions.RecommendCareerPaths))
	api.Post("/resume-bullets", limit, handleAction(s.Actions.GenerateResumePoints))
	api.Post("/demand-forecast", limit, handleAction(s.Actions.ForecastDemand))
	api.Post("/learning-plan", limit, handleAction(s.Actions.LearningPlan))
	api.Post("/job-matches", limit, handleAction(s.Actions.FindJobs))
	api.Post("/market-intelligence", limit, handleAction(s.Actions.AnalyzeMarket))
	api.Post("/chat", limit, handleAction(s.Actions.Chat))
	api.Post("/interview-prep", limit, handleAction(s.Actions.InterviewPrep))

	api.Get("/interview", s.InterviewSnapshot)
	api.Post("/interview/start", limit, s.StartInterview)
	api.Post("/interview/answer", limit, s.SubmitAnswer)
	api.Post("/interview/report", limit, s.RequestReport)
	api.Post("/interview/reset", s.ResetInterview)
	api.Post("/interview/end", s.EndInterview)

	api.Get("/reports", s.Reports)
	api.Get("/profile", s.Profile)
	api.Put("/profile", s.UpdateProfile)
	api.Post("/profile/photo", s.UploadPhoto)
	api.Post("/documents", limit, s.UploadDocument)
	api.Get("/documents/:id", s.Document)

	app.Get("/ws/interview", s.RequireUser(true), s.WebSocketUpgrade, websocket.New(s.InterviewSocket))

	return app
}

func (s *Server) Healthz(c *fiber.Ctx) error {
	if s.Health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := s.Health(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) Roles(c *fiber.Ctx) error {
	type role struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Skills      catalog.Skills `json:"skills"`
	}
	out := make([]role, 0, len(s.Catalog.Roles))
	for _, r := range s.Catalog.Roles {
		out = append(out, role{Name: r.Name, Description: r.Description, Skills: r.Skills})
	}
	return c.JSON(out)
}

// handleAction decodes the request body into In and answers with the
// action's envelope.
func handleAction[In, Out any](call func(context.Context, In) actions.Envelope[Out]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in In
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(actions.Envelope[Out]{
				Message: actions.MsgInvalidInput,
				Issues:  []string{"Request body could not be read."},
			})
		}
		env := call(c.UserContext(), in)
		status := fiber.StatusOK
		switch {
		case env.OK():
		case env.Message == actions.MsgInvalidInput:
			status = fiber.StatusBadRequest
		default:
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(env)
	}
}

func unavailable(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": what + " is not configured"})
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
