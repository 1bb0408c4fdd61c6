// Package api exposes the evaluation workflow over HTTP for the review UI.
package api

import (
	"time"

	"github.com/RVSV1104/qualitrack/pkg/feedback"
	"github.com/RVSV1104/qualitrack/pkg/history"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/pdi"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// maxUploadSize bounds spreadsheet uploads.
const maxUploadSize = 32 * 1024 * 1024

// Options wires the server to its collaborators.
type Options struct {
	Importer *importer.Importer
	Store    *history.Store
	Table    ingest.HeaderTable
	Rubric   rubric.Rubric
	// Feedback may be nil; the feedback route then answers 503.
	Feedback feedback.Generator
	IDs      pdi.IDGenerator
	Now      func() time.Time
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// Server is the HTTP API.
type Server struct {
	app      *fiber.App
	importer *importer.Importer
	store    *history.Store
	table    ingest.HeaderTable
	rubric   rubric.Rubric
	feedback feedback.Generator
	ids      pdi.IDGenerator
	now      func() time.Time
	validate *validator.Validate
}

// New creates the server and registers its routes.
func New(opts Options) (server *Server) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = pdi.UUIDGenerator{}
	}

	app := fiber.New(fiber.Config{
		AppName:               "qualitrack",
		BodyLimit:             maxUploadSize,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}

	server = &Server{
		app:      app,
		importer: opts.Importer,
		store:    opts.Store,
		table:    opts.Table,
		rubric:   opts.Rubric,
		feedback: opts.Feedback,
		ids:      opts.IDs,
		now:      opts.Now,
		validate: validator.New(),
	}
	server.routes()

	return server
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := s.app.Group("/api")

	api.Post("/imports", s.importFile)

	api.Post("/evaluations", s.submitEvaluation)
	api.Get("/evaluations", s.listEvaluations)
	api.Get("/evaluations/:id", s.getEvaluation)
	api.Patch("/evaluations/:id/acknowledge", s.acknowledge)
	api.Patch("/evaluations/:id/status", s.updateWorkflowStatus)
	api.Post("/evaluations/:id/feedback", s.generateFeedback)

	api.Get("/action-items", s.listActionItems)
	api.Post("/action-items", s.createActionItem)
	api.Patch("/action-items/:id/status", s.updateActionStatus)

	api.Get("/consultants", s.listConsultants)
	api.Get("/export", s.exportCSV)
}

// App returns the underlying fiber app (used by tests).
func (s *Server) App() (app *fiber.App) {
	app = s.app
	return app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) (err error) {
	err = s.app.Listen(addr)
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() (err error) {
	err = s.app.Shutdown()
	return err
}
