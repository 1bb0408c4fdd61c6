package api

import (
	"bytes"
	"io"

	"github.com/RVSV1104/qualitrack/pkg/dates"
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/export"
	"github.com/RVSV1104/qualitrack/pkg/feedback"
	"github.com/RVSV1104/qualitrack/pkg/history"
	"github.com/RVSV1104/qualitrack/pkg/importer"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type actionItemRequest struct {
	ConsultantName     string `json:"consultant_name" validate:"required"`
	Title              string `json:"title" validate:"required"`
	ActionPlan         string `json:"action_plan" validate:"required"`
	Deadline           string `json:"deadline" validate:"required"`
	Priority           string `json:"priority" validate:"required,oneof=Alta Média Baixa"`
	Responsible        string `json:"responsible" validate:"required,oneof=Consultor Supervisor"`
	OriginEvaluationID string `json:"origin_evaluation_id"`
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func lookupFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return fail(c, fiber.StatusBadRequest, err.Error())
}

func saveFailure(c *fiber.Ctx, err error) error {
	return fail(c, fiber.StatusInternalServerError, "Failed to save history: "+err.Error())
}

// importFile accepts either a multipart "file" field or the raw file as the body.
func (s *Server) importFile(c *fiber.Ctx) error {
	raw := c.Body()
	if header, err := c.FormFile("file"); err == nil {
		file, openErr := header.Open()
		if openErr != nil {
			return fail(c, fiber.StatusBadRequest, "Failed to open upload")
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, copyErr := io.Copy(&buf, file); copyErr != nil {
			return fail(c, fiber.StatusBadRequest, "Failed to read upload")
		}
		raw = buf.Bytes()
	}

	if len(raw) == 0 {
		return fail(c, fiber.StatusBadRequest, "Empty upload")
	}

	var result importer.Result
	err := s.store.Ingest(func(history []evaluation.Evaluation) (evs []evaluation.Evaluation, items []evaluation.ActionItem, importErr error) {
		result, importErr = s.importer.Import(raw, history)
		return result.Evaluations, result.ActionItems, importErr
	})
	if err != nil {
		var parseErr *ingest.ParseError
		if errors.As(err, &parseErr) {
			return fail(c, fiber.StatusUnprocessableEntity, parseErr.Error())
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}

	return ok(c, fiber.StatusCreated, result)
}

func (s *Server) submitEvaluation(c *fiber.Ctx) error {
	var sub importer.Submission
	if err := c.BodyParser(&sub); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var ev evaluation.Evaluation
	var items []evaluation.ActionItem
	err := s.store.Ingest(func(history []evaluation.Evaluation) (evs []evaluation.Evaluation, generated []evaluation.ActionItem, submitErr error) {
		ev, items, submitErr = s.importer.Submit(sub, history)
		if submitErr != nil {
			return evs, generated, submitErr
		}
		return []evaluation.Evaluation{ev}, items, submitErr
	})
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"evaluation":   ev,
		"action_items": items,
	})
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, s.store.Evaluations(c.Query("consultant")))
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	ev, err := s.store.Evaluation(c.Params("id"))
	if err != nil {
		return lookupFailure(c, err)
	}
	return ok(c, fiber.StatusOK, ev)
}

func (s *Server) acknowledge(c *fiber.Ctx) error {
	ev, err := s.store.Acknowledge(c.Params("id"))
	if err != nil {
		return lookupFailure(c, err)
	}
	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}
	return ok(c, fiber.StatusOK, ev)
}

func (s *Server) updateWorkflowStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	ev, err := s.store.UpdateWorkflowStatus(c.Params("id"), req.Status)
	if err != nil {
		return lookupFailure(c, err)
	}
	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}
	return ok(c, fiber.StatusOK, ev)
}

func (s *Server) generateFeedback(c *fiber.Ctx) error {
	if s.feedback == nil {
		return fail(c, fiber.StatusServiceUnavailable, "Feedback assistant is not configured")
	}

	ev, err := s.store.Evaluation(c.Params("id"))
	if err != nil {
		return lookupFailure(c, err)
	}

	// The fallback text is still a usable answer, so generation errors are not surfaced.
	text, _ := feedback.Analyze(c.UserContext(), s.feedback, feedback.RequestFor(ev, s.importer.Scorer()))

	ev, err = s.store.SetAIFeedback(ev.ID, text)
	if err != nil {
		return lookupFailure(c, err)
	}
	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"feedback":   text,
		"evaluation": ev,
	})
}

func (s *Server) listActionItems(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, s.store.ActionItems(c.Query("consultant")))
}

func (s *Server) createActionItem(c *fiber.Ctx) error {
	var req actionItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	deadline, parsed := dates.Normalize(req.Deadline)
	if !parsed {
		return fail(c, fiber.StatusBadRequest, "Invalid deadline. Use YYYY-MM-DD or DD/MM/YYYY")
	}

	item := evaluation.ActionItem{
		ID:                 s.ids.NewID("manual"),
		ConsultantName:     req.ConsultantName,
		Title:              req.Title,
		ActionPlan:         req.ActionPlan,
		Deadline:           deadline,
		Status:             evaluation.ActionPending,
		CreatedAt:          s.now(),
		Priority:           evaluation.Priority(req.Priority),
		Responsible:        evaluation.Responsible(req.Responsible),
		OriginEvaluationID: req.OriginEvaluationID,
		Kind:               evaluation.KindDevelopmentPlan,
	}

	s.store.AddActionItem(item)
	if err := s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}

	return ok(c, fiber.StatusCreated, item)
}

func (s *Server) updateActionStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := s.store.UpdateActionStatus(c.Params("id"), req.Status)
	if err != nil {
		return lookupFailure(c, err)
	}
	if err = s.store.Flush(); err != nil {
		return saveFailure(c, err)
	}
	return ok(c, fiber.StatusOK, item)
}

func (s *Server) listConsultants(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, s.store.Summaries())
}

func (s *Server) exportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := export.Write(&buf, s.store.Evaluations(c.Query("consultant")), s.table, s.rubric)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="avaliacoes.csv"`)
	return c.Send(buf.Bytes())
}
