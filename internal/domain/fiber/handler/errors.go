package handler

import (
	"log/slog"

	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/mailtemplate"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func statusFor(kind usecase.Kind) int {
	switch kind {
	case usecase.KindNotFound:
		return fiber.StatusNotFound
	case usecase.KindUnauthorized:
		return fiber.StatusForbidden
	case usecase.KindInvalidInput:
		return fiber.StatusBadRequest
	case usecase.KindInvalidTransition, usecase.KindConflict:
		return fiber.StatusConflict
	case usecase.KindExternal:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// usecaseError writes the JSON envelope for an error returned by a usecase.
func usecaseError(c *fiber.Ctx, err error) error {
	kind := usecase.KindOf(err)
	if kind == usecase.KindInternal || kind == usecase.KindExternal {
		slog.Error("request failed",
			slog.String("path", c.Path()), slog.String("kind", string(kind)), slog.Any("error", err))
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    statusFor(kind),
		Message: usecase.MessageOf(err),
	}, err)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusBadRequest,
		Message: message,
	}, err)
}

// bind parses the JSON, urlencoded or multipart body into req and validates
// it. When ok is false the error response has already been written and err
// is what the handler should return.
func bind(c *fiber.Ctx, req any) (ok bool, err error) {
	if perr := c.BodyParser(req); perr != nil {
		return false, badRequest(c, "invalid request body", perr)
	}
	if errs := dto.Validate(req); errs != nil {
		return false, util.ValidationResponse(c, util.NewFormError("validation failed", errs))
	}
	return true, nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return badRequest(c, "id must be a UUID", nil)
}

// Pages renders the small HTML pages candidates and interviewers land on
// after clicking an email link.
type Pages struct {
	templates *mailtemplate.Renderer
	company   string
}

func NewPages(templates *mailtemplate.Renderer, company string) Pages {
	return Pages{templates: templates, company: company}
}

func (p Pages) render(c *fiber.Ctx, status int, name string, data any) error {
	body, err := p.templates.Render(name, data)
	if err != nil {
		slog.Error("page render failed", slog.String("template", name), slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again later.")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(body)
}

func (p Pages) message(c *fiber.Ctx, status int, title, message string) error {
	return p.render(c, status, mailtemplate.Page, mailtemplate.PageData{Title: title, Message: message})
}

// failure shows a link error without leaking internals. Unexpected errors
// are logged.
func (p Pages) failure(c *fiber.Ctx, err error) error {
	kind := usecase.KindOf(err)
	status := statusFor(kind)
	switch kind {
	case usecase.KindUnauthorized:
		return p.message(c, status, "Invalid link", "This link is not valid. Please use the most recent email you received.")
	case usecase.KindNotFound:
		return p.message(c, status, "Not found", "We could not find this request. It may have been removed.")
	case usecase.KindInvalidInput, usecase.KindInvalidTransition, usecase.KindConflict:
		return p.message(c, status, "Nothing to do", usecase.MessageOf(err))
	}
	slog.Error("link handling failed", slog.String("path", c.Path()), slog.Any("error", err))
	return p.message(c, fiber.StatusInternalServerError, "Something went wrong",
		"We could not process your request right now. Please try again later or contact "+p.company+".")
}
