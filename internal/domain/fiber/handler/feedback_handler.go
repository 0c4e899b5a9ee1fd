package handler

import (
	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
)

type FeedbackHandler struct {
	feedback   *usecase.FeedbackUsecase
	scheduling *usecase.SchedulingUsecase
	pages      Pages
}

func NewFeedbackHandler(feedback *usecase.FeedbackUsecase, scheduling *usecase.SchedulingUsecase, p Pages) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, scheduling: scheduling, pages: p}
}

func (h *FeedbackHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	app.Get("/feedback/confirm/:id", h.ConfirmHeld)
	app.Post("/api/feedback/submit", h.Submit)
	app.Get("/api/feedback/view/:interview_id", admin, h.View)
}

// ConfirmHeld is the interviewer answering whether the interview took place.
func (h *FeedbackHandler) ConfirmHeld(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	if err := h.scheduling.VerifyInterviewerToken(id, c.Query("token")); err != nil {
		return h.pages.failure(c, err)
	}

	var held bool
	switch c.Query("status") {
	case "yes":
		held = true
	case "no":
	default:
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "The status must be yes or no.")
	}

	res, err := h.scheduling.ConfirmHeld(c.UserContext(), id, held)
	if err != nil {
		return h.pages.failure(c, err)
	}
	if !held {
		return h.pages.message(c, fiber.StatusOK, "Noted",
			"The interview with "+res.Interview.CandidateName+" has been marked as not held.")
	}
	if res.RedirectURL != "" {
		return c.Redirect(res.RedirectURL, fiber.StatusFound)
	}
	return h.pages.message(c, fiber.StatusOK, "Thank you",
		"The interview with "+res.Interview.CandidateName+" is marked as completed.")
}

func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackSubmitRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	fb, err := h.feedback.Submit(c.UserContext(), req.ToSubmission())
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Feedback submitted",
		Data:    fb,
	})
}

func (h *FeedbackHandler) View(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "interview_id")
	if !ok {
		return invalidID(c)
	}
	view, err := h.feedback.View(c.UserContext(), id)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Feedback",
		Data: fiber.Map{
			"interview": dto.NewInterviewDTO(view.Interview),
			"feedback":  view.Feedback,
		},
	})
}
