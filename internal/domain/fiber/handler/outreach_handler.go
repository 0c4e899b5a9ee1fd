package handler

import (
	"fmt"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/middleware"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
)

type OutreachHandler struct {
	uc    *usecase.OutreachUsecase
	pages Pages
}

func NewOutreachHandler(uc *usecase.OutreachUsecase, p Pages) *OutreachHandler {
	return &OutreachHandler{uc: uc, pages: p}
}

func (h *OutreachHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	app.Post("/send-emails", admin, middleware.RateLimiter(2, 10*time.Second), h.SendEmails)
	app.Get("/acknowledge/:token", h.Acknowledge)
}

func (h *OutreachHandler) SendEmails(c *fiber.Ctx) error {
	var req dto.SendEmailsRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.Send(c.UserContext(), req.JobID, req.CandidateIDs)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("%d sent, %d failed", res.Sent, res.Failed),
		Data:    res,
	})
}

// Acknowledge is the landing page of the interested / not interested buttons.
func (h *OutreachHandler) Acknowledge(c *fiber.Ctx) error {
	response := model.Acknowledgement(c.Query("response"))
	res, err := h.uc.Acknowledge(c.UserContext(), c.Params("token"), response)
	if err != nil {
		return h.pages.failure(c, err)
	}

	name := res.Outreach.CandidateName
	switch {
	case res.Acknowledgement == model.AckNotInterested:
		return h.pages.message(c, fiber.StatusOK, "Thank you",
			fmt.Sprintf("Thanks %s, we have noted that you are not interested in the %s role. We wish you the best.",
				name, res.Outreach.JobTitle))
	case res.ScheduleErr != nil:
		return h.pages.message(c, fiber.StatusOK, "Thank you for your interest",
			"We have recorded your interest. Our team will email you interview times shortly.")
	case res.Repeated || (res.Schedule != nil && res.Schedule.AlreadyScheduled):
		return h.pages.message(c, fiber.StatusOK, "Already received",
			"We already have your response. Please check your inbox for the interview invitation.")
	}
	return h.pages.message(c, fiber.StatusOK, "Thank you for your interest",
		fmt.Sprintf("Thanks %s! We have emailed you a few interview times for the %s role. Pick the one that suits you.",
			name, res.Outreach.JobTitle))
}
