package handler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/mailtemplate"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
)

type InterviewHandler struct {
	uc     *usecase.SchedulingUsecase
	pages  Pages
	format func(time.Time) string
}

func NewInterviewHandler(uc *usecase.SchedulingUsecase, p Pages, format func(time.Time) string) *InterviewHandler {
	return &InterviewHandler{uc: uc, pages: p, format: format}
}

func (h *InterviewHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	// links opened from emails
	app.Get("/confirm-interview/:id", h.ConfirmSlot)
	app.Get("/interviewer/response/:id", h.InterviewerResponse)
	app.Post("/interviewer/reschedule/:id", h.ProposeNewTime)
	app.Get("/interviews/:id/reschedule/accept", h.AcceptReschedule)
	app.Get("/interviews/:id/reschedule/decline", h.DeclineReschedule)

	app.Post("/schedule-interviews", admin, h.ScheduleForJob)
	app.Post("/interviews/:id/hr-round", admin, h.ScheduleHRRound)
	app.Post("/interviews/:id/decision", admin, h.Decide)
	app.Post("/interviews/:id/cancel", admin, h.Cancel)
	app.Post("/interviews/:id/resend-invitation", admin, h.ResendInvitation)
}

func (h *InterviewHandler) ConfirmSlot(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	res, err := h.uc.ConfirmSlot(c.UserContext(), id, c.Query("slot"), c.Query("token"))
	if err != nil {
		return h.pages.failure(c, err)
	}
	return h.pages.message(c, fiber.StatusOK, "Slot received",
		fmt.Sprintf("Thank you! You chose %s. The interviewer will confirm shortly and you will receive a calendar invitation.",
			h.format(*res.Interview.ConfirmedSlotTime)))
}

// InterviewerResponse handles the approve and reject buttons. Reject shows a
// form for proposing another time.
func (h *InterviewHandler) InterviewerResponse(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	tok := c.Query("token")
	if err := h.uc.VerifyInterviewerToken(id, tok); err != nil {
		return h.pages.failure(c, err)
	}

	switch c.Query("action") {
	case "approve":
		res, err := h.uc.Approve(c.UserContext(), id)
		if err != nil {
			return h.pages.failure(c, err)
		}
		msg := fmt.Sprintf("The interview with %s is booked for %s. Both of you will receive a confirmation email.",
			res.Interview.CandidateName, h.format(*res.Interview.ConfirmedSlotTime))
		return h.pages.render(c, fiber.StatusOK, mailtemplate.Page, mailtemplate.PageData{
			Title:     "Interview scheduled",
			Message:   msg,
			LinkURL:   res.Interview.MeetLink,
			LinkLabel: "Open Google Meet",
		})
	case "reject":
		iv, minDate, err := h.uc.PrepareReschedule(c.UserContext(), id)
		if err != nil {
			return h.pages.failure(c, err)
		}
		return h.pages.render(c, fiber.StatusOK, mailtemplate.RescheduleForm, mailtemplate.RescheduleFormData{
			CandidateName: iv.CandidateName,
			Role:          iv.JobTitle,
			ActionURL:     "/interviewer/reschedule/" + iv.ID.String(),
			Token:         tok,
			MinDate:       minDate.Format(time.DateOnly),
		})
	}
	return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "The action must be approve or reject.")
}

// ProposeNewTime receives the reschedule form.
func (h *InterviewHandler) ProposeNewTime(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	var req dto.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid form", "Please submit the form again.")
	}
	if errs := dto.Validate(req); errs != nil {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid form", fieldErrors(errs))
	}
	if err := h.uc.VerifyInterviewerToken(id, req.Token); err != nil {
		return h.pages.failure(c, err)
	}
	res, err := h.uc.RejectAndPropose(c.UserContext(), id, req.NewDate, req.NewTime)
	if err != nil {
		return h.pages.failure(c, err)
	}
	msg := fmt.Sprintf("We asked %s whether %s works for them. You will hear back once they answer.",
		res.Interview.CandidateName, h.format(*res.Interview.RescheduleTime))
	if res.Warning != "" {
		msg = "The new time was saved but the email to the candidate could not be sent. The recruiting team has been notified."
	}
	return h.pages.message(c, fiber.StatusOK, "Proposal sent", msg)
}

func (h *InterviewHandler) AcceptReschedule(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	res, err := h.uc.AcceptReschedule(c.UserContext(), id, c.Query("token"))
	if err != nil {
		return h.pages.failure(c, err)
	}
	return h.pages.render(c, fiber.StatusOK, mailtemplate.Page, mailtemplate.PageData{
		Title:     "Interview confirmed",
		Message:   "Your interview is booked for " + h.format(*res.Interview.ConfirmedSlotTime) + ". A calendar invitation is on its way.",
		LinkURL:   res.Interview.MeetLink,
		LinkLabel: "Open Google Meet",
	})
}

func (h *InterviewHandler) DeclineReschedule(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return h.pages.message(c, fiber.StatusBadRequest, "Invalid link", "This interview link is not valid.")
	}
	if _, err := h.uc.DeclineReschedule(c.UserContext(), id, c.Query("token")); err != nil {
		return h.pages.failure(c, err)
	}
	return h.pages.message(c, fiber.StatusOK, "No problem",
		"We have emailed you a fresh set of interview times. Pick the one that suits you best.")
}

func (h *InterviewHandler) ScheduleForJob(c *fiber.Ctx) error {
	var req dto.ScheduleInterviewsRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	items, err := h.uc.ScheduleForJob(c.UserContext(), req.JobID, req.InterviewDate)
	if err != nil {
		return usecaseError(c, err)
	}
	scheduled := 0
	for _, it := range items {
		if it.Status == "scheduled" {
			scheduled++
		}
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("%d of %d interested candidates scheduled", scheduled, len(items)),
		Data:    items,
	})
}

func (h *InterviewHandler) ScheduleHRRound(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	res, err := h.uc.ScheduleHRRound(c.UserContext(), id)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "HR round scheduled",
		Data:    dto.NewInterviewDTO(res.Interview),
		Meta:    warningMeta(res.Warning),
	})
}

func (h *InterviewHandler) Decide(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.DecisionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.Decide(c.UserContext(), id, model.Decision(req.Decision))
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Decision recorded",
		Data:    dto.NewInterviewDTO(res.Interview),
		Meta:    warningMeta(res.Warning),
	})
}

func (h *InterviewHandler) Cancel(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &req); !ok {
			return err
		}
	}
	res, err := h.uc.Cancel(c.UserContext(), id, req.Declined)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview " + string(res.Interview.Status),
		Data:    dto.NewInterviewDTO(res.Interview),
	})
}

func (h *InterviewHandler) ResendInvitation(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	res, err := h.uc.ResendInvitation(c.UserContext(), id)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Invitation sent",
		Data:    dto.NewInterviewDTO(res.Interview),
	})
}

func warningMeta(warning string) any {
	if warning == "" {
		return nil
	}
	return fiber.Map{"warning": warning}
}

func fieldErrors(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for field, msg := range errs {
		parts = append(parts, strings.ReplaceAll(field, "_", " ")+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ") + "."
}
