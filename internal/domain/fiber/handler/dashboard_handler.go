package handler

import (
	"fmt"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

func NewDashboardHandler(uc *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	app.Get("/interviews/status", admin, h.Status)
	app.Get("/interviews/list", admin, h.List)
	app.Get("/interviews/export", admin, h.Export)
}

// filter reads jd_id and status from the query string.
func filter(c *fiber.Ctx) (model.InterviewFilter, bool) {
	var f model.InterviewFilter
	if raw := c.Query("jd_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, false
		}
		f.JobID = &id
	}
	f.Status = model.InterviewStatus(c.Query("status"))
	return f, true
}

func (h *DashboardHandler) Status(c *fiber.Ctx) error {
	f, ok := filter(c)
	if !ok {
		return badRequest(c, "jd_id must be a UUID", nil)
	}
	summary, err := h.uc.Status(c.UserContext(), f.JobID)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview status summary",
		Data:    summary,
	})
}

func (h *DashboardHandler) List(c *fiber.Ctx) error {
	f, ok := filter(c)
	if !ok {
		return badRequest(c, "jd_id must be a UUID", nil)
	}
	list, page, err := h.uc.List(c.UserContext(), f, c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Interviews",
		Data:       dto.NewInterviewDTOs(list),
		Pagination: page,
	})
}

func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	f, ok := filter(c)
	if !ok {
		return badRequest(c, "jd_id must be a UUID", nil)
	}
	data, err := h.uc.Export(c.UserContext(), f)
	if err != nil {
		return usecaseError(c, err)
	}
	c.Attachment(fmt.Sprintf("interviews-%s.xlsx", time.Now().Format("20060102-150405")))
	c.Set(fiber.HeaderContentType, xlsxMIME)
	return c.Send(data)
}
