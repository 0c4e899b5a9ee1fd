package handler

import (
	"github.com/fadilmartias/recruit-scheduler/internal/dto"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
)

type MatchHandler struct {
	uc *usecase.MatchUsecase
}

func NewMatchHandler(uc *usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(app *fiber.App, admin fiber.Handler) {
	app.Post("/match/top-by-jd", admin, h.TopByJob)
	app.Post("/match/top-by-role", admin, h.TopByRole)
}

func (h *MatchHandler) TopByJob(c *fiber.Ctx) error {
	var req dto.MatchByJobRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.TopByJob(c.UserContext(), req.JobID, req.TopK)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Top candidates",
		Data:    res,
	})
}

func (h *MatchHandler) TopByRole(c *fiber.Ctx) error {
	var req dto.MatchByRoleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.TopByRole(c.UserContext(), req.RoleName, req.TopK)
	if err != nil {
		return usecaseError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Top candidates for " + res.Job.DisplayRole(),
		Data:    res,
	})
}
