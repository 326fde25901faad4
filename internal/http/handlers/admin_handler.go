package handlers

import (
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdminHandler struct {
	moderationService *services.ModerationService
	log               *zap.Logger
}

func NewAdminHandler(moderationService *services.ModerationService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{moderationService: moderationService, log: log}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.moderationService.Dashboard(c.UserContext(), middleware.GetActor(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(d))
}

func (h *AdminHandler) FlagUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	u, err := h.moderationService.FlagUser(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(u, "User has been flagged."))
}

func (h *AdminHandler) FlagCampaign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	campaign, err := h.moderationService.FlagCampaign(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(campaign, "Campaign has been flagged."))
}
