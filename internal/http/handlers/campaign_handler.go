package handlers

import (
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}

	campaign, err := h.campaignService.Create(c.UserContext(), middleware.GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(campaign, "Your campaign has been created!"))
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	campaign, err := h.campaignService.GetByID(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(campaign))
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	p := pagination(c)
	filter := repositories.CampaignFilter{Limit: p.Limit, Offset: p.Offset}
	if v := c.Query("visibility"); v != "" {
		filter.Visibility = &v
	}

	list, err := h.campaignService.List(c.UserContext(), middleware.GetActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.ListResponse{Items: list, Limit: p.Limit, Offset: p.Offset}))
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CampaignRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return err
	}

	campaign, err := h.campaignService.Update(c.UserContext(), middleware.GetActor(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(campaign, "Your campaign has been updated!"))
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.campaignService.Delete(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return err
	}
	return c.JSON(dto.Success(nil, "Campaign deleted successfully!"))
}

func (h *CampaignHandler) SponsorDashboard(c *fiber.Ctx) error {
	d, err := h.campaignService.SponsorDashboard(c.UserContext(), middleware.GetActor(c))
	if err != nil {
		return err
	}
	resp := dto.OK(d)
	if d.Flagged {
		resp = dto.Info(d, "Your account has been flagged by an administrator.")
	}
	return c.JSON(resp)
}
