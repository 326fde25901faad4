package handlers

import (
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InfluencerHandler struct {
	profileService *services.ProfileService
	log            *zap.Logger
}

func NewInfluencerHandler(profileService *services.ProfileService, log *zap.Logger) *InfluencerHandler {
	return &InfluencerHandler{profileService: profileService, log: log}
}

func (h *InfluencerHandler) GetProfile(c *fiber.Ctx) error {
	p, err := h.profileService.Get(c.UserContext(), middleware.GetActor(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(p))
}

func (h *InfluencerHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.profileService.Update(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(p, "Profile updated successfully!"))
}

func (h *InfluencerHandler) ListInfluencers(c *fiber.Ctx) error {
	p := pagination(c)
	list, err := h.profileService.ListInfluencers(c.UserContext(), middleware.GetActor(c), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.ListResponse{Items: list, Limit: p.Limit, Offset: p.Offset}))
}

func (h *InfluencerHandler) GetInfluencer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	infl, err := h.profileService.GetInfluencer(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(infl))
}
