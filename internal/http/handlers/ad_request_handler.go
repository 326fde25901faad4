package handlers

import (
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdRequestHandler struct {
	adRequestService *services.AdRequestService
	log              *zap.Logger
}

func NewAdRequestHandler(adRequestService *services.AdRequestService, log *zap.Logger) *AdRequestHandler {
	return &AdRequestHandler{adRequestService: adRequestService, log: log}
}

func (h *AdRequestHandler) CreateAdRequest(c *fiber.Ctx) error {
	var req services.AdRequestInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	a, err := h.adRequestService.Create(c.UserContext(), middleware.GetActor(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(a, "Your ad request has been created!"))
}

func (h *AdRequestHandler) GetAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	a, err := h.adRequestService.GetByID(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(a))
}

func (h *AdRequestHandler) UpdateAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.SponsorEditInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	a, err := h.adRequestService.SponsorEdit(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(a, "Ad request updated!"))
}

func (h *AdRequestHandler) DeleteAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adRequestService.Delete(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return err
	}
	return c.JSON(dto.Success(nil, "Your ad request has been deleted!"))
}

func (h *AdRequestHandler) AcceptAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	a, err := h.adRequestService.Accept(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(a, "Ad request accepted."))
}

func (h *AdRequestHandler) RejectAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	a, err := h.adRequestService.Reject(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(a, "Ad request rejected."))
}

func (h *AdRequestHandler) NegotiateAdRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.NegotiateInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	a, err := h.adRequestService.Negotiate(c.UserContext(), middleware.GetActor(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(a, "Your negotiation request has been sent!"))
}

func (h *AdRequestHandler) ListPublicAdRequests(c *fiber.Ctx) error {
	p := pagination(c)
	list, err := h.adRequestService.ListPublic(c.UserContext(), middleware.GetActor(c), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.ListResponse{Items: list, Limit: p.Limit, Offset: p.Offset}))
}

func (h *AdRequestHandler) InfluencerDashboard(c *fiber.Ctx) error {
	d, err := h.adRequestService.InfluencerDashboard(c.UserContext(), middleware.GetActor(c))
	if err != nil {
		return err
	}
	resp := dto.OK(d)
	if d.Flagged {
		resp = dto.Info(d, "Your account has been flagged by an administrator.")
	}
	return c.JSON(resp)
}
