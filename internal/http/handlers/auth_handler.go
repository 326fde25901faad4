package handlers

import (
	"github.com/adconnect/backend/internal/http/dto"
	"github.com/adconnect/backend/internal/middleware"
	"github.com/adconnect/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(user, "Your account has been created! You are now able to log in"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success(dto.AuthResponse{Token: session.Token, User: session.User}, "Login successful!"))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.GetClaims(c)); err != nil {
		return err
	}
	return c.JSON(dto.Info(nil, "You have been logged out."))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.GetActor(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(user))
}
