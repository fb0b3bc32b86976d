package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    resp.User,
		"token":   resp.Token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    resp.User,
		"token":   resp.Token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile retrieved successfully",
		"user":    user,
	})
}
