package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.UserContext(), p.UserID, targetID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *AdminHandler) DeleteLike(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	likeID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteLike(c.UserContext(), p.UserID, likeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Like deleted successfully"})
}

func (h *AdminHandler) Promote(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.Promote(c.UserContext(), p.UserID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User promoted to admin successfully",
		"user":    user,
	})
}

func (h *AdminHandler) Demote(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.Demote(c.UserContext(), p.UserID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Admin demoted to user successfully",
		"user":    user,
	})
}
