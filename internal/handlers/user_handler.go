package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService  *services.UserService
	graphService *services.GraphService
}

func NewUserHandler(userService *services.UserService, graphService *services.GraphService) *UserHandler {
	return &UserHandler{userService: userService, graphService: graphService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetUser(c.UserContext(), p.UserID, p.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile retrieved successfully",
		"user":    profile,
	})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetUser(c.UserContext(), p.UserID, targetID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User retrieved successfully",
		"user":    profile,
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), p.UserID, &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) Follow(c *fiber.Ctx) error {
	return h.transition(c, h.graphService.Follow, "Successfully followed user")
}

func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	return h.transition(c, h.graphService.Unfollow, "Successfully unfollowed user")
}

func (h *UserHandler) Block(c *fiber.Ctx) error {
	return h.transition(c, h.graphService.Block, "Successfully blocked user")
}

func (h *UserHandler) Unblock(c *fiber.Ctx) error {
	return h.transition(c, h.graphService.Unblock, "Successfully unblocked user")
}

// transition runs a caller -> :id graph change.
func (h *UserHandler) transition(c *fiber.Ctx, apply func(ctx context.Context, actor, target uuid.UUID) error, message string) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := apply(c.UserContext(), p.UserID, targetID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": message})
}
