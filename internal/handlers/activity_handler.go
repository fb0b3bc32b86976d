package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	feedService *services.FeedService
}

func NewActivityHandler(feedService *services.FeedService) *ActivityHandler {
	return &ActivityHandler{feedService: feedService}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	page, err := h.feedService.ListActivities(c.UserContext(), p.UserID, pageQuery(c, dto.DefaultActivityLimit))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":    "Activity feed retrieved successfully",
		"activities": page.Activities,
		"pagination": page.Pagination,
	})
}
