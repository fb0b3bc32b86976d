package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PostHandler struct {
	postService *services.PostService
	feedService *services.FeedService
}

func NewPostHandler(postService *services.PostService, feedService *services.FeedService) *PostHandler {
	return &PostHandler{postService: postService, feedService: feedService}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.UserContext(), p.UserID, &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	page, err := h.feedService.ListPosts(c.UserContext(), p.UserID, pageQuery(c, dto.DefaultPostLimit))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":    "Posts retrieved successfully",
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.UserContext(), p.UserID, postID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Post retrieved successfully",
		"post":    post,
	})
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.UserContext(), p.UserID, postID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) Like(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.postService.LikePost(c.UserContext(), p.UserID, postID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post liked successfully"})
}

func (h *PostHandler) Unlike(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.postService.UnlikePost(c.UserContext(), p.UserID, postID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post unliked successfully"})
}
