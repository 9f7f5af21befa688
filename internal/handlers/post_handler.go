package handlers

import (
	"errors"
	"log"
	"strconv"

	"modernblog/internal/authz"
	"modernblog/internal/middleware"
	"modernblog/internal/models"
	"modernblog/internal/pagination"
	"modernblog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const saveFailedMessage = "Failed to save blog. Please try again."

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	service *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// RegisterRoutes registers the post routes. Reads are public, writes need a session.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleListPosts)
	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Get("/:id/edit", middleware.AuthRequired(), h.HandleEditPost)
	postRoutes.Post("/", middleware.AuthRequired(), h.HandleCreatePost)
	postRoutes.Put("/:id", middleware.AuthRequired(), h.HandleUpdatePost)
	postRoutes.Delete("/:id", middleware.AuthRequired(), h.HandleDeletePost)
}

type listResponse struct {
	*models.PageResult
	Pagination pagination.Controls `json:"pagination"`
}

// HandleListPosts returns one page of posts, optionally filtered by ?search=.
func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid page number",
				"error":   "page must be a positive integer",
			})
		}
		page = n
	}

	result, err := h.service.List(c.UserContext(), page, c.Query("search"))
	if err != nil {
		log.Printf("Error listing blogs: %v", err)
		if ok, resp := validationFailed(c, err); ok {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch blogs",
			"error":   err.Error(),
		})
	}

	return c.JSON(listResponse{
		PageResult: result,
		Pagination: pagination.NewControls(result.Page, result.TotalPages),
	})
}

type detailResponse struct {
	models.Post
	CanModify  bool `json:"can_modify"`
	WasUpdated bool `json:"was_updated"`
}

// HandleGetPost returns a single post. Every failure is reported as not found.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	postID := c.Params("id")
	post, err := h.service.Get(c.UserContext(), postID)
	if err != nil {
		log.Printf("Error getting blog %s: %v", postID, err)
		return blogNotFound(c)
	}

	return c.JSON(detailResponse{
		Post:       *post,
		CanModify:  authz.IsAuthor(middleware.SessionFrom(c), post.AuthorID),
		WasUpdated: post.WasUpdated(),
	})
}

// HandleEditPost loads a post into the edit form for its author only.
func (h *PostHandler) HandleEditPost(c *fiber.Ctx) error {
	postID := c.Params("id")
	post, err := h.service.GetForEdit(c.UserContext(), middleware.SessionFrom(c), postID)
	if err != nil {
		log.Printf("Error loading blog %s for edit: %v", postID, err)
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message":  "You can only edit your own blogs",
				"redirect": "/",
			})
		}
		return blogNotFound(c)
	}
	return c.JSON(post)
}

// HandleCreatePost publishes a new post by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	author, ok := middleware.SessionFrom(c).Identity()
	if !ok {
		return signInRequired(c)
	}

	var in models.PostInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return invalidBody(c, err)
	}

	post, err := h.service.Create(c.UserContext(), author, in)
	if err != nil {
		log.Printf("Error creating blog: %v", err)
		if ok, resp := validationFailed(c, err); ok {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": saveFailedMessage,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Blog created successfully",
		"post":     post,
		"redirect": "/blog/" + post.ID,
	})
}

// HandleUpdatePost replaces the title and content of one of the caller's posts.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	author, ok := middleware.SessionFrom(c).Identity()
	if !ok {
		return signInRequired(c)
	}

	postID := c.Params("id")
	var in models.PostInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return invalidBody(c, err)
	}

	post, err := h.service.Update(c.UserContext(), author, postID, in)
	if err != nil {
		log.Printf("Error updating blog %s: %v", postID, err)
		if ok, resp := validationFailed(c, err); ok {
			return resp
		}
		if errors.Is(err, services.ErrNotFound) {
			return blogNotFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": saveFailedMessage,
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Blog updated successfully",
		"post":     post,
		"redirect": "/blog/" + post.ID,
	})
}

// HandleDeletePost removes one of the caller's posts.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	author, ok := middleware.SessionFrom(c).Identity()
	if !ok {
		return signInRequired(c)
	}

	postID := c.Params("id")
	if err := h.service.Delete(c.UserContext(), author, postID); err != nil {
		log.Printf("Error deleting blog %s: %v", postID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete blog. Please try again.",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Blog deleted successfully",
		"redirect": "/",
	})
}
