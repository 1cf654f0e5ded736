package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type postListResponse struct {
	Posts []domain.Post `json:"posts"`
}

type postResponse struct {
	Posts *domain.Post `json:"posts"`
}

// List returns every post, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  postListResponse
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postListResponse{Posts: posts})
}

// Get returns a single post.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  postResponse
// @Failure      400     {object}  errorBody
// @Failure      401     {object}  errorBody
// @Failure      404     {object}  errorBody
// @Router       /posts/{postId} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Posts: post})
}

// Seed publishes the sample posts.
//
// @Summary      Create sample posts
// @Tags         posts
// @Produce      plain
// @Success      200  {string}  string  "done"
// @Failure      500  {object}  errorBody
// @Router       /create-post [post]
func (h *PostHandler) Seed(c echo.Context) error {
	if err := h.service.Seed(c.Request().Context()); err != nil {
		return err
	}
	return c.String(http.StatusOK, "done")
}
