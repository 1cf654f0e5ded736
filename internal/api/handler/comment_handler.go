package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/postboard/internal/core/domain"
	"github.com/sirpyerre/postboard/internal/core/ports"
)

// CommentHandler handles the caller's own comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type upsertCommentRequest struct {
	ContentComment string `json:"contentComment" validate:"required"`
}

type commentItem struct {
	ContentComment string       `json:"contentComment"`
	Post           *domain.Post `json:"post"`
}

type commentListResponse struct {
	Comment []commentItem `json:"comment"`
}

// List returns the comments written by the caller with their posts.
//
// @Summary      List my comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  commentListResponse
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /post/comment [get]
func (h *CommentHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	items := make([]commentItem, 0, len(views))
	for _, v := range views {
		items = append(items, commentItem{ContentComment: v.Content, Post: v.Post})
	}
	return c.JSON(http.StatusOK, commentListResponse{Comment: items})
}

// Upsert writes the caller's comment on a post, replacing any earlier one.
//
// @Summary      Create or update my comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int                   true  "Post ID"
// @Param        body    body      upsertCommentRequest  true  "Comment body"
// @Success      200     {object}  emptyResponse
// @Failure      400     {object}  errorBody
// @Failure      401     {object}  errorBody
// @Failure      404     {object}  errorBody
// @Router       /post/{postId}/comment [put]
func (h *CommentHandler) Upsert(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req upsertCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Upsert(c.Request().Context(), user.ID, postID, req.ContentComment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emptyResponse{})
}

// Delete removes the caller's comment on a post if there is one.
//
// @Summary      Delete my comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {object}  emptyResponse
// @Failure      400     {object}  errorBody
// @Failure      401     {object}  errorBody
// @Router       /post/{postId}/comment [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emptyResponse{})
}
