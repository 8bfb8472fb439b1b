// Package http holds the gin handlers of the JSON API and the form actions.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/service"
)

// PostHandler serves the /api/posts resource.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	if postService == nil {
		panic("PostService cannot be nil for PostHandler")
	}
	return &PostHandler{postService: postService}
}

// CreatePostRequest is the POST /api/posts body.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// PatchPostRequest is the PATCH /api/posts/:id body. Absent or null fields
// are left unchanged.
type PatchPostRequest struct {
	Title     domain.Optional[string] `json:"title"`
	Content   domain.Optional[string] `json:"content"`
	Published domain.Optional[bool]   `json:"published"`
}

// List handles GET /api/posts.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, posts)
}

// Create handles POST /api/posts. A body that does not parse is treated as
// carrying no fields.
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx := logrus.WithError(err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			logCtx = logCtx.WithField("field", typeErr.Field)
		}
		logCtx.Debug("Handler.CreatePost: unparseable body, treating fields as absent")
		req = CreatePostRequest{}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Email:   req.Email,
		Name:    req.Name,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, post)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, post)
}

// Patch handles PATCH /api/posts/:id. An empty or null body is an invalid
// payload.
func (h *PostHandler) Patch(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	body, err := c.GetRawData()
	trimmed := bytes.TrimSpace(body)
	if err != nil || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		ErrorResponse(c, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	var req PatchPostRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		logrus.WithError(err).WithField("post_id", id).Warn("Handler.PatchPost: invalid payload")
		ErrorResponse(c, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	post, err := h.postService.PatchPost(c.Request.Context(), id, service.PatchPostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, msgInvalidID)
		return
	}
	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"ok": true})
}
