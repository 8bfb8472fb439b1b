package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-admin/internal/service"
)

// FormHandler serves the form-encoded actions posted by the admin view. On
// success each action redirects back to the listing, which the view re-reads.
type FormHandler struct {
	postService *service.PostService
	redirectTo  string
}

func NewFormHandler(postService *service.PostService, redirectTo string) *FormHandler {
	if postService == nil {
		panic("PostService cannot be nil for FormHandler")
	}
	if redirectTo == "" {
		redirectTo = "/"
	}
	return &FormHandler{postService: postService, redirectTo: redirectTo}
}

// formID returns 0 for a missing or malformed id so the service reports it.
func formID(c *gin.Context) uint {
	id, _ := parseID(c.PostForm("id"))
	return id
}

func (h *FormHandler) done(c *gin.Context, err error) {
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.redirectTo)
}

// Create handles POST /actions/posts/create.
func (h *FormHandler) Create(c *gin.Context) {
	_, err := h.postService.CreatePost(c.Request.Context(), service.CreatePostInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Email:   c.PostForm("email"),
		Name:    c.PostForm("name"),
	})
	h.done(c, err)
}

// Update handles POST /actions/posts/update.
func (h *FormHandler) Update(c *gin.Context) {
	_, err := h.postService.UpdatePost(c.Request.Context(), service.UpdatePostInput{
		ID:      formID(c),
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	})
	h.done(c, err)
}

// Publish handles POST /actions/posts/publish. Only the literal "true" publishes.
func (h *FormHandler) Publish(c *gin.Context) {
	_, err := h.postService.SetPublished(c.Request.Context(), formID(c), c.PostForm("nextPublished") == "true")
	h.done(c, err)
}

// Delete handles POST /actions/posts/delete.
func (h *FormHandler) Delete(c *gin.Context) {
	h.done(c, h.postService.DeletePost(c.Request.Context(), formID(c)))
}
