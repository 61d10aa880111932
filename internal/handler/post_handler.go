package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/service"
)

// Feed listing defaults.
const (
	defaultFrom = 0
	defaultSize = 10
	defaultSort = string(domain.SortDescending)
)

// PostHandler serves the /posts resource.
type PostHandler struct {
	posts  *service.PostService
	logger zerolog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger.With().Str("handler", "post").Logger(),
	}
}

// postRequest is the body of POST and PUT /posts.
type postRequest struct {
	ID          int64  `json:"id"`
	AuthorID    int64  `json:"authorId"`
	Description string `json:"description"`
}

// RegisterRoutes registers post routes. Image routes under a post are
// registered by ImageHandler.
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/posts", h.handleList)
	r.Post("/posts", h.handleCreate)
	r.Put("/posts", h.handleUpdate)
	r.Get("/posts/{postId}", h.handleGet)
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	from, err := queryInt(r, "from", defaultFrom)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	size, err := queryInt(r, "size", defaultSize)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = defaultSort
	}

	posts, err := h.posts.List(r.Context(), service.ListPostsInput{From: from, Size: size, Sort: sort})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	post, err := h.posts.Create(r.Context(), service.CreatePostInput{
		AuthorID:    req.AuthorID,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	post, err := h.posts.Update(r.Context(), service.UpdatePostInput{
		ID:          req.ID,
		AuthorID:    req.AuthorID,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
