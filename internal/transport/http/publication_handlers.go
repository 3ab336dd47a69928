package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/staffhub/staffhub-server/internal/core"
	"github.com/staffhub/staffhub-server/internal/store"
)

// PublicationHandlers provides HTTP handlers for publication endpoints.
type PublicationHandlers struct {
	store    store.PublicationStore
	notifier Notifier
	log      *zerolog.Logger
}

// NewPublicationHandlers creates a new publication handlers instance.
func NewPublicationHandlers(st store.PublicationStore, notifier Notifier, logger *zerolog.Logger) *PublicationHandlers {
	return &PublicationHandlers{store: st, notifier: notifier, log: logger}
}

// PublicationResponse represents a publication in API responses.
type PublicationResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Link    string `json:"link"`
	Year    int    `json:"year"`
}

// ListPublications returns all publications.
// GET /api/publications
func (h *PublicationHandlers) ListPublications(c *gin.Context) {
	publications, err := h.store.ListPublications(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list publications")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]PublicationResponse, 0, len(publications))
	for _, p := range publications {
		out = append(out, PublicationResponse{ID: p.ID, Title: p.Title, Authors: p.Authors, Link: p.Link, Year: p.Year})
	}
	c.JSON(http.StatusOK, out)
}

// CreatePublication adds a publication.
// POST /api/publications (admin)
func (h *PublicationHandlers) CreatePublication(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required,min=1,max=300"`
		Authors string `json:"authors"`
		Link    string `json:"link"`
		Year    int    `json:"year" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.store.CreatePublication(c.Request.Context(), &store.Publication{
		Title:   req.Title,
		Authors: req.Authors,
		Link:    req.Link,
		Year:    req.Year,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create publication")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicPublications)
	c.JSON(http.StatusCreated, PublicationResponse{ID: p.ID, Title: p.Title, Authors: p.Authors, Link: p.Link, Year: p.Year})
}

// DeletePublication removes a publication.
// DELETE /api/publications/:id (admin)
func (h *PublicationHandlers) DeletePublication(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid publication id"})
		return
	}

	if err := h.store.DeletePublication(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "publication not found"})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("failed to delete publication")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicPublications)
	c.JSON(http.StatusOK, gin.H{"msg": "publication removed"})
}
