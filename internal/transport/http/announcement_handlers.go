package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/staffhub/staffhub-server/internal/core"
	"github.com/staffhub/staffhub-server/internal/store"
)

// AnnouncementHandlers provides HTTP handlers for announcements.
type AnnouncementHandlers struct {
	store    store.AnnouncementStore
	notifier Notifier
	log      *zerolog.Logger
}

// NewAnnouncementHandlers creates a new announcement handlers instance.
func NewAnnouncementHandlers(st store.AnnouncementStore, notifier Notifier, logger *zerolog.Logger) *AnnouncementHandlers {
	return &AnnouncementHandlers{store: st, notifier: notifier, log: logger}
}

// AnnouncementResponse represents an announcement in API responses.
type AnnouncementResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// ListAnnouncements returns announcements, newest first.
// GET /api/announcements
func (h *AnnouncementHandlers) ListAnnouncements(c *gin.Context) {
	announcements, err := h.store.ListAnnouncements(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list announcements")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		out = append(out, AnnouncementResponse{
			ID:        a.ID,
			Title:     a.Title,
			Body:      a.Body,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// CreateAnnouncement publishes a new announcement.
// POST /api/announcements (admin)
func (h *AnnouncementHandlers) CreateAnnouncement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req struct {
		Title string `json:"title" binding:"required,min=1,max=200"`
		Body  string `json:"body" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	a, err := h.store.CreateAnnouncement(c.Request.Context(), &store.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: userID,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create announcement")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicAnnouncements)
	c.JSON(http.StatusCreated, AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	})
}

// DeleteAnnouncement removes an announcement.
// DELETE /api/announcements/:id (admin)
func (h *AnnouncementHandlers) DeleteAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid announcement id"})
		return
	}

	if err := h.store.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "announcement not found"})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("failed to delete announcement")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicAnnouncements)
	c.JSON(http.StatusOK, gin.H{"msg": "announcement removed"})
}
