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

// KeyMomentHandlers provides HTTP handlers for key moment endpoints.
type KeyMomentHandlers struct {
	store    store.KeyMomentStore
	notifier Notifier
	log      *zerolog.Logger
}

// NewKeyMomentHandlers creates a new key moment handlers instance.
func NewKeyMomentHandlers(st store.KeyMomentStore, notifier Notifier, logger *zerolog.Logger) *KeyMomentHandlers {
	return &KeyMomentHandlers{store: st, notifier: notifier, log: logger}
}

// KeyMomentResponse represents a key moment in API responses.
type KeyMomentResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OccurredOn  string `json:"occurred_on"`
}

// ListKeyMoments returns all key moments.
// GET /api/key-moments
func (h *KeyMomentHandlers) ListKeyMoments(c *gin.Context) {
	moments, err := h.store.ListKeyMoments(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list key moments")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]KeyMomentResponse, 0, len(moments))
	for _, k := range moments {
		out = append(out, KeyMomentResponse{
			ID:          k.ID,
			Title:       k.Title,
			Description: k.Description,
			OccurredOn:  k.OccurredOn.Format("2006-01-02"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// CreateKeyMoment adds a milestone.
// POST /api/key-moments (admin)
func (h *KeyMomentHandlers) CreateKeyMoment(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1,max=200"`
		Description string `json:"description"`
		OccurredOn  string `json:"occurred_on" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	occurredOn, err := time.Parse("2006-01-02", req.OccurredOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "occurred_on must be YYYY-MM-DD"})
		return
	}

	k, err := h.store.CreateKeyMoment(c.Request.Context(), &store.KeyMoment{
		Title:       req.Title,
		Description: req.Description,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create key moment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicKeyMoments)
	c.JSON(http.StatusCreated, KeyMomentResponse{
		ID:          k.ID,
		Title:       k.Title,
		Description: k.Description,
		OccurredOn:  k.OccurredOn.Format("2006-01-02"),
	})
}

// DeleteKeyMoment removes a milestone.
// DELETE /api/key-moments/:id (admin)
func (h *KeyMomentHandlers) DeleteKeyMoment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key moment id"})
		return
	}

	if err := h.store.DeleteKeyMoment(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "key moment not found"})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("failed to delete key moment")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicKeyMoments)
	c.JSON(http.StatusOK, gin.H{"msg": "key moment removed"})
}
