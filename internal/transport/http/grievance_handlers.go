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

// GrievanceHandlers provides HTTP handlers for grievance endpoints.
type GrievanceHandlers struct {
	store    store.GrievanceStore
	notifier Notifier
	log      *zerolog.Logger
}

// NewGrievanceHandlers creates a new grievance handlers instance.
func NewGrievanceHandlers(st store.GrievanceStore, notifier Notifier, logger *zerolog.Logger) *GrievanceHandlers {
	return &GrievanceHandlers{store: st, notifier: notifier, log: logger}
}

// GrievanceResponse represents a grievance in API responses.
type GrievanceResponse struct {
	ID          int64  `json:"grievance_id"`
	Subject     string `json:"grievance_subject"`
	Details     string `json:"grievance_details"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmitGrievance files a new grievance for the caller.
// POST /api/grievances
func (h *GrievanceHandlers) SubmitGrievance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req struct {
		Subject string `json:"subject" binding:"required,min=1,max=200"`
		Details string `json:"details" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if _, err := h.store.CreateGrievance(c.Request.Context(), &store.Grievance{
		UserID:  userID,
		Subject: req.Subject,
		Details: req.Details,
	}); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to submit grievance")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicGrievances)
	c.JSON(http.StatusCreated, gin.H{"msg": "grievance submitted"})
}

// ListGrievances returns all grievances for the HR dashboard.
// GET /api/grievances (admin)
func (h *GrievanceHandlers) ListGrievances(c *gin.Context) {
	grievances, err := h.store.ListGrievances(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list grievances")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]GrievanceResponse, 0, len(grievances))
	for _, g := range grievances {
		out = append(out, GrievanceResponse{
			ID:          g.ID,
			Subject:     g.Subject,
			Details:     g.Details,
			Status:      g.Status,
			SubmittedAt: g.SubmittedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// UpdateGrievanceStatus changes a grievance's status.
// PUT /api/grievances/:id/status (admin)
func (h *GrievanceHandlers) UpdateGrievanceStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid grievance id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=Open Resolved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.store.UpdateGrievanceStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "grievance not found"})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("failed to update grievance status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicGrievances)
	c.JSON(http.StatusOK, gin.H{"msg": "grievance updated"})
}
