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

// Notifier broadcasts change notifications to connected clients.
// Mutation handlers call it strictly after their database write
// returns, and never wait on delivery.
type Notifier interface {
	Notify(topic core.Topic)
}

// AssetHandlers provides HTTP handlers for IT asset endpoints.
type AssetHandlers struct {
	store    store.AssetStore
	users    store.UserStore
	notifier Notifier
	log      *zerolog.Logger
}

// NewAssetHandlers creates a new asset handlers instance.
func NewAssetHandlers(st store.AssetStore, users store.UserStore, notifier Notifier, logger *zerolog.Logger) *AssetHandlers {
	return &AssetHandlers{store: st, users: users, notifier: notifier, log: logger}
}

// CreateAssetRequest represents the create asset request body.
type CreateAssetRequest struct {
	Name       string `json:"asset_name" binding:"required,min=1,max=128"`
	Type       string `json:"asset_type" binding:"required,min=1,max=64"`
	LicenseKey string `json:"license_key"`
	Email      string `json:"email"`
}

// AssetResponse represents an asset in API responses.
type AssetResponse struct {
	ID         int64  `json:"asset_id"`
	Name       string `json:"asset_name"`
	Type       string `json:"asset_type"`
	Status     string `json:"status"`
	AssignedTo *int64 `json:"assigned_to,omitempty"`
}

func assetResponse(a store.Asset) AssetResponse {
	return AssetResponse{ID: a.ID, Name: a.Name, Type: a.Type, Status: a.Status, AssignedTo: a.AssignedTo}
}

// ListAssets returns every asset.
// GET /api/assets (admin)
func (h *AssetHandlers) ListAssets(c *gin.Context) {
	assets, err := h.store.ListAssets(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list assets")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// ListMyAssets returns the assets allocated to the caller.
// GET /api/assets/mine
func (h *AssetHandlers) ListMyAssets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	assets, err := h.store.ListAssetsByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("failed to list user assets")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, assetResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// CreateAsset registers a new asset, optionally allocating it to a
// user by email.
// POST /api/assets (admin)
func (h *AssetHandlers) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	asset, err := h.store.CreateAsset(ctx, &store.Asset{
		Name:       req.Name,
		Type:       req.Type,
		LicenseKey: req.LicenseKey,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if req.Email != "" {
		user, err := h.users.GetUserByEmail(ctx, req.Email)
		if err == nil {
			if err := h.store.AssignAsset(ctx, asset.ID, user.ID); err != nil {
				h.log.Warn().Err(err).Int64("asset_id", asset.ID).Msg("failed to assign new asset")
			} else {
				asset.AssignedTo = &user.ID
				asset.Status = store.AssetStatusAssigned
			}
		}
	}

	h.notifier.Notify(core.TopicAssets)
	c.JSON(http.StatusCreated, assetResponse(*asset))
}

// AssignAsset allocates an existing asset to a user.
// PUT /api/assets/:id/assign (admin)
func (h *AssetHandlers) AssignAsset(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid asset id"})
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	if err := h.store.AssignAsset(ctx, assetID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "asset not found"})
			return
		}
		h.log.Error().Err(err).Int64("asset_id", assetID).Msg("failed to assign asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicAssets)
	c.JSON(http.StatusOK, gin.H{"msg": "asset assigned"})
}

// DeleteAsset removes an asset.
// DELETE /api/assets/:id (admin)
func (h *AssetHandlers) DeleteAsset(c *gin.Context) {
	assetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid asset id"})
		return
	}

	if err := h.store.DeleteAsset(c.Request.Context(), assetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "asset not found"})
			return
		}
		h.log.Error().Err(err).Int64("asset_id", assetID).Msg("failed to delete asset")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.notifier.Notify(core.TopicAssets)
	c.JSON(http.StatusOK, gin.H{"msg": "asset removed"})
}
