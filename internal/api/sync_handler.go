package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/service"
	"github.com/sheet-sync-api/internal/store"
)

// Setting keys that may be read or written over the API. The last-sync
// text is read-only: the sync service owns it.
var writableSettings = map[string]bool{
	models.SettingSourceURL: true,
}

var readableSettings = map[string]bool{
	models.SettingSourceURL: true,
	models.SettingLastSync:  true,
}

// SyncHandler handles sync, collection and settings endpoints
type SyncHandler struct {
	services *service.Services
	repos    *store.Repositories
	log      zerolog.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(services *service.Services, repos *store.Repositories, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{
		services: services,
		repos:    repos,
		log:      log.With().Str("handler", "sync").Logger(),
	}
}

// TriggerSync handles POST /v1/sync
// Runs one full sync cycle synchronously and reports the outcome.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	run, err := h.services.Sync.Run(c.Request.Context())
	if errors.Is(err, service.ErrSyncInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		return
	}
	if err != nil {
		// The run (when created) carries the failure detail.
		status := http.StatusBadGateway
		body := gin.H{"error": "sync failed: " + err.Error()}
		if run != nil {
			body["run"] = run
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run})
}

// GetSyncStatus handles GET /v1/sync/status
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	run, lastSync, err := h.services.Sync.Status(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load sync status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sync status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"last_run":  run,
		"last_sync": lastSync,
	})
}

// ListSyncRuns handles GET /v1/sync/runs
func (h *SyncHandler) ListSyncRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := h.services.Sync.History(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list sync runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sync runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetCollection handles GET /v1/collections/:name
func (h *SyncHandler) GetCollection(c *gin.Context) {
	name := c.Param("name")
	if !models.ValidCollections[name] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection: " + name})
		return
	}

	data, err := h.repos.Collections.Get(c.Request.Context(), name)
	if err != nil {
		h.log.Error().Err(err).Str("collection", name).Msg("Failed to load collection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}
	if data == nil {
		data = json.RawMessage("[]")
	}

	c.Data(http.StatusOK, "application/json", data)
}

// GetSetting handles GET /v1/settings/:key
func (h *SyncHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if !readableSettings[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting: " + key})
		return
	}

	value, err := h.repos.Settings.Get(c.Request.Context(), key)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to load setting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutSetting handles PUT /v1/settings/:key
func (h *SyncHandler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	if !writableSettings[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or read-only setting: " + key})
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"value\": \"...\"}"})
		return
	}
	if strings.TrimSpace(req.Value) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must not be empty"})
		return
	}

	if err := h.repos.Settings.Set(c.Request.Context(), key, req.Value); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to store setting")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store setting"})
		return
	}

	h.log.Info().Str("key", key).Msg("Setting updated")
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}
