package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopadmin-backend-go/internal/core"
	"shopadmin-backend-go/internal/models"
)

// SettingHandler handles the encrypted settings / credential vault endpoints.
type SettingHandler struct {
	settingService core.SettingService
	logger         *zap.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(ss core.SettingService, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{settingService: ss, logger: logger}
}

// mapSettingErrorToStatus maps errors from core.SettingService to HTTP status
// codes and an ErrorResponse body.
func (h *SettingHandler) mapSettingErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrSettingNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrSettingNotFound.Error()}
	case errors.Is(err, core.ErrCredentialsNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCredentialsNotFound.Error()}
	case errors.Is(err, core.ErrMissingIdentity):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrMissingIdentity.Error()}
	case errors.Is(err, core.ErrSettingExists):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrSettingExists.Error()}
	case errors.Is(err, core.ErrConcurrentModification):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrConcurrentModification.Error()}
	case errors.Is(err, core.ErrEncryptionFailed):
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Failed to encrypt setting data."}
	case errors.Is(err, core.ErrDecryptionFailed):
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Failed to decrypt setting data. Data may be corrupted or the key is incorrect."}
	default:
		h.logger.Error("unexpected error in SettingHandler", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// unmaskRequested reads the opt-in unmask query flag. Unmasked reads exist for
// internal consumers only and are never the default.
func unmaskRequested(c *gin.Context) bool {
	unmask, _ := strconv.ParseBool(c.Query("unmask"))
	return unmask
}

// ListSettings handles GET /settings?category=&unmask=
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context(), c.Query("category"), unmaskRequested(c))
	if err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	if settings == nil {
		settings = []*models.Setting{}
	}
	c.JSON(http.StatusOK, settings)
}

// ListActiveIntegrations handles GET /settings/integrations/active
func (h *SettingHandler) ListActiveIntegrations(c *gin.Context) {
	settings, err := h.settingService.GetActiveAPIIntegrations(c.Request.Context())
	if err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	if settings == nil {
		settings = []*models.Setting{}
	}
	c.JSON(http.StatusOK, settings)
}

// GetSetting handles GET /settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting key is required in path"})
		return
	}

	setting, err := h.settingService.GetSetting(c.Request.Context(), key, unmaskRequested(c))
	if err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// CreateSetting handles POST /settings
func (h *SettingHandler) CreateSetting(c *gin.Context) {
	var req models.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	created, err := h.settingService.CreateSetting(c.Request.Context(), req)
	if err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateSetting handles PUT /settings/:key
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting key is required in path"})
		return
	}

	var req models.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	updated, err := h.settingService.UpdateSetting(c.Request.Context(), key, req)
	if err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSetting handles DELETE /settings/:key
func (h *SettingHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting key is required in path"})
		return
	}

	if err := h.settingService.DeleteSetting(c.Request.Context(), key); err != nil {
		h.mapSettingErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TestConnection handles POST /settings/:key/test. The probe itself never
// fails; the result carries the outcome either way.
func (h *SettingHandler) TestConnection(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting key is required in path"})
		return
	}

	result := h.settingService.TestConnection(c.Request.Context(), key)
	c.JSON(http.StatusOK, result)
}
