package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
	locales        *LocaleResolver
}

func NewProfileHandler(profileService services.ProfileService, locales *LocaleResolver, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		locales:        locales,
	}
}

// GetProfile returns the profile, settings and headline statistics
// @Summary Get profile
// @Tags profile
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID, h.locales.Resolve(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the profile fields present in the body
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse{data=models.Profile}
// @Failure 400 {object} ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Profile updated", profile)
}

// UpdateSettings changes the settings toggles present in the body
// @Router /profile/settings [put]
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	settings, err := h.profileService.UpdateSettings(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Settings updated", settings)
}

// GetAchievements lists every badge with its progress
// @Router /profile/achievements [get]
func (h *ProfileHandler) GetAchievements(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	achievements, err := h.profileService.GetAchievements(c.Request.Context(), userID, h.locales.Resolve(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievements)
}

// ExportData downloads the user's profile, attempts and achievements as JSON
// @Router /profile/export [get]
func (h *ProfileHandler) ExportData(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	file, err := h.profileService.ExportData(c.Request.Context(), userID, h.locales.Resolve(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Profile data exported", "filename", file.Filename)
	respondWithFile(c, file)
}
