package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// profileHandler serves the company profile printed on contracts.
type profileHandler struct {
	profileService portssvc.ProfileSvcFacade
}

func registerProfileRoutes(rg *gin.RouterGroup, profileService portssvc.ProfileSvcFacade) {
	h := &profileHandler{profileService: profileService}

	profile := rg.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.updateProfile)
	}
}

// getProfile godoc
// @Summary Get the company profile
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	profile, err := h.profileService.GetProfile(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve company profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileResponse(*profile))
}

// updateProfile godoc
// @Summary Update the company profile
// @Description Replaces the lender details printed on contracts and the base currency.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Company profile"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /profile [put]
func (h *profileHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update company profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileResponse(*profile))
}
