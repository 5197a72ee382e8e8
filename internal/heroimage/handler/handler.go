package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-menu-service/internal/heroimage"
	"github.com/fekuna/omnipos-menu-service/internal/heroimage/dto"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/response"
)

const getCacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"

type HeroImageHandler struct {
	uc     heroimage.UseCase
	logger logger.ZapLogger
}

func NewHeroImageHandler(uc heroimage.UseCase, log logger.ZapLogger) *HeroImageHandler {
	return &HeroImageHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *HeroImageHandler) GetHeroImage(c *gin.Context) {
	hero, err := h.uc.GetHeroImage(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, "failed to get hero image", err)
		return
	}
	if hero == nil {
		c.JSON(http.StatusOK, gin.H{"image": nil})
		return
	}

	c.JSON(http.StatusOK, hero)
}

func (h *HeroImageHandler) SetHeroImage(c *gin.Context) {
	var input dto.SetHeroImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	hero, err := h.uc.SetHeroImage(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to save hero image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": hero})
}

func (h *HeroImageHandler) ClearHeroImage(c *gin.Context) {
	if _, err := h.uc.ClearHeroImage(c.Request.Context()); err != nil {
		response.Error(c, h.logger, "failed to clear hero image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HeroImageHandler) Register(public, admin gin.IRoutes) {
	public.GET("/hero-image", middleware.CacheControl(getCacheControl), h.GetHeroImage)

	admin.POST("/hero-image", h.SetHeroImage)
	admin.DELETE("/hero-image", h.ClearHeroImage)
}
