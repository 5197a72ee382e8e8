package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-menu-service/internal/menu"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/middleware"
)

const menuCacheControl = "public, s-maxage=300, stale-while-revalidate=600"

type MenuHandler struct {
	uc     menu.UseCase
	logger logger.ZapLogger
}

func NewMenuHandler(uc menu.UseCase, log logger.ZapLogger) *MenuHandler {
	return &MenuHandler{
		uc:     uc,
		logger: log,
	}
}

// GetMenu always answers 200; an unreadable store shows up as an empty
// mainCategories list. ?includeInactive=true also returns hidden entries.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))
	c.JSON(http.StatusOK, h.uc.GetMenu(c.Request.Context(), includeInactive))
}

func (h *MenuHandler) Register(public gin.IRoutes) {
	public.GET("/menu", middleware.CacheControl(menuCacheControl), h.GetMenu)
}
