package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem/dto"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/response"
)

const listCacheControl = "public, s-maxage=30, stale-while-revalidate=60"

type ItemHandler struct {
	uc     menuitem.UseCase
	logger logger.ZapLogger
}

func NewItemHandler(uc menuitem.UseCase, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context(), &dto.ItemFilters{Category: c.Query("category")})
	if err != nil {
		response.Error(c, h.logger, "failed to list menu items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) SearchItems(c *gin.Context) {
	items, err := h.uc.SearchItems(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, h.logger, "failed to search menu items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.uc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to get menu item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var input dto.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	item, err := h.uc.CreateItem(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to create menu item", err)
		return
	}

	h.logWrite(c, "menu item created", item.ID)
	c.JSON(http.StatusCreated, dto.MutationResponse{Success: true, MenuItem: item})
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var input dto.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to update menu item", err)
		return
	}

	h.logWrite(c, "menu item updated", item.ID)
	c.JSON(http.StatusOK, dto.MutationResponse{Success: true, MenuItem: item})
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.uc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, "failed to delete menu item", err)
		return
	}

	h.logWrite(c, "menu item deleted", c.Param("id"))
	c.JSON(http.StatusOK, dto.MutationResponse{Success: true})
}

// logWrite records who changed an item. Anonymous writes only happen when
// the admin gate is disabled and log an empty user_id.
func (h *ItemHandler) logWrite(c *gin.Context, msg, id string) {
	h.logger.Info(msg,
		zap.String("item_id", id),
		zap.String("user_id", auth.GetUserID(c.Request.Context())),
	)
}

func (h *ItemHandler) Register(public, admin gin.IRoutes) {
	public.GET("/menu-items", middleware.CacheControl(listCacheControl), h.ListItems)
	public.GET("/menu-items/search", h.SearchItems)
	public.GET("/menu-items/:id", h.GetItem)

	admin.POST("/menu-items", middleware.NoStore(), h.CreateItem)
	admin.PUT("/menu-items/:id", h.UpdateItem)
	admin.DELETE("/menu-items/:id", h.DeleteItem)
}
