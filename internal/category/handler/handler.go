package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/response"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

// ListCategories always answers 200. ?active=true|false narrows the list.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filters := &dto.CategoryFilters{}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active must be a boolean"})
			return
		}
		filters.IsActive = &active
	}

	c.JSON(http.StatusOK, h.uc.ListCategories(c.Request.Context(), filters))
}

func (h *CategoryHandler) ListOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.uc.Options(c.Request.Context()))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to create category", err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to get category", err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var input dto.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	input.ID = c.Param("id")

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, "failed to delete category", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) AddSubcategory(c *gin.Context) {
	var input dto.SubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}

	cat, err := h.uc.AddSubcategory(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to add subcategory", err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateSubcategory(c *gin.Context) {
	var input dto.UpdateSubcategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err)
		return
	}
	input.CategoryID = c.Param("id")
	input.SubcategoryID = c.Param("subId")

	cat, err := h.uc.UpdateSubcategory(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, h.logger, "failed to update subcategory", err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) RemoveSubcategory(c *gin.Context) {
	cat, err := h.uc.RemoveSubcategory(c.Request.Context(), c.Param("id"), c.Param("subId"))
	if err != nil {
		response.Error(c, h.logger, "failed to remove subcategory", err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

// Register mounts the read routes on public and the write routes on admin.
func (h *CategoryHandler) Register(public, admin gin.IRoutes) {
	public.GET("/categories", h.ListCategories)
	public.GET("/categories/options", h.ListOptions)
	public.GET("/categories/:id", h.GetCategory)

	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.POST("/categories/:id/subcategories", h.AddSubcategory)
	admin.PUT("/categories/:id/subcategories/:subId", h.UpdateSubcategory)
	admin.DELETE("/categories/:id/subcategories/:subId", h.RemoveSubcategory)
}
