package categories

import (
	"net/http"

	"storefront/internal/features/users"
	"storefront/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryController struct {
	categoryService *CategoryService
}

func NewCategoryController(categoryService *CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

func (c *CategoryController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", c.ListCategories)
	router.GET("/categories/:categoryId", c.GetCategory)
	router.POST("/categories", c.CreateCategory)
	router.PATCH("/categories/:categoryId", c.UpdateCategory)
	router.DELETE("/categories/:categoryId", c.DeleteCategory)
}

// ListCategories
// @Summary List categories
// @Description List categories with filtering, sorting and pagination
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} repository.PaginatedResult[Category]
// @Failure 401
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	result, err := c.categoryService.ListCategories(ctx.Request.URL.Query())
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetCategory
// @Summary Get a category by ID
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} Category
// @Failure 404
// @Router /categories/{categoryId} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	categoryID, err := uuid.Parse(ctx.Param("categoryId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	category, err := c.categoryService.GetCategory(categoryID)
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// CreateCategory
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequestDTO true "Category data"
// @Success 201 {object} Category
// @Failure 400
// @Router /categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var request CreateCategoryRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	category, err := c.categoryService.CreateCategory(&request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// UpdateCategory
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Param request body UpdateCategoryRequestDTO true "Fields to update"
// @Success 200 {object} Category
// @Failure 400
// @Failure 404
// @Router /categories/{categoryId} [patch]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	categoryID, err := uuid.Parse(ctx.Param("categoryId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var request UpdateCategoryRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	category, err := c.categoryService.UpdateCategory(categoryID, &request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200
// @Failure 404
// @Router /categories/{categoryId} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	categoryID, err := uuid.Parse(ctx.Param("categoryId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := c.categoryService.DeleteCategory(categoryID, actorID(ctx)); err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func actorID(ctx *gin.Context) *uuid.UUID {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &user.ID
}
