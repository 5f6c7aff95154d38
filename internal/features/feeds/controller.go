package feeds

import (
	"net/http"

	"storefront/internal/features/users"
	"storefront/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeedController struct {
	feedService *FeedService
}

func NewFeedController(feedService *FeedService) *FeedController {
	return &FeedController{feedService: feedService}
}

func (c *FeedController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/feeds", c.ListFeeds)
	router.GET("/feeds/:supplierId/:code", c.GetFeed)
	router.POST("/feeds", c.CreateFeed)
	router.PATCH("/feeds/:supplierId/:code", c.UpdateFeed)
	router.DELETE("/feeds/:supplierId/:code", c.DeleteFeed)
}

// ListFeeds
// @Summary List feeds
// @Description List feeds with filtering, sorting and pagination
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} repository.PaginatedResult[Feed]
// @Failure 401
// @Router /feeds [get]
func (c *FeedController) ListFeeds(ctx *gin.Context) {
	result, err := c.feedService.ListFeeds(ctx.Request.URL.Query())
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetFeed
// @Summary Get a feed by its composite key
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Param code path string true "Feed code"
// @Success 200 {object} Feed
// @Failure 404
// @Router /feeds/{supplierId}/{code} [get]
func (c *FeedController) GetFeed(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	feed, err := c.feedService.GetFeed(supplierID, ctx.Param("code"))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, feed)
}

// CreateFeed
// @Summary Create a feed
// @Tags feeds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFeedRequestDTO true "Feed data"
// @Success 201 {object} Feed
// @Failure 400
// @Failure 409
// @Router /feeds [post]
func (c *FeedController) CreateFeed(ctx *gin.Context) {
	var request CreateFeedRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	feed, err := c.feedService.CreateFeed(&request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, feed)
}

// UpdateFeed
// @Summary Update a feed
// @Tags feeds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Param code path string true "Feed code"
// @Param request body UpdateFeedRequestDTO true "Fields to update"
// @Success 200 {object} Feed
// @Failure 400
// @Failure 404
// @Router /feeds/{supplierId}/{code} [patch]
func (c *FeedController) UpdateFeed(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var request UpdateFeedRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	feed, err := c.feedService.UpdateFeed(supplierID, ctx.Param("code"), &request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, feed)
}

// DeleteFeed
// @Summary Delete a feed
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Param code path string true "Feed code"
// @Success 200
// @Failure 404
// @Router /feeds/{supplierId}/{code} [delete]
func (c *FeedController) DeleteFeed(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := c.feedService.DeleteFeed(supplierID, ctx.Param("code"), actorID(ctx)); err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Feed deleted successfully"})
}

func actorID(ctx *gin.Context) *uuid.UUID {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &user.ID
}
