package products

import (
	"net/http"

	"storefront/internal/features/users"
	"storefront/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductController struct {
	productService *ProductService
}

func NewProductController(productService *ProductService) *ProductController {
	return &ProductController{productService: productService}
}

func (c *ProductController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", c.ListProducts)
	router.GET("/products/:productId", c.GetProduct)
	router.POST("/products", c.CreateProduct)
	router.PATCH("/products/:productId", c.UpdateProduct)
	router.DELETE("/products/:productId", c.DeleteProduct)
}

// ListProducts
// @Summary List products
// @Description List products with filtering, sorting and pagination.
// @Description Supports both filter[field][op]=value and field@op=value query grammars.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sort query string false "Sort specification, e.g. price:desc,name:asc"
// @Success 200 {object} repository.PaginatedResult[Product]
// @Failure 401
// @Failure 503
// @Router /products [get]
func (c *ProductController) ListProducts(ctx *gin.Context) {
	result, err := c.productService.ListProducts(ctx.Request.URL.Query())
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetProduct
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Product
// @Failure 404
// @Router /products/{productId} [get]
func (c *ProductController) GetProduct(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("productId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := c.productService.GetProduct(productID)
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// CreateProduct
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequestDTO true "Product data"
// @Success 201 {object} Product
// @Failure 400
// @Failure 409
// @Router /products [post]
func (c *ProductController) CreateProduct(ctx *gin.Context) {
	var request CreateProductRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product, err := c.productService.CreateProduct(&request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body UpdateProductRequestDTO true "Fields to update"
// @Success 200 {object} Product
// @Failure 400
// @Failure 404
// @Router /products/{productId} [patch]
func (c *ProductController) UpdateProduct(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("productId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var request UpdateProductRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product, err := c.productService.UpdateProduct(productID, &request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200
// @Failure 404
// @Router /products/{productId} [delete]
func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("productId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := c.productService.DeleteProduct(productID, actorID(ctx)); err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func actorID(ctx *gin.Context) *uuid.UUID {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &user.ID
}
