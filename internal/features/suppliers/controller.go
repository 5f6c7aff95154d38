package suppliers

import (
	"net/http"

	"storefront/internal/features/users"
	"storefront/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SupplierController struct {
	supplierService *SupplierService
}

func NewSupplierController(supplierService *SupplierService) *SupplierController {
	return &SupplierController{supplierService: supplierService}
}

func (c *SupplierController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/suppliers", c.ListSuppliers)
	router.GET("/suppliers/:supplierId", c.GetSupplier)
	router.POST("/suppliers", c.CreateSupplier)
	router.PATCH("/suppliers/:supplierId", c.UpdateSupplier)
	router.DELETE("/suppliers/:supplierId", c.DeleteSupplier)
}

// ListSuppliers
// @Summary List suppliers
// @Description List suppliers with filtering, sorting and pagination
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} repository.PaginatedResult[Supplier]
// @Failure 401
// @Router /suppliers [get]
func (c *SupplierController) ListSuppliers(ctx *gin.Context) {
	result, err := c.supplierService.ListSuppliers(ctx.Request.URL.Query())
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetSupplier
// @Summary Get a supplier by ID
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Success 200 {object} Supplier
// @Failure 404
// @Router /suppliers/{supplierId} [get]
func (c *SupplierController) GetSupplier(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	supplier, err := c.supplierService.GetSupplier(supplierID)
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, supplier)
}

// CreateSupplier
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSupplierRequestDTO true "Supplier data"
// @Success 201 {object} Supplier
// @Failure 400
// @Router /suppliers [post]
func (c *SupplierController) CreateSupplier(ctx *gin.Context) {
	var request CreateSupplierRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	supplier, err := c.supplierService.CreateSupplier(&request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Param request body UpdateSupplierRequestDTO true "Fields to update"
// @Success 200 {object} Supplier
// @Failure 400
// @Failure 404
// @Router /suppliers/{supplierId} [patch]
func (c *SupplierController) UpdateSupplier(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var request UpdateSupplierRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	supplier, err := c.supplierService.UpdateSupplier(supplierID, &request, actorID(ctx))
	if err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, supplier)
}

// DeleteSupplier
// @Summary Delete a supplier
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param supplierId path string true "Supplier ID"
// @Success 200
// @Failure 404
// @Router /suppliers/{supplierId} [delete]
func (c *SupplierController) DeleteSupplier(ctx *gin.Context) {
	supplierID, err := uuid.Parse(ctx.Param("supplierId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := c.supplierService.DeleteSupplier(supplierID, actorID(ctx)); err != nil {
		apierror.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

func actorID(ctx *gin.Context) *uuid.UUID {
	user, ok := users.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &user.ID
}
