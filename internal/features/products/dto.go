package products

import "github.com/google/uuid"

type CreateProductRequestDTO struct {
	Name        string     `json:"name"        binding:"required"`
	Description string     `json:"description"`
	Price       float64    `json:"price"       binding:"required,gte=0"`
	Stock       int        `json:"stock"       binding:"gte=0"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	SupplierID  *uuid.UUID `json:"supplierId"`
}

type UpdateProductRequestDTO struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	SupplierID  *uuid.UUID `json:"supplierId,omitempty"`
}
