package products

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID  `json:"id"          gorm:"column:id;primaryKey"`
	Name        string     `json:"name"        gorm:"column:name"`
	Description string     `json:"description" gorm:"column:description"`
	Price       float64    `json:"price"       gorm:"column:price"`
	Stock       int        `json:"stock"       gorm:"column:stock"`
	CategoryID  *uuid.UUID `json:"categoryId"  gorm:"column:category_id"`
	SupplierID  *uuid.UUID `json:"supplierId"  gorm:"column:supplier_id"`
	CreatedAt   time.Time  `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}
