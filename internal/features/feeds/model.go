package feeds

import (
	"time"

	"github.com/google/uuid"
)

// Feed is keyed by (supplier_id, code): one supplier may publish many
// feeds, and feed codes are only unique within a supplier.
type Feed struct {
	SupplierID uuid.UUID `json:"supplierId" gorm:"column:supplier_id;primaryKey"`
	Code       string    `json:"code"       gorm:"column:code;primaryKey"`
	Title      string    `json:"title"      gorm:"column:title"`
	URL        string    `json:"url"        gorm:"column:url"`
	Format     string    `json:"format"     gorm:"column:format"`
	Active     bool      `json:"active"     gorm:"column:active"`
	CreatedAt  time.Time `json:"createdAt"  gorm:"column:created_at"`
}

func (Feed) TableName() string {
	return "feeds"
}
