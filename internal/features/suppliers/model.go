package suppliers

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id;primaryKey"`
	Name      string    `json:"name"      gorm:"column:name"`
	Email     string    `json:"email"     gorm:"column:email"`
	Country   string    `json:"country"   gorm:"column:country"`
	Active    bool      `json:"active"    gorm:"column:active"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
