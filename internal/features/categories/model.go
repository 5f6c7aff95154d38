package categories

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID  `json:"id"          gorm:"column:id;primaryKey"`
	Name        string     `json:"name"        gorm:"column:name"`
	Description string     `json:"description" gorm:"column:description"`
	ParentID    *uuid.UUID `json:"parentId"    gorm:"column:parent_id"`
	CreatedAt   time.Time  `json:"createdAt"   gorm:"column:created_at"`
}

func (Category) TableName() string {
	return "categories"
}
