package categories

import "github.com/google/uuid"

type CreateCategoryRequestDTO struct {
	Name        string     `json:"name"        binding:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
}

type UpdateCategoryRequestDTO struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
}
