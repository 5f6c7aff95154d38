package feeds

import "github.com/google/uuid"

type CreateFeedRequestDTO struct {
	SupplierID uuid.UUID `json:"supplierId" binding:"required"`
	Code       string    `json:"code"       binding:"required"`
	Title      string    `json:"title"      binding:"required"`
	URL        string    `json:"url"        binding:"required,url"`
	Format     string    `json:"format"`
	Active     *bool     `json:"active"`
}

type UpdateFeedRequestDTO struct {
	Title  *string `json:"title,omitempty"`
	URL    *string `json:"url,omitempty"`
	Format *string `json:"format,omitempty"`
	Active *bool   `json:"active,omitempty"`
}
