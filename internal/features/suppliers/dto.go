package suppliers

type CreateSupplierRequestDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Country string `json:"country"`
	Active  *bool  `json:"active"`
}

type UpdateSupplierRequestDTO struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Country *string `json:"country,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}
