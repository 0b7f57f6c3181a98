package dto

type CreateCategoryDTO struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"` // auto-generated from Name if empty
	Status   string `json:"status"`
	ImageURL string `json:"imageUrl"`
}

// UpdateCategoryDTO — all fields are optional pointers
type UpdateCategoryDTO struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Status   *string `json:"status"`
	ImageURL *string `json:"imageUrl"`
}

type CreateBrandDTO struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	Status   string `json:"status"`
	Category string `json:"category" binding:"required"` // category slug
	LogoURL  string `json:"logoUrl"`
}

type UpdateBrandDTO struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Status   *string `json:"status"`
	Category *string `json:"category"`
	LogoURL  *string `json:"logoUrl"`
}
