package dto

// VariantDTO mirrors models.Variant for create/update payloads.
type VariantDTO struct {
	SKU        string            `json:"sku" binding:"required"`
	Attributes VariantAttributes `json:"attributes"`
	Price      float64           `json:"price" binding:"gte=0"`
	MRP        float64           `json:"mrp" binding:"gte=0"`
	Stock      int               `json:"stock" binding:"gte=0"`
	Images     []string          `json:"images"`
}

type VariantAttributes struct {
	Color   string `json:"color"`
	Storage string `json:"storage"`
	RAM     string `json:"ram"`
	Size    string `json:"size"`
}

type SpecificationDTO struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// CreateProductDTO is parsed either from a plain JSON body or from the
// "data" multipart field when images are uploaded alongside.
type CreateProductDTO struct {
	Title          string             `json:"title" binding:"required,min=3"`
	Slug           string             `json:"slug"` // auto-generated from Title if empty
	Description    string             `json:"description"`
	Price          float64            `json:"price" binding:"required,gt=0"`
	MRP            float64            `json:"mrp" binding:"gte=0"`
	Category       string             `json:"category" binding:"required"`
	Brand          string             `json:"brand"`
	Stock          int                `json:"stock" binding:"gte=0"`
	Status         string             `json:"status"`
	Images         []string           `json:"images"`
	Variants       []VariantDTO       `json:"variants"`
	Specifications []SpecificationDTO `json:"specifications"`
}

// UpdateProductDTO — all fields are optional pointers
type UpdateProductDTO struct {
	Title             *string             `json:"title,omitempty"`
	Slug              *string             `json:"slug,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Price             *float64            `json:"price,omitempty"`
	MRP               *float64            `json:"mrp,omitempty"`
	Category          *string             `json:"category,omitempty"`
	Brand             *string             `json:"brand,omitempty"`
	Stock             *int                `json:"stock,omitempty"`
	Status            *string             `json:"status,omitempty"`
	Variants          *[]VariantDTO       `json:"variants,omitempty"`
	Specifications    *[]SpecificationDTO `json:"specifications,omitempty"`
	RemovedImagesUrls []string            `json:"removedImagesUrls,omitempty"`
}
