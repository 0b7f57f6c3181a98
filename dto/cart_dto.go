package dto

type AddCartItemDTO struct {
	ProductID  string `json:"productId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	VariantSKU string `json:"variantSku"`
}

type UpdateCartItemDTO struct {
	// Zero or negative removes the line, so no min constraint here.
	Quantity int `json:"quantity"`
}
