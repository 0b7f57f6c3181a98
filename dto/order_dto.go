package dto

type OrderItemDTO struct {
	ProductID  string `json:"productId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	VariantSKU string `json:"variantSku"`
}

// CreateOrderDTO covers both checkout paths: cart checkout always supplies
// items; the legacy path may omit them and send a pre-computed total.
type CreateOrderDTO struct {
	Items           []OrderItemDTO `json:"items"`
	Total           float64        `json:"total"`
	AddressID       string         `json:"addressId" binding:"required"`
	PaymentProvider string         `json:"paymentProvider"`
}

// UpdateOrderDTO is the admin status mutation, including the direct
// "mark as paid" payment stub.
type UpdateOrderDTO struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

type AddOrderNoteDTO struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}
