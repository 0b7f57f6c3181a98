package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartVariant is the frozen variant snapshot carried by a cart line.
type CartVariant struct {
	SKU        string            `bson:"sku" json:"sku"`
	Attributes VariantAttributes `bson:"attributes" json:"attributes"`
}

type CartItem struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	ProductID bson.ObjectID `bson:"productId" json:"productId"`
	Name      string        `bson:"name" json:"name"`
	Image     string        `bson:"image,omitempty" json:"image,omitempty"`
	Category  string        `bson:"category,omitempty" json:"category,omitempty"`
	Price     float64       `bson:"price" json:"price"`
	Quantity  int           `bson:"quantity" json:"quantity"`
	Variant   *CartVariant  `bson:"variant,omitempty" json:"variant,omitempty"`
}

// Cart is unique per user. It is upserted on first add and only ever
// emptied afterwards, never deleted.
type Cart struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user" json:"user"`
	Items     []CartItem    `bson:"items" json:"items"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func variantSKU(v *CartVariant) string {
	if v == nil {
		return ""
	}
	return v.SKU
}

// lineKeyMatches reports whether an existing line and an incoming add refer
// to the same sellable unit. Lines are keyed by (product, variant sku):
// different variants of one product stay on separate lines.
func lineKeyMatches(item CartItem, productID bson.ObjectID, variant *CartVariant) bool {
	return item.ProductID == productID && variantSKU(item.Variant) == variantSKU(variant)
}

// AddItem merges the requested quantity into an existing matching line or
// appends a new line carrying the product snapshot. Quantity must be
// positive; callers validate at the boundary.
func (c *Cart) AddItem(p *Product, quantity int, variant *CartVariant) {
	price := p.Price
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	if variant != nil {
		if v := p.FindVariant(variant.SKU); v != nil {
			price = v.Price
			if len(v.Images) > 0 {
				image = v.Images[0]
			}
		}
	}

	for i := range c.Items {
		if lineKeyMatches(c.Items[i], p.ID, variant) {
			c.Items[i].Quantity += quantity
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        bson.NewObjectID(),
		ProductID: p.ID,
		Name:      p.Title,
		Image:     image,
		Category:  p.Category,
		Price:     price,
		Quantity:  quantity,
		Variant:   variant,
	})
}

// UpdateItemQuantity sets a line's quantity; a quantity of zero or less
// removes the line. Returns false when no line has the given id.
func (c *Cart) UpdateItemQuantity(lineID bson.ObjectID, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return true
		}
	}
	return false
}

// RemoveItem removes a line unconditionally. Returns false when absent.
func (c *Cart) RemoveItem(lineID bson.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart without deleting the document.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// Subtotal is the sum of price x quantity over all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
