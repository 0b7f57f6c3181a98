package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusDraft      ProductStatus = "draft"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// VariantAttributes is the attribute set that distinguishes a variant from
// its siblings. Empty fields are simply absent for that product family.
type VariantAttributes struct {
	Color   string `bson:"color,omitempty" json:"color,omitempty"`
	Storage string `bson:"storage,omitempty" json:"storage,omitempty"`
	RAM     string `bson:"ram,omitempty" json:"ram,omitempty"`
	Size    string `bson:"size,omitempty" json:"size,omitempty"`
}

type Variant struct {
	SKU        string            `bson:"sku" json:"sku"`
	Attributes VariantAttributes `bson:"attributes" json:"attributes"`
	Price      float64           `bson:"price" json:"price"`
	MRP        float64           `bson:"mrp" json:"mrp"`
	Stock      int               `bson:"stock" json:"stock"`
	Images     []string          `bson:"images,omitempty" json:"images,omitempty"`
}

type Specification struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

type Review struct {
	UserID    bson.ObjectID `bson:"userId" json:"userId"`
	UserName  string        `bson:"userName" json:"userName"`
	Rating    int           `bson:"rating" json:"rating"`
	Comment   string        `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Product struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string          `bson:"title" json:"title"`
	Slug            string          `bson:"slug" json:"slug"`
	Description     string          `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64         `bson:"price" json:"price"`
	MRP             float64         `bson:"mrp" json:"mrp"`
	Discount        float64         `bson:"discount" json:"discount"`
	Category        string          `bson:"category" json:"category"` // category slug, not a foreign key
	Brand           string          `bson:"brand,omitempty" json:"brand,omitempty"`
	Stock           int             `bson:"stock" json:"stock"`
	Status          ProductStatus   `bson:"status" json:"status"`
	Images          []string        `bson:"images,omitempty" json:"images,omitempty"`
	Variants        []Variant       `bson:"variants,omitempty" json:"variants,omitempty"`
	Specifications  []Specification `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Reviews         []Review        `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Rating          Rating          `bson:"rating" json:"rating"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// DiscountPercent derives the displayed discount from price and mrp.
// A zero or lower mrp means the product has no list price to discount from.
func DiscountPercent(price, mrp float64) float64 {
	if mrp <= 0 || price >= mrp {
		return 0
	}
	return (mrp - price) / mrp * 100
}

// FindVariant returns the variant with the given sku, or nil.
func (p *Product) FindVariant(sku string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}
