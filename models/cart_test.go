package models_test

import (
	"testing"

	"github.com/novamart/novamartbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func phoneProduct() *models.Product {
	return &models.Product{
		ID:       bson.NewObjectID(),
		Title:    "iPhone 15",
		Slug:     "iphone-15",
		Price:    70000,
		MRP:      75000,
		Category: "mobiles",
		Images:   []string{"https://cdn.example.com/iphone-15.jpg"},
		Variants: []models.Variant{
			{SKU: "IP15-128-BLK", Attributes: models.VariantAttributes{Color: "black", Storage: "128GB"}, Price: 70000, Stock: 10},
			{SKU: "IP15-256-BLK", Attributes: models.VariantAttributes{Color: "black", Storage: "256GB"}, Price: 80000, Stock: 5},
		},
	}
}

func TestCartAddItem_MergesSameProduct(t *testing.T) {
	cart := &models.Cart{}
	p := phoneProduct()

	cart.AddItem(p, 1, nil)
	cart.AddItem(p, 2, nil)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, p.ID, cart.Items[0].ProductID)
	assert.Equal(t, "iPhone 15", cart.Items[0].Name)
	assert.Equal(t, float64(70000), cart.Items[0].Price)
	assert.Equal(t, float64(210000), cart.Subtotal())
}

func TestCartAddItem_VariantsStayOnSeparateLines(t *testing.T) {
	cart := &models.Cart{}
	p := phoneProduct()

	small := &models.CartVariant{SKU: "IP15-128-BLK", Attributes: p.Variants[0].Attributes}
	big := &models.CartVariant{SKU: "IP15-256-BLK", Attributes: p.Variants[1].Attributes}

	cart.AddItem(p, 1, small)
	cart.AddItem(p, 1, big)
	cart.AddItem(p, 1, small)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(70000), cart.Items[0].Price)
	assert.Equal(t, 1, cart.Items[1].Quantity)
	assert.Equal(t, float64(80000), cart.Items[1].Price)
}

func TestCartAddItem_VariantPriceSnapshot(t *testing.T) {
	cart := &models.Cart{}
	p := phoneProduct()

	cart.AddItem(p, 1, &models.CartVariant{SKU: "IP15-256-BLK"})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, float64(80000), cart.Items[0].Price)

	// Later catalog edits must not touch the snapshot.
	p.Variants[1].Price = 99999
	assert.Equal(t, float64(80000), cart.Items[0].Price)
}

func TestCartUpdateItemQuantity(t *testing.T) {
	cart := &models.Cart{}
	p := phoneProduct()
	cart.AddItem(p, 2, nil)
	lineID := cart.Items[0].ID

	require.True(t, cart.UpdateItemQuantity(lineID, 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// Zero or negative removes the line.
	require.True(t, cart.UpdateItemQuantity(lineID, 0))
	assert.Empty(t, cart.Items)

	assert.False(t, cart.UpdateItemQuantity(lineID, 1), "missing line reports false")
}

func TestCartRemoveItem(t *testing.T) {
	cart := &models.Cart{}
	p := phoneProduct()
	cart.AddItem(p, 1, nil)
	other := phoneProduct()
	other.ID = bson.NewObjectID()
	other.Title = "Galaxy S24"
	cart.AddItem(other, 1, nil)

	require.Len(t, cart.Items, 2)
	require.True(t, cart.RemoveItem(cart.Items[0].ID))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Galaxy S24", cart.Items[0].Name)

	assert.False(t, cart.RemoveItem(bson.NewObjectID()))
}

func TestCartClear(t *testing.T) {
	cart := &models.Cart{}
	cart.AddItem(phoneProduct(), 3, nil)

	cart.Clear()

	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal())
}
