package models_test

import (
	"testing"

	"github.com/novamart/novamartbackend/apperr"
	"github.com/novamart/novamartbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal_SumsLineItems(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Keyboard", Price: 500, Quantity: 2},
		{Name: "Monitor", Price: 1000, Quantity: 1},
	}

	total, err := models.ComputeTotal(items, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(2000), total)
}

func TestComputeTotal_IgnoresClientTotalWhenItemsPresent(t *testing.T) {
	items := []models.OrderItem{{Name: "Keyboard", Price: 500, Quantity: 1}}

	total, err := models.ComputeTotal(items, 9999)
	require.NoError(t, err)
	assert.Equal(t, float64(500), total)
}

func TestComputeTotal_FallsBackToClientTotal(t *testing.T) {
	total, err := models.ComputeTotal(nil, 1500)
	require.NoError(t, err)
	assert.Equal(t, float64(1500), total)
}

func TestComputeTotal_RejectsZeroTotal(t *testing.T) {
	_, err := models.ComputeTotal(nil, 0)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.Status(err))
	assert.Contains(t, err.Error(), "order total is required")
}

func TestDiscountPercent(t *testing.T) {
	assert.InDelta(t, 6.666, models.DiscountPercent(70000, 75000), 0.001)
	assert.Zero(t, models.DiscountPercent(100, 0), "no mrp means no discount")
	assert.Zero(t, models.DiscountPercent(100, 100))
	assert.Zero(t, models.DiscountPercent(150, 100), "price above mrp")
}

func TestAddressSnapshotIsFrozen(t *testing.T) {
	addr := models.Address{
		FullName:   "Ada Lovelace",
		Line1:      "12 Analytical Row",
		City:       "London",
		PostalCode: "N1 9GU",
		Country:    "UK",
	}

	snap := addr.Snapshot()
	addr.City = "Cambridge"

	assert.Equal(t, "London", snap.City)
	assert.Equal(t, "Ada Lovelace", snap.FullName)
}
