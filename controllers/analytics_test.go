package controllers

import (
	"testing"
	"time"

	"github.com/novamart/novamartbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFillDailyBuckets_ZeroFillsMissingDays(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC) // a Friday

	rows := []dailyRow{
		{ID: "2026-08-28", Revenue: 1200, Orders: 3},
		{ID: "2026-08-25", Revenue: 500, Orders: 1},
	}

	buckets := fillDailyBuckets(now, 7, rows)
	require.Len(t, buckets, 7)

	// Oldest first, ending today.
	assert.Equal(t, "2026-08-22", buckets[0].Date)
	assert.Equal(t, "Sat", buckets[0].Day)
	assert.Zero(t, buckets[0].Revenue)

	assert.Equal(t, "2026-08-25", buckets[3].Date)
	assert.Equal(t, "Tue", buckets[3].Day)
	assert.Equal(t, float64(500), buckets[3].Revenue)
	assert.Equal(t, int64(1), buckets[3].Orders)

	assert.Equal(t, "2026-08-28", buckets[6].Date)
	assert.Equal(t, "Fri", buckets[6].Day)
	assert.Equal(t, float64(1200), buckets[6].Revenue)
}

func TestFillDailyBuckets_EmptyRows(t *testing.T) {
	buckets := fillDailyBuckets(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), 7, nil)
	require.Len(t, buckets, 7)
	for _, b := range buckets {
		assert.Zero(t, b.Revenue)
		assert.Zero(t, b.Orders)
	}
}

// Revenue counts every non-cancelled order, paid or not. Cancelled orders
// are the only exclusion.
func TestRevenueFilter_Scope(t *testing.T) {
	filter := revenueFilter()

	assert.Equal(t, bson.M{"status": bson.M{"$ne": models.OrderStatusCancelled}}, filter)
	_, filtersOnPayment := filter["paymentStatus"]
	assert.False(t, filtersOnPayment, "unpaid orders must be included")
}
