package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/models"
	"github.com/novamart/novamartbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type AnalyticsHandler struct {
	orders *mongo.Collection
}

func NewAnalyticsHandler(db *mongo.Database) *AnalyticsHandler {
	return &AnalyticsHandler{orders: db.Collection("orders")}
}

// revenueFilter scopes every dashboard figure. Cancelled orders are out;
// payment status is deliberately ignored, so unpaid orders count.
func revenueFilter() bson.M {
	return bson.M{"status": bson.M{"$ne": models.OrderStatusCancelled}}
}

type DailyBucket struct {
	Day     string  `json:"day"`  // short weekday name
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type dimensionRow struct {
	ID      string  `bson:"_id" json:"-"`
	Name    string  `bson:"-" json:"name"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Units   int64   `bson:"units" json:"units"`
}

type dailyRow struct {
	ID      string  `bson:"_id"`
	Revenue float64 `bson:"revenue"`
	Orders  int64   `bson:"orders"`
}

// fillDailyBuckets lays out the trailing `days` calendar days ending at
// `now`, oldest first, zero-filling days without orders. Comparison is by
// the string form of the date, timezone-naive.
func fillDailyBuckets(now time.Time, days int, rows []dailyRow) []DailyBucket {
	byDate := make(map[string]dailyRow, len(rows))
	for _, r := range rows {
		byDate[r.ID] = r
	}

	out := make([]DailyBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := d.Format("2006-01-02")
		row := byDate[key]
		out = append(out, DailyBucket{
			Day:     d.Format("Mon"),
			Date:    key,
			Revenue: row.Revenue,
			Orders:  row.Orders,
		})
	}
	return out
}

func (h *AnalyticsHandler) totalRevenue(ctx context.Context) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: revenueFilter()}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total"},
			"orders":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := h.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Revenue float64 `bson:"revenue"`
		Orders  int64   `bson:"orders"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Revenue, rows[0].Orders, nil
}

func (h *AnalyticsHandler) dailySales(ctx context.Context, now time.Time, days int) ([]DailyBucket, error) {
	since := now.AddDate(0, 0, -(days - 1))
	sinceMidnight := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)

	match := revenueFilter()
	match["createdAt"] = bson.M{"$gte": sinceMidnight}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"revenue": bson.M{"$sum": "$total"},
			"orders":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := h.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []dailyRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return fillDailyBuckets(now, days, rows), nil
}

// salesByDimension unwinds order lines and groups revenue/units by the
// given line field ("$items.category" or "$items.name").
func (h *AnalyticsHandler) salesByDimension(ctx context.Context, field string, limit int) ([]dimensionRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: revenueFilter()}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":     field,
			"revenue": bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}},
			"units":   bson.M{"$sum": "$items.quantity"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := h.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]dimensionRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Name = rows[i].ID
	}
	return rows, nil
}

func (h *AnalyticsHandler) Dashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		revenue, orderCount, err := h.totalRevenue(ctx)
		if err != nil {
			c.Error(err)
			return
		}

		daily, err := h.dailySales(ctx, time.Now().UTC(), 7)
		if err != nil {
			c.Error(err)
			return
		}

		byCategory, err := h.salesByDimension(ctx, "$items.category", 0)
		if err != nil {
			c.Error(err)
			return
		}

		limit := utils.ParseIntDefault(c.Query("topLimit"), 5)
		topProducts, err := h.salesByDimension(ctx, "$items.name", limit)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalRevenue":  revenue,
			"totalOrders":   orderCount,
			"dailySales":    daily,
			"categorySales": byCategory,
			"topProducts":   topProducts,
		})
	}
}
