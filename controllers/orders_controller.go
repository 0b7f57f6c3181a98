package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/dto"
	"github.com/novamart/novamartbackend/models"
	"github.com/novamart/novamartbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type OrdersHandler struct {
	orders    *mongo.Collection
	products  *mongo.Collection
	carts     *mongo.Collection
	addresses *mongo.Collection
	users     *mongo.Collection
}

func NewOrdersHandler(db *mongo.Database) *OrdersHandler {
	return &OrdersHandler{
		orders:    db.Collection("orders"),
		products:  db.Collection("products"),
		carts:     db.Collection("carts"),
		addresses: db.Collection("addresses"),
		users:     db.Collection("users"),
	}
}

var allowedOrderStatus = map[models.OrderStatus]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

var allowedPaymentStatus = map[models.PaymentStatus]bool{
	models.PaymentStatusPaid:     true,
	models.PaymentStatusUnpaid:   true,
	models.PaymentStatusRefunded: true,
}

// resolveItems turns requested (product, variant, qty) triples into frozen
// order lines priced from the current catalog.
func (h *OrdersHandler) resolveItems(c *gin.Context, reqItems []dto.OrderItemDTO) ([]models.OrderItem, bool) {
	ctx := c.Request.Context()
	items := make([]models.OrderItem, 0, len(reqItems))

	for _, ri := range reqItems {
		productID, err := bson.ObjectIDFromHex(ri.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return nil, false
		}

		var product models.Product
		if err := h.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return nil, false
		}

		price := product.Price
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		var variant *models.CartVariant
		if ri.VariantSKU != "" {
			v := product.FindVariant(ri.VariantSKU)
			if v == nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "unknown variant sku"})
				return nil, false
			}
			price = v.Price
			if len(v.Images) > 0 {
				image = v.Images[0]
			}
			variant = &models.CartVariant{SKU: v.SKU, Attributes: v.Attributes}
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Title,
			Image:     image,
			Category:  product.Category,
			Price:     price,
			Quantity:  ri.Quantity,
			Variant:   variant,
		})
	}
	return items, true
}

func (h *OrdersHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var body dto.CreateOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		addressID, err := bson.ObjectIDFromHex(body.AddressID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		var address models.Address
		if err := h.addresses.FindOne(ctx, bson.M{"_id": addressID, "user": userID}).Decode(&address); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}

		var user models.User
		if err := h.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.Error(err)
			return
		}

		items, ok := h.resolveItems(c, body.Items)
		if !ok {
			return
		}

		total, err := models.ComputeTotal(items, body.Total)
		if err != nil {
			c.Error(err)
			return
		}

		provider := body.PaymentProvider
		if provider == "" {
			provider = "cod"
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:              bson.NewObjectID(),
			Number:          utils.NewOrderNumber(),
			UserID:          userID,
			CustomerName:    user.Name,
			CustomerEmail:   user.Email,
			Items:           items,
			Total:           total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			PaymentProvider: provider,
			ShippingAddress: address.Snapshot(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if _, err := h.orders.InsertOne(ctx, order); err != nil {
			c.Error(err)
			return
		}

		// Best effort: a failed cart clear leaves the order standing.
		if _, err := h.carts.UpdateOne(ctx, bson.M{"user": userID},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}}); err != nil {
			log.Printf("cart clear after checkout failed for user %s: %v", userID.Hex(), err)
		}

		c.JSON(http.StatusCreated, order)
	}
}

func (h *OrdersHandler) ListMine() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := h.orders.Find(ctx, bson.M{"user": userID}, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
	}
}

func (h *OrdersHandler) GetMine() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}

		var order models.Order
		if err := h.orders.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func (h *OrdersHandler) AdminList() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if ps := c.Query("paymentStatus"); ps != "" {
			filter["paymentStatus"] = ps
		}

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := h.orders.Find(ctx, filter, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.Error(err)
			return
		}

		total, err := h.orders.CountDocuments(ctx, filter)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": orders,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// AdminUpdate mutates status and paymentStatus. Marking paid directly is the
// whole payment integration here.
func (h *OrdersHandler) AdminUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}

		var body dto.UpdateOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		set := bson.M{}
		if body.Status != nil {
			st := models.OrderStatus(*body.Status)
			if !allowedOrderStatus[st] {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order status"})
				return
			}
			set["status"] = st
		}
		if body.PaymentStatus != nil {
			ps := models.PaymentStatus(*body.PaymentStatus)
			if !allowedPaymentStatus[ps] {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payment status"})
				return
			}
			set["paymentStatus"] = ps
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		res, err := h.orders.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *OrdersHandler) AdminDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}

		res, err := h.orders.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.Error(err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminAddNote appends an internal note visible only in the back office.
func (h *OrdersHandler) AdminAddNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
			return
		}

		var body dto.AddOrderNoteDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		authorID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		note := models.AdminNote{
			ID:          bson.NewObjectID(),
			AuthorID:    authorID,
			AuthorEmail: currentUserEmail(c),
			Content:     body.Content,
			CreatedAt:   time.Now().UTC(),
		}

		res, err := h.orders.UpdateByID(ctx, id, bson.M{
			"$push": bson.M{"notes": note},
			"$set":  bson.M{"updatedAt": note.CreatedAt},
		})
		if err != nil {
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}

		c.JSON(http.StatusCreated, note)
	}
}
