package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/dto"
	"github.com/novamart/novamartbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CartHandler struct {
	carts    *mongo.Collection
	products *mongo.Collection
}

func NewCartHandler(db *mongo.Database) *CartHandler {
	return &CartHandler{
		carts:    db.Collection("carts"),
		products: db.Collection("products"),
	}
}

// loadOrInitCart fetches the user's cart or returns a fresh one. The cart
// document is created lazily by the first save.
func (h *CartHandler) loadOrInitCart(c *gin.Context, userID bson.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := h.carts.FindOne(c.Request.Context(), bson.M{"user": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now().UTC()
		return &models.Cart{UserID: userID, Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// saveCart upserts the cart keyed by user. Read-modify-write, no
// transaction: concurrent requests for one user may interleave.
func (h *CartHandler) saveCart(c *gin.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := h.carts.ReplaceOne(c.Request.Context(), bson.M{"user": cart.UserID}, cart, opts)
	return err
}

func (h *CartHandler) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		cart, err := h.loadOrInitCart(c, userID)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.Subtotal()})
	}
}

func (h *CartHandler) AddItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var body dto.AddCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		var product models.Product
		if err := h.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}

		var variant *models.CartVariant
		if body.VariantSKU != "" {
			v := product.FindVariant(body.VariantSKU)
			if v == nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "unknown variant sku"})
				return
			}
			variant = &models.CartVariant{SKU: v.SKU, Attributes: v.Attributes}
		}

		cart, err := h.loadOrInitCart(c, userID)
		if err != nil {
			c.Error(err)
			return
		}

		cart.AddItem(&product, body.Quantity, variant)

		if err := h.saveCart(c, cart); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.Subtotal()})
	}
}

func (h *CartHandler) UpdateItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		lineID, err := bson.ObjectIDFromHex(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}

		var body dto.UpdateCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		var cart models.Cart
		if err := h.carts.FindOne(c.Request.Context(), bson.M{"user": userID}).Decode(&cart); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "cart not found"})
			return
		}

		if !cart.UpdateItemQuantity(lineID, body.Quantity) {
			c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
			return
		}

		if err := h.saveCart(c, &cart); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.Subtotal()})
	}
}

func (h *CartHandler) RemoveItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		lineID, err := bson.ObjectIDFromHex(c.Param("itemId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}

		var cart models.Cart
		if err := h.carts.FindOne(c.Request.Context(), bson.M{"user": userID}).Decode(&cart); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "cart not found"})
			return
		}

		if !cart.RemoveItem(lineID) {
			c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
			return
		}

		if err := h.saveCart(c, &cart); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": cart.Subtotal()})
	}
}

func (h *CartHandler) Clear() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var cart models.Cart
		if err := h.carts.FindOne(c.Request.Context(), bson.M{"user": userID}).Decode(&cart); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "cart not found"})
			return
		}

		cart.Clear()

		if err := h.saveCart(c, &cart); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "subtotal": 0})
	}
}
