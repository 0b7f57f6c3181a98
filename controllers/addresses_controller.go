package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/dto"
	"github.com/novamart/novamartbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AddressesHandler struct {
	addresses *mongo.Collection
}

func NewAddressesHandler(db *mongo.Database) *AddressesHandler {
	return &AddressesHandler{addresses: db.Collection("addresses")}
}

// unsetOtherDefaults clears isDefault on every other address of the user.
// Unset-then-set is two round trips, so two concurrent defaults can both
// land; serial execution keeps the singleton.
func (h *AddressesHandler) unsetOtherDefaults(c *gin.Context, userID bson.ObjectID, keep *bson.ObjectID) error {
	filter := bson.M{"user": userID, "isDefault": true}
	if keep != nil {
		filter["_id"] = bson.M{"$ne": *keep}
	}
	_, err := h.addresses.UpdateMany(c.Request.Context(), filter,
		bson.M{"$set": bson.M{"isDefault": false, "updatedAt": time.Now().UTC()}})
	return err
}

func (h *AddressesHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: -1}})
		cursor, err := h.addresses.Find(ctx, bson.M{"user": userID}, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Address, 0)
		if err := cursor.All(ctx, &items); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func (h *AddressesHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var body dto.CreateAddressDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if body.IsDefault {
			if err := h.unsetOtherDefaults(c, userID, nil); err != nil {
				c.Error(err)
				return
			}
		}

		now := time.Now().UTC()
		addr := models.Address{
			ID:         bson.NewObjectID(),
			UserID:     userID,
			FullName:   body.FullName,
			Phone:      body.Phone,
			Line1:      body.Line1,
			Line2:      body.Line2,
			City:       body.City,
			State:      body.State,
			PostalCode: body.PostalCode,
			Country:    body.Country,
			IsDefault:  body.IsDefault,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if _, err := h.addresses.InsertOne(ctx, addr); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, addr)
	}
}

func (h *AddressesHandler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		var body dto.UpdateAddressDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.FullName != nil {
			set["fullName"] = *body.FullName
		}
		if body.Phone != nil {
			set["phone"] = *body.Phone
		}
		if body.Line1 != nil {
			set["line1"] = *body.Line1
		}
		if body.Line2 != nil {
			set["line2"] = *body.Line2
		}
		if body.City != nil {
			set["city"] = *body.City
		}
		if body.State != nil {
			set["state"] = *body.State
		}
		if body.PostalCode != nil {
			set["postalCode"] = *body.PostalCode
		}
		if body.Country != nil {
			set["country"] = *body.Country
		}
		if body.IsDefault != nil {
			if *body.IsDefault {
				if err := h.unsetOtherDefaults(c, userID, &id); err != nil {
					c.Error(err)
					return
				}
			}
			set["isDefault"] = *body.IsDefault
		}

		if len(set) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}

		res, err := h.addresses.UpdateOne(ctx, bson.M{"_id": id, "user": userID}, bson.M{"$set": set})
		if err != nil {
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *AddressesHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		res, err := h.addresses.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
		if err != nil {
			c.Error(err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
