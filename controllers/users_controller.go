package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/dto"
	"github.com/novamart/novamartbackend/models"
	"github.com/novamart/novamartbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UsersHandler struct {
	users *mongo.Collection
}

func NewUsersHandler(db *mongo.Database) *UsersHandler {
	return &UsersHandler{users: db.Collection("users")}
}

func (h *UsersHandler) AdminList() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}

		filter := bson.M{}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["$or"] = bson.A{
				bson.M{"name": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"email": bson.M{"$regex": q, "$options": "i"}},
			}
		}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := h.users.Find(ctx, filter, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			c.Error(err)
			return
		}

		total, err := h.users.CountDocuments(ctx, filter)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": users,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// AdminUpdate changes a user's role or block status.
func (h *UsersHandler) AdminUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			return
		}

		var body dto.UpdateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		set := bson.M{}
		if body.Role != nil {
			role := models.Role(*body.Role)
			if role != models.RoleAdmin && role != models.RoleUser {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
				return
			}
			set["role"] = role
		}
		if body.Status != nil {
			status := models.UserStatus(*body.Status)
			if status != models.UserStatusActive && status != models.UserStatusBlocked {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
				return
			}
			set["status"] = status
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		res, err := h.users.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
