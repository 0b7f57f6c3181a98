package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/dto"
	"github.com/novamart/novamartbackend/models"
	"github.com/novamart/novamartbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CategoriesHandler struct {
	categories *mongo.Collection
	products   *mongo.Collection
}

func NewCategoriesHandler(db *mongo.Database) *CategoriesHandler {
	return &CategoriesHandler{
		categories: db.Collection("categories"),
		products:   db.Collection("products"),
	}
}

func (h *CategoriesHandler) slugExists(excludeID *bson.ObjectID) utils.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		filter := bson.M{"slug": slug}
		if excludeID != nil {
			filter["_id"] = bson.M{"$ne": *excludeID}
		}
		n, err := h.categories.CountDocuments(ctx, filter)
		return n > 0, err
	}
}

func (h *CategoriesHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := h.categories.Find(ctx, filter, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Category, 0)
		if err := cursor.All(ctx, &items); err != nil {
			c.Error(err)
			return
		}

		// productCount is derived on read; writes never maintain it.
		for i := range items {
			n, err := h.products.CountDocuments(ctx, bson.M{"category": items[i].Slug})
			if err != nil {
				c.Error(err)
				return
			}
			items[i].ProductCount = n
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func (h *CategoriesHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			var err error
			slug, err = utils.UniqueSlug(ctx, body.Name, h.slugExists(nil))
			if err != nil {
				c.Error(err)
				return
			}
		}

		status := models.CatalogStatus(body.Status)
		if status == "" {
			status = models.CatalogStatusActive
		}

		doc := models.Category{
			ID:       bson.NewObjectID(),
			Name:     body.Name,
			Slug:     slug,
			Status:   status,
			ImageURL: body.ImageURL,
		}

		if _, err := h.categories.InsertOne(ctx, doc); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "slug already exists"})
				return
			}
			c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, doc)
	}
}

func (h *CategoriesHandler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
			return
		}

		var body dto.UpdateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		var current models.Category
		if err := h.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
			return
		}

		set := bson.M{}
		if body.Name != nil {
			v := strings.TrimSpace(*body.Name)
			if v == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "name cannot be empty"})
				return
			}
			set["name"] = v
			if body.Slug == nil && v != current.Name {
				slug, err := utils.UniqueSlug(ctx, v, h.slugExists(&id))
				if err != nil {
					c.Error(err)
					return
				}
				set["slug"] = slug
			}
		}
		if body.Slug != nil {
			v := strings.TrimSpace(*body.Slug)
			if v == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "slug cannot be empty"})
				return
			}
			set["slug"] = v
		}
		if body.Status != nil {
			set["status"] = *body.Status
		}
		if body.ImageURL != nil {
			set["imageUrl"] = *body.ImageURL
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}

		res, err := h.categories.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "slug already exists"})
				return
			}
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *CategoriesHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
			return
		}

		res, err := h.categories.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.Error(err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
