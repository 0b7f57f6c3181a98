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

type BrandsHandler struct {
	brands     *mongo.Collection
	categories *mongo.Collection
	products   *mongo.Collection
}

func NewBrandsHandler(db *mongo.Database) *BrandsHandler {
	return &BrandsHandler{
		brands:     db.Collection("brands"),
		categories: db.Collection("categories"),
		products:   db.Collection("products"),
	}
}

func (h *BrandsHandler) slugExists(excludeID *bson.ObjectID) utils.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		filter := bson.M{"slug": slug}
		if excludeID != nil {
			filter["_id"] = bson.M{"$ne": *excludeID}
		}
		n, err := h.brands.CountDocuments(ctx, filter)
		return n > 0, err
	}
}

func (h *BrandsHandler) categoryExists(ctx context.Context, slug string) (bool, error) {
	n, err := h.categories.CountDocuments(ctx, bson.M{"slug": slug})
	return n > 0, err
}

func (h *BrandsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		filter := bson.M{}
		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			filter["category"] = cat
		}

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := h.brands.Find(ctx, filter, opts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Brand, 0)
		if err := cursor.All(ctx, &items); err != nil {
			c.Error(err)
			return
		}

		for i := range items {
			n, err := h.products.CountDocuments(ctx, bson.M{"brand": items[i].Name})
			if err != nil {
				c.Error(err)
				return
			}
			items[i].ProductCount = n
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func (h *BrandsHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateBrandDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Category = strings.TrimSpace(body.Category)

		ok, err := h.categoryExists(ctx, body.Category)
		if err != nil {
			c.Error(err)
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown category"})
			return
		}

		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
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

		doc := models.Brand{
			ID:       bson.NewObjectID(),
			Name:     body.Name,
			Slug:     slug,
			Status:   status,
			Category: body.Category,
			LogoURL:  body.LogoURL,
		}

		if _, err := h.brands.InsertOne(ctx, doc); err != nil {
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

func (h *BrandsHandler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid brand id"})
			return
		}

		var body dto.UpdateBrandDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		var current models.Brand
		if err := h.brands.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "brand not found"})
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
		if body.Category != nil {
			cat := strings.TrimSpace(*body.Category)
			ok, err := h.categoryExists(ctx, cat)
			if err != nil {
				c.Error(err)
				return
			}
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"message": "unknown category"})
				return
			}
			set["category"] = cat
		}
		if body.Status != nil {
			set["status"] = *body.Status
		}
		if body.LogoURL != nil {
			set["logoUrl"] = *body.LogoURL
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}

		res, err := h.brands.UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "slug already exists"})
				return
			}
			c.Error(err)
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "brand not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *BrandsHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid brand id"})
			return
		}

		res, err := h.brands.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.Error(err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "brand not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
