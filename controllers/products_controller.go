package controllers

import (
	"context"
	"encoding/json"
	"mime/multipart"
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

type ProductsHandler struct {
	products  *mongo.Collection
	images    utils.ImageStore
	validator *utils.FileValidator
}

func NewProductsHandler(db *mongo.Database, images utils.ImageStore, validator *utils.FileValidator) *ProductsHandler {
	return &ProductsHandler{
		products:  db.Collection("products"),
		images:    images,
		validator: validator,
	}
}

func (h *ProductsHandler) validateFiles(files []*multipart.FileHeader) error {
	for _, f := range files {
		if _, err := h.validator.ValidateFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (h *ProductsHandler) slugExists(excludeID *bson.ObjectID) utils.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		filter := bson.M{"slug": slug}
		if excludeID != nil {
			filter["_id"] = bson.M{"$ne": *excludeID}
		}
		n, err := h.products.CountDocuments(ctx, filter)
		return n > 0, err
	}
}

func (h *ProductsHandler) List() gin.HandlerFunc {
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
		skip := int64((page - 1) * limit)

		sortParam := strings.TrimSpace(c.Query("sort"))
		sortDoc := bson.D{{Key: "title", Value: 1}}
		switch sortParam {
		case "price_asc":
			sortDoc = bson.D{{Key: "price", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "price", Value: -1}}
		case "newest":
			sortDoc = bson.D{{Key: "createdAt", Value: -1}}
		case "rating":
			sortDoc = bson.D{{Key: "rating.average", Value: -1}}
		}

		filter := bson.M{}
		if slug := strings.TrimSpace(c.Query("category")); slug != "" {
			filter["category"] = slug
		}
		if brand := strings.TrimSpace(c.Query("brand")); brand != "" {
			filter["brand"] = brand
		}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		} else {
			filter["status"] = models.ProductStatusActive
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := h.products.Find(ctx, filter, findOpts)
		if err != nil {
			c.Error(err)
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.Error(err)
			return
		}

		total, err := h.products.CountDocuments(ctx, filter)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": products,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

func (h *ProductsHandler) GetBySlug() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		slug := strings.TrimSpace(c.Param("slug"))

		var p models.Product
		if err := h.products.FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// bindProductPayload reads the create/update payload from either a plain
// JSON body or the "data" field of a multipart form with image files.
func bindProductPayload(c *gin.Context, out any) ([]*multipart.FileHeader, bool) {
	ct := c.ContentType()
	if strings.HasPrefix(ct, "multipart/") {
		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "missing data"})
			return nil, false
		}
		if err := json.Unmarshal([]byte(jsonData), out); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid data json"})
			return nil, false
		}
		var files []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files = form.File["images"]
		}
		return files, true
	}

	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return nil, false
	}
	return nil, true
}

func variantsFromDTO(in []dto.VariantDTO) []models.Variant {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Variant, 0, len(in))
	for _, v := range in {
		out = append(out, models.Variant{
			SKU: v.SKU,
			Attributes: models.VariantAttributes{
				Color:   v.Attributes.Color,
				Storage: v.Attributes.Storage,
				RAM:     v.Attributes.RAM,
				Size:    v.Attributes.Size,
			},
			Price:  v.Price,
			MRP:    v.MRP,
			Stock:  v.Stock,
			Images: v.Images,
		})
	}
	return out
}

func specificationsFromDTO(in []dto.SpecificationDTO) []models.Specification {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Specification, 0, len(in))
	for _, s := range in {
		out = append(out, models.Specification{Key: s.Key, Value: s.Value})
	}
	return out
}

func (h *ProductsHandler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateProductDTO
		files, ok := bindProductPayload(c, &body)
		if !ok {
			return
		}
		if body.Title = strings.TrimSpace(body.Title); body.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
			return
		}
		if body.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "price must be positive"})
			return
		}

		slug := strings.TrimSpace(body.Slug)
		if slug == "" {
			var err error
			slug, err = utils.UniqueSlug(ctx, body.Title, h.slugExists(nil))
			if err != nil {
				c.Error(err)
				return
			}
		}

		images := body.Images
		if len(files) > 0 {
			if err := h.validateFiles(files); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			urls, err := h.images.UploadImages(ctx, "products/"+slug, files)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			images = append(images, urls...)
		}

		status := models.ProductStatus(body.Status)
		if status == "" {
			status = models.ProductStatusActive
		}

		now := time.Now().UTC()
		product := models.Product{
			ID:             bson.NewObjectID(),
			Title:          body.Title,
			Slug:           slug,
			Description:    body.Description,
			Price:          body.Price,
			MRP:            body.MRP,
			Discount:       models.DiscountPercent(body.Price, body.MRP),
			Category:       body.Category,
			Brand:          body.Brand,
			Stock:          body.Stock,
			Status:         status,
			Images:         images,
			Variants:       variantsFromDTO(body.Variants),
			Specifications: specificationsFromDTO(body.Specifications),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if _, err := h.products.InsertOne(ctx, product); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "slug already exists"})
				return
			}
			c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

func (h *ProductsHandler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		var body dto.UpdateProductDTO
		files, ok := bindProductPayload(c, &body)
		if !ok {
			return
		}

		var product models.Product
		if err := h.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "title cannot be empty"})
				return
			}
			set["title"] = title

			// Slug follows a title change only when no explicit slug came in.
			if body.Slug == nil && title != product.Title {
				slug, err := utils.UniqueSlug(ctx, title, h.slugExists(&id))
				if err != nil {
					c.Error(err)
					return
				}
				set["slug"] = slug
			}
		}
		if body.Slug != nil {
			slug := strings.TrimSpace(*body.Slug)
			if slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "slug cannot be empty"})
				return
			}
			set["slug"] = slug
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "price must be positive"})
				return
			}
			set["price"] = *body.Price
		}
		if body.MRP != nil {
			set["mrp"] = *body.MRP
		}
		if body.Price != nil || body.MRP != nil {
			price := product.Price
			mrp := product.MRP
			if body.Price != nil {
				price = *body.Price
			}
			if body.MRP != nil {
				mrp = *body.MRP
			}
			set["discount"] = models.DiscountPercent(price, mrp)
		}
		if body.Category != nil {
			set["category"] = *body.Category
		}
		if body.Brand != nil {
			set["brand"] = *body.Brand
		}
		if body.Stock != nil {
			set["stock"] = *body.Stock
		}
		if body.Status != nil {
			set["status"] = *body.Status
		}
		if body.Variants != nil {
			set["variants"] = variantsFromDTO(*body.Variants)
		}
		if body.Specifications != nil {
			set["specifications"] = specificationsFromDTO(*body.Specifications)
		}

		// Image changes: upload new files, drop removed urls.
		var newURLs []string
		if len(files) > 0 {
			if err := h.validateFiles(files); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			urls, err := h.images.UploadImages(ctx, "products/"+product.Slug, files)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			newURLs = urls
		}
		toRemove := intersectStrings(body.RemovedImagesUrls, product.Images)
		if len(toRemove) > 0 || len(newURLs) > 0 {
			set["images"] = mergeImageURLs(product.Images, toRemove, newURLs)
		}

		if len(set) == 1 { // only updatedAt
			c.JSON(http.StatusBadRequest, gin.H{"message": "no updates provided"})
			return
		}

		if _, err := h.products.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "slug already exists"})
				return
			}
			// New uploads are orphaned if the write failed; clean them up.
			if len(newURLs) > 0 {
				names := make([]string, 0, len(newURLs))
				for _, u := range newURLs {
					if n, err := h.images.ObjectNameFromURL(u); err == nil {
						names = append(names, n)
					}
				}
				_ = h.images.DeleteObjects(ctx, names)
			}
			c.Error(err)
			return
		}

		// Write went through; removed images can go from storage.
		if len(toRemove) > 0 {
			names := make([]string, 0, len(toRemove))
			for _, u := range toRemove {
				if n, err := h.images.ObjectNameFromURL(u); err == nil {
					names = append(names, n)
				}
			}
			_ = h.images.DeleteObjects(ctx, names)
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *ProductsHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		res, err := h.products.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.Error(err)
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func intersectStrings(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, x := range b {
		set[x] = struct{}{}
	}
	out := make([]string, 0)
	for _, x := range a {
		if _, ok := set[x]; ok {
			out = append(out, x)
		}
	}
	return out
}

func mergeImageURLs(oldURLs, toRemove, toAdd []string) []string {
	removeSet := make(map[string]struct{}, len(toRemove))
	for _, u := range toRemove {
		removeSet[u] = struct{}{}
	}

	final := make([]string, 0, len(oldURLs)+len(toAdd))
	exists := make(map[string]struct{})

	for _, u := range oldURLs {
		if _, shouldRemove := removeSet[u]; !shouldRemove {
			final = append(final, u)
			exists[u] = struct{}{}
		}
	}
	for _, u := range toAdd {
		if _, already := exists[u]; !already {
			final = append(final, u)
			exists[u] = struct{}{}
		}
	}
	return final
}
