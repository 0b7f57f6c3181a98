package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/novamart/novamartbackend/controllers"
	"github.com/novamart/novamartbackend/database"
	"github.com/novamart/novamartbackend/middleware"
	"github.com/novamart/novamartbackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx := context.Background()

	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}
	if err := utils.SeedAdminUser(ctx, db.Collection("users")); err != nil {
		log.Fatal(err)
	}

	images, err := utils.NewImageStore(ctx)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())

	auth := controllers.NewAuthHandler(db)
	products := controllers.NewProductsHandler(db, images, utils.NewImageValidator())
	categories := controllers.NewCategoriesHandler(db)
	brands := controllers.NewBrandsHandler(db)
	cart := controllers.NewCartHandler(db)
	orders := controllers.NewOrdersHandler(db)
	addresses := controllers.NewAddressesHandler(db)
	users := controllers.NewUsersHandler(db)
	analytics := controllers.NewAnalyticsHandler(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	api.POST("/auth/register", auth.Register())
	api.POST("/auth/login", auth.Login())
	api.POST("/auth/refresh", auth.Refresh())
	api.POST("/auth/logout", auth.Logout())

	api.GET("/products", products.List())
	api.GET("/products/:slug", products.GetBySlug())
	api.GET("/categories", categories.List())
	api.GET("/brands", brands.List())

	user := api.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/auth/me", auth.Me())
		user.POST("/auth/password", auth.ChangeMyPassword())

		user.GET("/cart", cart.Get())
		user.POST("/cart/items", cart.AddItem())
		user.PUT("/cart/items/:itemId", cart.UpdateItem())
		user.DELETE("/cart/items/:itemId", cart.RemoveItem())
		user.DELETE("/cart/clear", cart.Clear())

		user.POST("/orders", orders.Create())
		user.GET("/orders", orders.ListMine())
		user.GET("/orders/:id", orders.GetMine())

		user.GET("/addresses", addresses.List())
		user.POST("/addresses", addresses.Create())
		user.PUT("/addresses/:id", addresses.Update())
		user.DELETE("/addresses/:id", addresses.Delete())
	}

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("/products", products.Create())
		admin.PUT("/products/:id", products.Update())
		admin.DELETE("/products/:id", products.Delete())

		admin.POST("/categories", categories.Create())
		admin.PUT("/categories/:id", categories.Update())
		admin.DELETE("/categories/:id", categories.Delete())

		admin.POST("/brands", brands.Create())
		admin.PUT("/brands/:id", brands.Update())
		admin.DELETE("/brands/:id", brands.Delete())

		admin.GET("/admin/orders", orders.AdminList())
		admin.PUT("/admin/orders/:id", orders.AdminUpdate())
		admin.DELETE("/admin/orders/:id", orders.AdminDelete())
		admin.POST("/admin/orders/:id/notes", orders.AdminAddNote())

		admin.GET("/admin/users", users.AdminList())
		admin.PUT("/admin/users/:id", users.AdminUpdate())

		admin.GET("/admin/analytics", analytics.Dashboard())
	}

	r.Run()
}
