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
)

type AuthHandler struct {
	users         *mongo.Collection
	refreshTokens *mongo.Collection
}

func NewAuthHandler(db *mongo.Database) *AuthHandler {
	return &AuthHandler{
		users:         db.Collection("users"),
		refreshTokens: db.Collection("refresh_tokens"),
	}
}

func (h *AuthHandler) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.Error(err)
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
			Status:       models.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := h.users.InsertOne(ctx, user); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
				return
			}
			c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

func (h *AuthHandler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		if err := h.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}

		if user.Status == models.UserStatusBlocked {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "account blocked"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.Error(err)
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.Error(err)
			return
		}

		now := time.Now().UTC()
		if _, err := h.refreshTokens.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: refreshToken,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		}); err != nil {
			c.Error(err)
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    refreshToken,
			Path:     "/api/auth",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode, // for cross-site
		})
		c.JSON(http.StatusOK, gin.H{
			"accessToken": accessToken,
			"user":        user,
		})
	}
}

func (h *AuthHandler) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		hash, err := c.Cookie("refreshToken")
		if err != nil || hash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing refresh token"})
			return
		}

		var rt models.RefreshToken
		err = h.refreshTokens.FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
			return
		}

		var user models.User
		if err := h.users.FindOne(ctx, bson.M{"_id": rt.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid user"})
			return
		}
		if user.Status == models.UserStatusBlocked {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "account blocked"})
			return
		}

		// Rotate refresh token
		newHash, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.Error(err)
			return
		}

		now := time.Now().UTC()
		if _, err := h.refreshTokens.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{
				"revokedAt":  now,
				"replacedBy": newHash,
			},
		}); err != nil {
			c.Error(err)
			return
		}

		if _, err := h.refreshTokens.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: newHash,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		}); err != nil {
			c.Error(err)
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.Error(err)
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    newHash,
			Path:     "/api/auth",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func (h *AuthHandler) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if hash, err := c.Cookie("refreshToken"); err == nil && hash != "" {
			_, _ = h.refreshTokens.UpdateOne(ctx,
				bson.M{"tokenHash": hash},
				bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}},
			)
		}

		utils.ClearRefreshCookie(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (h *AuthHandler) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var user models.User
		if err := h.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func (h *AuthHandler) ChangeMyPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		userID, err := currentUserID(c)
		if err != nil {
			c.Error(err)
			return
		}

		var user models.User
		if err := h.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid user"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.Error(err)
			return
		}

		if _, err := h.users.UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"passwordHash": newHash,
				"updatedAt":    time.Now().UTC(),
			},
		}); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
