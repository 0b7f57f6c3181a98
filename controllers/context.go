package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (bson.ObjectID, error) {
	val, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, apperr.Auth("missing auth context")
	}
	id, err := bson.ObjectIDFromHex(val.(string))
	if err != nil {
		return bson.ObjectID{}, apperr.Auth("invalid auth context")
	}
	return id, nil
}

func currentUserEmail(c *gin.Context) string {
	if val, ok := c.Get("email"); ok {
		return val.(string)
	}
	return ""
}
