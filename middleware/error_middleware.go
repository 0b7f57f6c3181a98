package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/apperr"
	"github.com/novamart/novamartbackend/utils"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrorHandler is the single top-level classifier from the error taxonomy to
// HTTP. Controllers validate locally and respond early with precise
// statuses; everything else is attached via c.Error and lands here.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var status int
		var msg string
		switch {
		case utils.IsDuplicateKey(err):
			status, msg = http.StatusConflict, "duplicate value"
		case errors.Is(err, mongo.ErrNoDocuments):
			status, msg = http.StatusNotFound, "not found"
		default:
			status, msg = apperr.Status(err), apperr.Message(err)
		}

		if status == http.StatusInternalServerError {
			log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, gin.H{"message": msg})
	}
}
