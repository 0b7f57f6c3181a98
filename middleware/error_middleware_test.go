package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/novamart/novamartbackend/apperr"
	"github.com/novamart/novamartbackend/middleware"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_TaxonomyMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{apperr.Validation("quantity must be positive"), 400, `{"message":"quantity must be positive"}`},
		{apperr.NotFound("cart not found"), 404, `{"message":"cart not found"}`},
		{apperr.Forbidden("admin access required"), 403, `{"message":"admin access required"}`},
		{mongo.ErrNoDocuments, 404, `{"message":"not found"}`},
		{fmt.Errorf("E11000 duplicate key error collection: novamart.categories"), 409, `{"message":"duplicate value"}`},
		{fmt.Errorf("dial tcp: connection refused"), 500, `{"message":"Server error"}`},
	}

	for _, tc := range cases {
		w := performWithError(t, tc.err)
		assert.Equal(t, tc.wantStatus, w.Code, "error %v", tc.err)
		assert.JSONEq(t, tc.wantBody, w.Body.String(), "error %v", tc.err)
	}
}

func TestErrorHandler_DoesNotOverrideWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/half", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "explicit"})
		c.Error(fmt.Errorf("late failure"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/half", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"explicit"}`, w.Body.String())
}
