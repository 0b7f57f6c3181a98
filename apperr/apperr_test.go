package apperr_test

import (
	"fmt"
	"testing"

	"github.com/novamart/novamartbackend/apperr"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("name is required"), 400},
		{apperr.Duplicate("slug already exists"), 409},
		{apperr.NotFound("product not found"), 404},
		{apperr.Auth("missing token"), 401},
		{apperr.Forbidden("admin access required"), 403},
		{fmt.Errorf("socket closed"), 500},
		{apperr.Wrap(apperr.KindUnhandled, fmt.Errorf("socket closed")), 500},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, apperr.Status(tc.err), "error %v", tc.err)
	}
}

func TestStatusSeesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("creating product: %w", apperr.Duplicate("slug already exists"))
	assert.Equal(t, 409, apperr.Status(err))
}

func TestMessageSuppressesInternals(t *testing.T) {
	assert.Equal(t, "order total is required", apperr.Message(apperr.Validation("order total is required")))
	assert.Equal(t, "Server error", apperr.Message(fmt.Errorf("dial tcp 10.0.0.3: timeout")))
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("no documents")
	err := apperr.Wrap(apperr.KindNotFound, inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "no documents", err.Error())
}
