package utils_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/novamart/novamartbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 20, utils.ParseIntDefault("", 20))
	assert.Equal(t, 20, utils.ParseIntDefault("abc", 20))
	assert.Equal(t, 3, utils.ParseIntDefault("3", 20))
	assert.Equal(t, -1, utils.ParseIntDefault("-1", 20))
}

func TestParseBoolQuery(t *testing.T) {
	b, err := utils.ParseBoolQuery("")
	assert.NoError(t, err)
	assert.Nil(t, b)

	b, err = utils.ParseBoolQuery("true")
	assert.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	_, err = utils.ParseBoolQuery("yes please")
	assert.Error(t, err)
}

func TestIsDuplicateKey_MessageFallback(t *testing.T) {
	err := fmt.Errorf("write exception: E11000 duplicate key error collection: novamart.products index: slug_1")
	assert.True(t, utils.IsDuplicateKey(err))

	assert.False(t, utils.IsDuplicateKey(fmt.Errorf("connection refused")))
	assert.False(t, utils.IsDuplicateKey(nil))
}

func TestNewOrderNumber(t *testing.T) {
	a := utils.NewOrderNumber()
	b := utils.NewOrderNumber()

	assert.True(t, strings.HasPrefix(a, "ORD-"))
	assert.Len(t, a, len("ORD-")+10)
	assert.NotEqual(t, a, b)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("hunter2-hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2-hunter2", hash)

	assert.NoError(t, utils.CheckPassword(hash, "hunter2-hunter2"))
	assert.Error(t, utils.CheckPassword(hash, "wrong-password"))
}

func TestTokenClaimsRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateAccessToken("64f0c2a9e1", "shopper@example.com", "user", utils.AccessTTL())
	require.NoError(t, err)

	claims, err := utils.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a9e1", claims.UserID)
	assert.Equal(t, "shopper@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	_, err = utils.ValidateToken(token, "other-secret")
	assert.Error(t, err)
}
