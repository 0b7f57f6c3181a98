package utils_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/novamart/novamartbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"iPhone 15", "iphone-15"},
		{"  Déjà Vu  ", "deja-vu"},
		{"Electronics & Gadgets", "electronics-gadgets"},
		{"--Already--Slugged--", "already-slugged"},
		{"UPPER_case.mixed", "upper-case-mixed"},
		{"100% Cotton T-Shirt (Blue)", "100-cotton-t-shirt-blue"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.Slugify(tc.in), "input %q", tc.in)
	}
}

// memChecker simulates a collection: taken slugs live in a set.
func memChecker(taken map[string]bool) utils.SlugExistsFunc {
	return func(_ context.Context, slug string) (bool, error) {
		return taken[slug], nil
	}
}

func TestUniqueSlug_ProbeSequence(t *testing.T) {
	ctx := context.Background()
	taken := map[string]bool{}

	// N creations with the same base name must yield base, base-1, base-2, ...
	for i := 0; i < 5; i++ {
		slug, err := utils.UniqueSlug(ctx, "iPhone 15", memChecker(taken))
		require.NoError(t, err)

		if i == 0 {
			assert.Equal(t, "iphone-15", slug)
		} else {
			assert.Equal(t, fmt.Sprintf("iphone-15-%d", i), slug)
		}

		assert.False(t, taken[slug], "slug %q must not collide", slug)
		taken[slug] = true
	}
}

func TestUniqueSlug_SelfUpdateKeepsSlug(t *testing.T) {
	ctx := context.Background()

	// Checker that excludes the document's own slug, the way controllers
	// filter out the document id on update.
	ownSlug := "iphone-15"
	checker := func(_ context.Context, slug string) (bool, error) {
		return slug != ownSlug && map[string]bool{"iphone-15-1": true}[slug], nil
	}

	slug, err := utils.UniqueSlug(ctx, "iPhone 15", checker)
	require.NoError(t, err)
	assert.Equal(t, "iphone-15", slug)
}

func TestUniqueSlug_ChecksErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("connection reset")
	checker := func(_ context.Context, _ string) (bool, error) { return false, boom }

	_, err := utils.UniqueSlug(ctx, "anything", checker)
	assert.ErrorIs(t, err, boom)
}

func TestUniqueSlug_EmptyNameFallsBack(t *testing.T) {
	ctx := context.Background()
	slug, err := utils.UniqueSlug(ctx, "!!!", memChecker(nil))
	require.NoError(t, err)
	assert.Equal(t, "item", slug)
}
