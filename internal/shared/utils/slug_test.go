package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Men's Shirt", "mens-shirt"},
		{"Hummingbird printed t-shirt", "hummingbird-printed-t-shirt"},
		{"  Home   Accessories ", "home-accessories"},
		{"The best is yet to come - Framed poster", "the-best-is-yet-to-come-framed-poster"},
		{"Café crème", "cafe-creme"},
		{"Nguyễn Nhật Ánh", "nguyen-nhat-anh"},
		{"--Already--slugged--", "already-slugged"},
		{"100% cotton!", "100-cotton"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateSlugIsIdempotent(t *testing.T) {
	for _, in := range []string{"Men's Shirt", "Mug The adventure begins", "Art"} {
		once := GenerateSlug(in)
		assert.Equal(t, once, GenerateSlug(once))
	}
}

func TestGenerateUniqueSlug(t *testing.T) {
	taken := map[string]bool{"mens-shirt": true, "mens-shirt-1": true}
	exists := func(_ context.Context, slug string) (bool, error) {
		return taken[slug], nil
	}

	got, err := GenerateUniqueSlug(context.Background(), "mens-shirt", exists)
	require.NoError(t, err)
	assert.Equal(t, "mens-shirt-2", got)

	got, err = GenerateUniqueSlug(context.Background(), "womens-shirt", exists)
	require.NoError(t, err)
	assert.Equal(t, "womens-shirt", got)
}

func TestGenerateUniqueSlugPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateUniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestLegacySlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mountain_fox_-_Vector_graphics", "mountain-fox-vector-graphics"},
		{"Hummingbird_printed_t-shirt", "hummingbird-printed-t-shirt"},
		{"Mug_The_best_is_yet_to_come", "mug-the-best-is-yet-to-come"},
		{"The_best_is_yet_to_come_-_Framed_poster", "the-best-is-yet-to-come-framed-poster"},
		{"__odd__name__", "odd-name"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LegacySlug(tt.in), tt.in)
	}
}

func TestQueryArgs(t *testing.T) {
	var args QueryArgs
	assert.Equal(t, "$1", args.Add("a"))
	assert.Equal(t, "$2", args.Add(2))
	assert.Equal(t, []any{"a", 2}, args.Values())
	assert.Equal(t, 2, args.Len())
}
