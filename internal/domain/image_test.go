package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaries(images []ProductImage) []string {
	var ids []string
	for _, img := range images {
		if img.IsPrimary {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func TestNormalizePrimary(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		images []ProductImage
		want   []string
	}{
		{
			name: "none flagged picks first by sort order",
			images: []ProductImage{
				{ID: "b", SortOrder: 1},
				{ID: "a", SortOrder: 0},
			},
			want: []string{"a"},
		},
		{
			name: "several flagged keeps the first",
			images: []ProductImage{
				{ID: "a", SortOrder: 0},
				{ID: "b", SortOrder: 1, IsPrimary: true},
				{ID: "c", SortOrder: 2, IsPrimary: true},
			},
			want: []string{"b"},
		},
		{
			name: "ties broken by creation time",
			images: []ProductImage{
				{ID: "late", CreatedAt: t0.Add(time.Minute)},
				{ID: "early", CreatedAt: t0},
			},
			want: []string{"early"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePrimary(tt.images)
			assert.Equal(t, tt.want, primaries(got))
		})
	}

	assert.Empty(t, NormalizePrimary(nil))
}

func TestSetPrimary(t *testing.T) {
	images := []ProductImage{
		{ID: "a", IsPrimary: true},
		{ID: "b"},
		{ID: "c", IsPrimary: true},
	}

	got, ok := SetPrimary(images, "b")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, primaries(got))
	assert.True(t, images[0].IsPrimary, "input must not be mutated")

	_, ok = SetPrimary(images, "missing")
	assert.False(t, ok)
}

func TestPrimaryImage(t *testing.T) {
	_, ok := PrimaryImage(nil)
	assert.False(t, ok)

	img, ok := PrimaryImage([]ProductImage{{ID: "a"}, {ID: "b", IsPrimary: true}})
	assert.True(t, ok)
	assert.Equal(t, "b", img.ID)
}

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/webp")
	assert.True(t, ok)
	assert.Equal(t, ".webp", ext)

	_, ok = ImageExtension("image/svg+xml")
	assert.False(t, ok)
}
