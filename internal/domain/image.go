package domain

import (
	"sort"
	"time"
)

// ProductImage is one image in a product gallery.
type ProductImage struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	URL        string    `json:"url"`
	AltText    string    `json:"alt_text"`
	SortOrder  int       `json:"sort_order"`
	IsPrimary  bool      `json:"is_primary"`
	StorageKey *string   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Upload limits for product images.
const MaxImageBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExtension returns the file extension for an accepted image content
// type, or false when the type is not accepted.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	return ext, ok
}

// SortImages orders images by sort order, then creation time.
func SortImages(images []ProductImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].SortOrder != images[j].SortOrder {
			return images[i].SortOrder < images[j].SortOrder
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
}

// NormalizePrimary returns a copy of images, sorted, with exactly one primary
// whenever the slice is non-empty: the first flagged image wins, or the first
// image when none is flagged.
func NormalizePrimary(images []ProductImage) []ProductImage {
	out := make([]ProductImage, len(images))
	copy(out, images)
	SortImages(out)
	if len(out) == 0 {
		return out
	}

	primary := 0
	for i, img := range out {
		if img.IsPrimary {
			primary = i
			break
		}
	}
	for i := range out {
		out[i].IsPrimary = i == primary
	}
	return out
}

// SetPrimary returns a copy of images where only the image with the given id
// is primary. It reports false, leaving images untouched, when id is unknown.
func SetPrimary(images []ProductImage, id string) ([]ProductImage, bool) {
	found := false
	for _, img := range images {
		if img.ID == id {
			found = true
			break
		}
	}
	if !found {
		return images, false
	}

	out := make([]ProductImage, len(images))
	copy(out, images)
	for i := range out {
		out[i].IsPrimary = out[i].ID == id
	}
	return out, true
}

// PrimaryImage returns the primary image, if any.
func PrimaryImage(images []ProductImage) (ProductImage, bool) {
	for _, img := range images {
		if img.IsPrimary {
			return img, true
		}
	}
	return ProductImage{}, false
}

// AddImageInput attaches an image by URL.
type AddImageInput struct {
	URL     string `json:"url" validate:"required,url,max=2048"`
	AltText string `json:"alt_text" validate:"max=255"`
}

// ImageOrderEntry is one row of a reorder request. Position in the list is
// the new sort order.
type ImageOrderEntry struct {
	ID        string `json:"id" validate:"required,uuid"`
	AltText   string `json:"alt_text" validate:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

// ReorderImagesInput replaces the order and primary flag of a product's images.
type ReorderImagesInput struct {
	Images []ImageOrderEntry `json:"images" validate:"required,min=1,max=100,dive"`
}
