package domain

import (
	"strings"
	"time"
)

// Variant is a (size, color) stock-bearing sub-record of a product. An absent
// dimension is stored as the empty string.
type Variant struct {
	ID              string    `json:"id,omitempty"`
	ProductID       string    `json:"product_id,omitempty"`
	Size            string    `json:"size"`
	Color           string    `json:"color"`
	StockQuantity   int       `json:"stock_quantity" validate:"gte=0"`
	PriceAdjustment int64     `json:"price_adjustment"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// Variant layouts, chosen from which dimensions are present.
const (
	LayoutMatrix = "matrix"
	LayoutList   = "list"
	LayoutNone   = "none"
)

// NoVariantsWarning is returned alongside LayoutNone.
const NoVariantsWarning = "product has no sizes or colors; product-level stock applies"

// VariantKey identifies a variant within its product.
func VariantKey(size, color string) string {
	return size + "|" + color
}

// Key returns the variant's size|color key.
func (v Variant) Key() string {
	return VariantKey(v.Size, v.Color)
}

// CleanLabels trims labels and drops empties and duplicates, keeping the
// first occurrence.
func CleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// RegenerateVariants rebuilds the variant list for the given size and color
// labels. Combinations present in existing keep their id, stock, price
// adjustment and active flag; new combinations start at zero stock, zero
// adjustment and active. Combinations whose label was removed are dropped.
//
// With both dimensions the result is colors-outer, sizes-inner. With one
// dimension there is one variant per label. With neither the result is empty.
func RegenerateVariants(existing []Variant, sizes, colors []string) []Variant {
	sizes = CleanLabels(sizes)
	colors = CleanLabels(colors)

	lookup := make(map[string]Variant, len(existing))
	for _, v := range existing {
		lookup[v.Key()] = v
	}

	build := func(size, color string) Variant {
		if v, ok := lookup[VariantKey(size, color)]; ok {
			v.Size, v.Color = size, color
			return v
		}
		return Variant{Size: size, Color: color, IsActive: true}
	}

	out := make([]Variant, 0, max(len(sizes), 1)*max(len(colors), 1))
	switch {
	case len(sizes) > 0 && len(colors) > 0:
		for _, c := range colors {
			for _, s := range sizes {
				out = append(out, build(s, c))
			}
		}
	case len(sizes) > 0:
		for _, s := range sizes {
			out = append(out, build(s, ""))
		}
	case len(colors) > 0:
		for _, c := range colors {
			out = append(out, build("", c))
		}
	}
	return out
}

// VariantOverride is an editor-supplied value for one size|color
// combination. Unset fields keep the stored value, or the default for a new
// combination.
type VariantOverride struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	VariantPatch
}

// Key returns the override's size|color key.
func (o VariantOverride) Key() string {
	return VariantKey(o.Size, o.Color)
}

// OverlayVariants returns base with every override applied to the variant
// with the same key. Overrides whose key is not in base are appended as new
// active variants so a following regeneration can pick them up.
func OverlayVariants(base []Variant, overrides []VariantOverride) []Variant {
	out := make([]Variant, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, v := range out {
		index[v.Key()] = i
	}
	for _, o := range overrides {
		o.Size = strings.TrimSpace(o.Size)
		o.Color = strings.TrimSpace(o.Color)
		i, ok := index[o.Key()]
		if !ok {
			i = len(out)
			index[o.Key()] = i
			out = append(out, Variant{Size: o.Size, Color: o.Color, IsActive: true})
		}
		o.Apply(&out[i])
	}
	return out
}

// VariantLayout reports how the admin editor should present the variants.
func VariantLayout(sizes, colors []string) string {
	hasSizes := len(CleanLabels(sizes)) > 0
	hasColors := len(CleanLabels(colors)) > 0
	switch {
	case hasSizes && hasColors:
		return LayoutMatrix
	case hasSizes || hasColors:
		return LayoutList
	default:
		return LayoutNone
	}
}

// TotalStock sums stock across variants.
func TotalStock(variants []Variant) int {
	total := 0
	for _, v := range variants {
		total += v.StockQuantity
	}
	return total
}

// FindVariant returns the variant with the given size and color.
func FindVariant(variants []Variant, size, color string) (Variant, bool) {
	key := VariantKey(size, color)
	for _, v := range variants {
		if v.Key() == key {
			return v, true
		}
	}
	return Variant{}, false
}

// ActiveVariants filters out inactive variants.
func ActiveVariants(variants []Variant) []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		if v.IsActive {
			out = append(out, v)
		}
	}
	return out
}

// VariantPatch is a partial update of one variant.
type VariantPatch struct {
	StockQuantity   *int   `json:"stock_quantity" validate:"omitempty,gte=0"`
	PriceAdjustment *int64 `json:"price_adjustment"`
	IsActive        *bool  `json:"is_active"`
}

// Apply copies the set fields onto v.
func (p VariantPatch) Apply(v *Variant) {
	if p.StockQuantity != nil {
		v.StockQuantity = *p.StockQuantity
	}
	if p.PriceAdjustment != nil {
		v.PriceAdjustment = *p.PriceAdjustment
	}
	if p.IsActive != nil {
		v.IsActive = *p.IsActive
	}
}
