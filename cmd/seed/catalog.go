package main

import (
	"fmt"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/slug"
)

type categoryDef struct {
	name          string
	description   string
	subcategories []string
}

func (c categoryDef) slug() string { return slug.Generate(c.name) }

type productDef struct {
	name        string
	description string
	category    string // category slug
	subcategory string // subcategory slug, optional
	price       int64  // rupees
	original    int64  // rupees, 0 for none
	fabric      string
	sizes       []string
	colors      []string
	stock       int // product-level stock when there are no variants
	featured    bool
	bestseller  bool
	isNew       bool
}

func (p productDef) originalPrice() *int64 {
	if p.original == 0 {
		return nil
	}
	paise := p.original * 100
	return &paise
}

// variants expands the size and color labels into the variant matrix and
// gives each combination a small deterministic stock.
func (p productDef) variants() []domain.Variant {
	out := domain.RegenerateVariants(nil, p.sizes, p.colors)
	for i := range out {
		out[i].StockQuantity = 3 + (i*7)%9
	}
	return out
}

func (p productDef) imageURLs() []string {
	s := slug.Generate(p.name)
	return []string{
		fmt.Sprintf("https://picsum.photos/seed/%s-1/800/1000", s),
		fmt.Sprintf("https://picsum.photos/seed/%s-2/800/1000", s),
	}
}

var catalog = []categoryDef{
	{
		name:          "Sarees",
		description:   "Handwoven and printed sarees for every occasion.",
		subcategories: []string{"Banarasi", "Kanjeevaram", "Chiffon"},
	},
	{
		name:          "Lehengas",
		description:   "Bridal and festive lehenga cholis.",
		subcategories: []string{"Bridal", "Festive"},
	},
	{
		name:          "Kurtas & Kurtis",
		description:   "Everyday and occasion kurtas.",
		subcategories: []string{"Anarkali", "Straight"},
	},
	{
		name:          "Salwar Suits",
		description:   "Stitched and semi-stitched salwar kameez sets.",
		subcategories: []string{"Patiala", "Palazzo"},
	},
	{
		name:          "Dupattas",
		description:   "Statement dupattas and stoles.",
		subcategories: []string{"Phulkari", "Bandhani"},
	},
}

var (
	apparelSizes = []string{"S", "M", "L", "XL"}
	kurtaSizes   = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

var products = []productDef{
	{
		name:        "Banarasi Silk Saree with Zari Border",
		description: "Pure silk Banarasi saree with an intricate gold zari border and unstitched blouse piece.",
		category:    "sarees", subcategory: "banarasi",
		price: 12499, original: 15999, fabric: "Silk",
		colors:   []string{"Maroon", "Royal Blue", "Emerald"},
		featured: true, bestseller: true,
	},
	{
		name:        "Kanjeevaram Temple Border Saree",
		description: "Traditional Kanjeevaram weave with contrast temple border and rich pallu.",
		category:    "sarees", subcategory: "kanjeevaram",
		price: 18999, fabric: "Silk",
		colors:   []string{"Mustard", "Magenta"},
		featured: true,
	},
	{
		name:        "Printed Chiffon Saree",
		description: "Lightweight floral chiffon saree, easy to drape for daytime events.",
		category:    "sarees", subcategory: "chiffon",
		price: 2499, original: 3299, fabric: "Chiffon",
		colors: []string{"Peach", "Mint", "Lavender"},
		isNew:  true,
	},
	{
		name:        "Velvet Bridal Lehenga",
		description: "Heavily embroidered velvet lehenga with net dupatta and padded blouse.",
		category:    "lehengas", subcategory: "bridal",
		price: 45999, original: 52999, fabric: "Velvet",
		sizes: apparelSizes, colors: []string{"Red", "Wine"},
		featured: true,
	},
	{
		name:        "Mirror Work Festive Lehenga",
		description: "Georgette lehenga with mirror work and a flared kalidar skirt.",
		category:    "lehengas", subcategory: "festive",
		price: 8999, fabric: "Georgette",
		sizes: apparelSizes, colors: []string{"Yellow", "Pink", "Teal"},
		bestseller: true,
	},
	{
		name:        "Anarkali Kurta with Gota Patti",
		description: "Floor-length anarkali kurta with gota patti detailing on the yoke.",
		category:    "kurtas-and-kurtis", subcategory: "anarkali",
		price: 3299, original: 3999, fabric: "Rayon",
		sizes: kurtaSizes, colors: []string{"Navy", "Bottle Green"},
		bestseller: true,
	},
	{
		name:        "Block Print Straight Kurti",
		description: "Hand block printed cotton kurti with three-quarter sleeves.",
		category:    "kurtas-and-kurtis", subcategory: "straight",
		price: 1199, fabric: "Cotton",
		sizes: kurtaSizes,
		isNew: true,
	},
	{
		name:        "Patiala Salwar Suit Set",
		description: "Three-piece patiala set with embroidered kameez and chiffon dupatta.",
		category:    "salwar-suits", subcategory: "patiala",
		price: 2899, original: 3499, fabric: "Cotton Silk",
		sizes: apparelSizes, colors: []string{"Orange", "Sky Blue"},
	},
	{
		name:        "Palazzo Suit with Embroidered Yoke",
		description: "Straight kameez with wide-leg palazzo and printed dupatta.",
		category:    "salwar-suits", subcategory: "palazzo",
		price: 3499, fabric: "Georgette",
		sizes: apparelSizes, colors: []string{"Black", "Ivory"},
		isNew: true,
	},
	{
		name:        "Phulkari Embroidered Dupatta",
		description: "Hand embroidered phulkari dupatta in vibrant threadwork.",
		category:    "dupattas", subcategory: "phulkari",
		price: 1599, original: 1999, fabric: "Chanderi",
		stock:      25,
		bestseller: true,
	},
	{
		name:        "Bandhani Silk Dupatta",
		description: "Tie-dyed bandhani dupatta with tassel edging.",
		category:    "dupattas", subcategory: "bandhani",
		price: 1299, fabric: "Art Silk",
		colors: []string{"Red", "Green"},
	},
}
