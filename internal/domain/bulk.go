package domain

// Bulk actions on products.
const (
	BulkActivate         = "activate"
	BulkDeactivate       = "deactivate"
	BulkFeature          = "feature"
	BulkUnfeature        = "unfeature"
	BulkMarkBestseller   = "mark_bestseller"
	BulkUnmarkBestseller = "unmark_bestseller"
	BulkMarkNew          = "mark_new"
	BulkUnmarkNew        = "unmark_new"
	BulkDelete           = "delete"
)

// MaxBulkIDs caps the number of rows one bulk request may touch.
const MaxBulkIDs = 100

// BulkInput is the body of a bulk admin request.
type BulkInput struct {
	IDs    []string `json:"ids" validate:"required,min=1,max=100,unique,dive,uuid"`
	Action string   `json:"action" validate:"required"`
}

// BulkResult reports how many rows a bulk action touched.
type BulkResult struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

// BulkFlagUpdate describes the single column a non-delete bulk action sets.
type BulkFlagUpdate struct {
	Column string
	Value  bool
}

var productBulkFlags = map[string]BulkFlagUpdate{
	BulkActivate:         {"is_active", true},
	BulkDeactivate:       {"is_active", false},
	BulkFeature:          {"is_featured", true},
	BulkUnfeature:        {"is_featured", false},
	BulkMarkBestseller:   {"is_bestseller", true},
	BulkUnmarkBestseller: {"is_bestseller", false},
	BulkMarkNew:          {"is_new", true},
	BulkUnmarkNew:        {"is_new", false},
}

var categoryBulkFlags = map[string]BulkFlagUpdate{
	BulkActivate:   {"is_active", true},
	BulkDeactivate: {"is_active", false},
}

// ProductBulkFlag returns the column update for a product bulk action.
// Delete and unknown actions report false.
func ProductBulkFlag(action string) (BulkFlagUpdate, bool) {
	u, ok := productBulkFlags[action]
	return u, ok
}

// CategoryBulkFlag returns the column update for a category bulk action.
func CategoryBulkFlag(action string) (BulkFlagUpdate, bool) {
	u, ok := categoryBulkFlags[action]
	return u, ok
}

// ValidProductBulkAction reports whether action is accepted for products.
func ValidProductBulkAction(action string) bool {
	_, ok := productBulkFlags[action]
	return ok || action == BulkDelete
}

// ValidCategoryBulkAction reports whether action is accepted for categories.
func ValidCategoryBulkAction(action string) bool {
	_, ok := categoryBulkFlags[action]
	return ok || action == BulkDelete
}
