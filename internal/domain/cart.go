package domain

import (
	"strings"
	"time"
)

// MaxQuantityPerLine caps a single cart line regardless of stock.
const MaxQuantityPerLine = 100

const (
	ownerUserPrefix    = "user:"
	ownerSessionPrefix = "session:"
)

// UserOwner returns the cart owner key of an authenticated user.
func UserOwner(userID string) string {
	return ownerUserPrefix + userID
}

// SessionOwner returns the cart owner key of a guest session.
func SessionOwner(token string) string {
	return ownerSessionPrefix + token
}

// IsGuestOwner reports whether owner belongs to a guest session.
func IsGuestOwner(owner string) bool {
	return strings.HasPrefix(owner, ownerSessionPrefix)
}

// CartItem is one stored cart line.
type CartItem struct {
	ID            string    `json:"id"`
	OwnerKey      string    `json:"-"`
	ProductID     string    `json:"product_id"`
	SelectedSize  string    `json:"selected_size"`
	SelectedColor string    `json:"selected_color"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LineKey identifies a cart line within one owner's cart.
func (c CartItem) LineKey() string {
	return c.ProductID + "|" + VariantKey(c.SelectedSize, c.SelectedColor)
}

// CartLine is a cart item joined with the live product and variant data
// needed to price and validate it.
type CartLine struct {
	CartItem
	ProductName     string `json:"product_name"`
	ProductSlug     string `json:"product_slug"`
	ImageURL        string `json:"image_url,omitempty"`
	UnitPrice       int64  `json:"unit_price"`
	Available       int    `json:"available"`
	LineTotal       int64  `json:"line_total"`
	ProductActive   bool   `json:"-"`
	VariantRequired bool   `json:"-"`
	VariantFound    bool   `json:"-"`
	VariantActive   bool   `json:"-"`
}

// Purchasable reports whether the line refers to an active product and, for
// products with variants, an existing active variant.
func (l CartLine) Purchasable() bool {
	if !l.ProductActive {
		return false
	}
	if l.VariantRequired {
		return l.VariantFound && l.VariantActive
	}
	return true
}

// Cart is the priced view of an owner's cart.
type Cart struct {
	Items     []CartLine `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	ItemCount int        `json:"item_count"`
}

// NewCart computes line totals, the subtotal and the unit count.
func NewCart(lines []CartLine) *Cart {
	c := &Cart{Items: make([]CartLine, 0, len(lines))}
	for _, l := range lines {
		l.LineTotal = l.UnitPrice * int64(l.Quantity)
		c.Subtotal += l.LineTotal
		c.ItemCount += l.Quantity
		c.Items = append(c.Items, l)
	}
	return c
}

// LineCap is the most a line may hold given live stock.
func LineCap(available int) int {
	return max(0, min(available, MaxQuantityPerLine))
}

// ClampQuantity bounds requested to [0, LineCap(available)].
func ClampQuantity(requested, available int) int {
	return max(0, min(requested, LineCap(available)))
}

// MergeCarts re-keys guest lines onto the user's cart. A guest line matching
// a user line adds to it; others move. Every resulting quantity is clamped
// to available(line); lines that clamp to zero are omitted. The returned items
// carry absolute quantities for the user's owner key.
func MergeCarts(userOwner string, guest, user []CartItem, available func(CartItem) int) []CartItem {
	existing := make(map[string]CartItem, len(user))
	for _, u := range user {
		existing[u.LineKey()] = u
	}

	out := make([]CartItem, 0, len(guest))
	for _, g := range guest {
		merged := g
		merged.ID = ""
		if u, ok := existing[g.LineKey()]; ok {
			merged = u
			merged.Quantity = u.Quantity + g.Quantity
		}
		merged.OwnerKey = userOwner
		merged.Quantity = ClampQuantity(merged.Quantity, available(merged))
		if merged.Quantity == 0 {
			continue
		}
		existing[g.LineKey()] = merged
		out = append(out, merged)
	}
	return out
}

// AddToCartInput adds quantity units of a product variant.
type AddToCartInput struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	SelectedSize  string `json:"selected_size" validate:"max=50"`
	SelectedColor string `json:"selected_color" validate:"max=50"`
	Quantity      int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

// UpdateCartItemInput sets an absolute quantity; zero removes the line.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=100"`
}

// Checkout issue kinds.
const (
	IssueUnavailable       = "unavailable"
	IssueInsufficientStock = "insufficient_stock"
)

// CheckoutIssue flags a cart line that cannot be bought as-is.
type CheckoutIssue struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Kind      string `json:"kind"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CheckoutSummary prices a cart against live stock and store settings.
type CheckoutSummary struct {
	Items    []CartLine      `json:"items"`
	Issues   []CheckoutIssue `json:"issues"`
	Subtotal int64           `json:"subtotal"`
	Shipping int64           `json:"shipping"`
	Tax      int64           `json:"tax"`
	Total    int64           `json:"total"`
	Currency string          `json:"currency"`
	Ready    bool            `json:"ready"`
}

// Summarize validates lines and computes totals. Lines with issues still
// count toward the subtotal so the customer sees what they asked for.
func Summarize(lines []CartLine, settings *StoreSettings) *CheckoutSummary {
	cart := NewCart(lines)
	s := &CheckoutSummary{
		Items:    cart.Items,
		Issues:   []CheckoutIssue{},
		Subtotal: cart.Subtotal,
		Currency: settings.Currency,
	}

	for _, l := range cart.Items {
		switch {
		case !l.Purchasable():
			s.Issues = append(s.Issues, CheckoutIssue{
				ItemID: l.ID, ProductID: l.ProductID, Kind: IssueUnavailable,
				Requested: l.Quantity,
			})
		case l.Quantity > l.Available:
			s.Issues = append(s.Issues, CheckoutIssue{
				ItemID: l.ID, ProductID: l.ProductID, Kind: IssueInsufficientStock,
				Requested: l.Quantity, Available: max(l.Available, 0),
			})
		}
	}

	s.Shipping = ShippingFee(s.Subtotal, len(cart.Items), settings)
	s.Tax = Tax(s.Subtotal, settings.TaxRatePercent)
	s.Total = s.Subtotal + s.Shipping + s.Tax
	s.Ready = len(cart.Items) > 0 && len(s.Issues) == 0
	return s
}
