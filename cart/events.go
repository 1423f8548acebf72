// Package cart implements the shopping-cart demo domain: commands that
// append facts to a /cart/{cartId} stream and the projection that folds
// them back into the current cart.
package cart

// Domain is the subject prefix for cart streams.
const Domain = "cart"

// Event types recorded for a cart.
const (
	EventCartCreated         = "io.genesisdb.demo.cart-created"
	EventItemAdded           = "io.genesisdb.demo.item-added"
	EventItemRemoved         = "io.genesisdb.demo.item-removed"
	EventItemQuantityChanged = "io.genesisdb.demo.item-quantity-changed"
	EventCartCleared         = "io.genesisdb.demo.cart-cleared"
	EventCartCheckedOut      = "io.genesisdb.demo.cart-checked-out"
)

// ShippingAddress is the delivery address captured at checkout.
type ShippingAddress struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CartCreated struct {
	CartID    string  `json:"cartId"`
	UserID    *string `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

type ItemAdded struct {
	CartID      string  `json:"cartId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	AddedAt     string  `json:"addedAt"`
}

type ItemRemoved struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	RemovedAt string `json:"removedAt"`
}

type ItemQuantityChanged struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	ChangedAt string `json:"changedAt"`
}

type CartCleared struct {
	CartID    string `json:"cartId"`
	ClearedAt string `json:"clearedAt"`
}

type CartCheckedOut struct {
	CartID          string          `json:"cartId"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CheckedOutAt    string          `json:"checkedOutAt"`
}
