// Package inventory implements the warehouse demo domain: product catalog,
// stock movements and reorder points folded from a /warehouse/{warehouseId}
// stream.
package inventory

// Domain is the subject prefix for warehouse streams.
const Domain = "warehouse"

// Event types recorded for a warehouse.
const (
	EventWarehouseCreated = "io.genesisdb.demo.warehouse-created"
	EventProductAdded     = "io.genesisdb.demo.product-added"
	EventStockReceived    = "io.genesisdb.demo.stock-received"
	EventStockSold        = "io.genesisdb.demo.stock-sold"
	EventStockAdjusted    = "io.genesisdb.demo.stock-adjusted"
	EventReorderPointSet  = "io.genesisdb.demo.reorder-point-set"
)

// Adjustment reasons accepted by adjust-stock.
const (
	ReasonDamaged    = "damaged"
	ReasonLost       = "lost"
	ReasonFound      = "found"
	ReasonCorrection = "correction"
	ReasonOther      = "other"
)

type WarehouseCreated struct {
	WarehouseID string  `json:"warehouseId"`
	Name        string  `json:"name"`
	Location    *string `json:"location"`
	CreatedAt   string  `json:"createdAt"`
}

type ProductAdded struct {
	WarehouseID  string  `json:"warehouseId"`
	ProductID    string  `json:"productId"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	UnitPrice    float64 `json:"unitPrice"`
	ReorderPoint int     `json:"reorderPoint"`
	AddedAt      string  `json:"addedAt"`
}

type StockReceived struct {
	WarehouseID string  `json:"warehouseId"`
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Reference   *string `json:"reference"`
	ReceivedAt  string  `json:"receivedAt"`
}

type StockSold struct {
	WarehouseID string  `json:"warehouseId"`
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Reference   *string `json:"reference"`
	SoldAt      string  `json:"soldAt"`
}

type StockAdjusted struct {
	WarehouseID string  `json:"warehouseId"`
	ProductID   string  `json:"productId"`
	Adjustment  int     `json:"adjustment"`
	Reason      string  `json:"reason"`
	Notes       *string `json:"notes"`
	AdjustedAt  string  `json:"adjustedAt"`
}

type ReorderPointSet struct {
	WarehouseID  string `json:"warehouseId"`
	ProductID    string `json:"productId"`
	ReorderPoint int    `json:"reorderPoint"`
	SetAt        string `json:"setAt"`
}
