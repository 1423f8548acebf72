package inventory

import (
	es "github.com/genesisdb/eventsourcing-demo"
)

// Movement kinds recorded in the audit trail.
const (
	MovementReceived = "received"
	MovementSold     = "sold"
	MovementAdjusted = "adjusted"
)

// Product is one catalog entry with its folded stock level. LowStock is
// derived and recomputed after every fold.
type Product struct {
	ProductID     string  `json:"productId"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Category      *string `json:"category"`
	UnitPrice     float64 `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	ReorderPoint  int     `json:"reorderPoint"`
	TotalReceived int     `json:"totalReceived"`
	TotalSold     int     `json:"totalSold"`
	LowStock      bool    `json:"lowStock"`
	AddedAt       string  `json:"addedAt"`
}

// Movement is one entry in the warehouse's stock audit trail. Sales record a
// negative quantity.
type Movement struct {
	ProductID string  `json:"productId"`
	Kind      string  `json:"kind"`
	Quantity  int     `json:"quantity"`
	Reference *string `json:"reference,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	At        string  `json:"at"`
}

// State is the warehouse snapshot folded from its stream.
type State struct {
	WarehouseID   string     `json:"warehouseId"`
	Name          string     `json:"name"`
	Location      *string    `json:"location"`
	Products      []Product  `json:"products"`
	Movements     []Movement `json:"movements"`
	TotalProducts int        `json:"totalProducts"`
	TotalValue    float64    `json:"totalValue"`
	LowStockCount int        `json:"lowStockCount"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

func (s *State) product(productID string) *Product {
	for i := range s.Products {
		if s.Products[i].ProductID == productID {
			return &s.Products[i]
		}
	}
	return nil
}

// LowStockProducts returns the products at or below their reorder point.
func (s *State) LowStockProducts() []Product {
	out := []Product{}
	for _, p := range s.Products {
		if p.LowStock {
			out = append(out, p)
		}
	}
	return out
}

// OutOfStockProducts returns the products with exactly no stock left.
// Negative levels show up as low stock, not out of stock.
func (s *State) OutOfStockProducts() []Product {
	out := []Product{}
	for _, p := range s.Products {
		if p.Quantity == 0 {
			out = append(out, p)
		}
	}
	return out
}

// Projection folds /warehouse/{warehouseId} streams. Stock events for
// unknown products are skipped. Adjustments apply their signed delta as
// recorded, stock levels are allowed to go negative.
var Projection = es.NewProjection(
	Domain, EventWarehouseCreated, "warehouseId",
	func(id string) State {
		return State{WarehouseID: id, Products: []Product{}, Movements: []Movement{}}
	},
	func(s *State) {
		s.TotalProducts = len(s.Products)
		s.TotalValue = 0
		s.LowStockCount = 0
		for i := range s.Products {
			p := &s.Products[i]
			p.LowStock = p.Quantity <= p.ReorderPoint
			s.TotalValue += float64(p.Quantity) * p.UnitPrice
			if p.LowStock {
				s.LowStockCount++
			}
		}
	},
	es.On(EventWarehouseCreated, func(s *State, e WarehouseCreated, _ *es.Envelope) {
		s.Name = e.Name
		s.Location = e.Location
		s.CreatedAt = e.CreatedAt
		s.UpdatedAt = e.CreatedAt
	}),
	es.On(EventProductAdded, func(s *State, e ProductAdded, _ *es.Envelope) {
		if s.product(e.ProductID) != nil {
			return
		}
		s.Products = append(s.Products, Product{
			ProductID:    e.ProductID,
			SKU:          e.SKU,
			Name:         e.Name,
			Category:     e.Category,
			UnitPrice:    e.UnitPrice,
			ReorderPoint: e.ReorderPoint,
			AddedAt:      e.AddedAt,
		})
		s.UpdatedAt = e.AddedAt
	}),
	es.On(EventStockReceived, func(s *State, e StockReceived, _ *es.Envelope) {
		// The movement log is warehouse-level; only the counters need the
		// product to exist.
		if p := s.product(e.ProductID); p != nil {
			p.Quantity += e.Quantity
			p.TotalReceived += e.Quantity
		}
		s.Movements = append(s.Movements, Movement{
			ProductID: e.ProductID,
			Kind:      MovementReceived,
			Quantity:  e.Quantity,
			Reference: e.Reference,
			At:        e.ReceivedAt,
		})
		s.UpdatedAt = e.ReceivedAt
	}),
	es.On(EventStockSold, func(s *State, e StockSold, _ *es.Envelope) {
		if p := s.product(e.ProductID); p != nil {
			p.Quantity -= e.Quantity
			p.TotalSold += e.Quantity
		}
		s.Movements = append(s.Movements, Movement{
			ProductID: e.ProductID,
			Kind:      MovementSold,
			Quantity:  -e.Quantity,
			Reference: e.Reference,
			At:        e.SoldAt,
		})
		s.UpdatedAt = e.SoldAt
	}),
	es.On(EventStockAdjusted, func(s *State, e StockAdjusted, _ *es.Envelope) {
		if p := s.product(e.ProductID); p != nil {
			p.Quantity += e.Adjustment
		}
		s.Movements = append(s.Movements, Movement{
			ProductID: e.ProductID,
			Kind:      MovementAdjusted,
			Quantity:  e.Adjustment,
			Reason:    e.Reason,
			Notes:     e.Notes,
			At:        e.AdjustedAt,
		})
		s.UpdatedAt = e.AdjustedAt
	}),
	es.On(EventReorderPointSet, func(s *State, e ReorderPointSet, _ *es.Envelope) {
		p := s.product(e.ProductID)
		if p == nil {
			return
		}
		p.ReorderPoint = e.ReorderPoint
		s.UpdatedAt = e.SetAt
	}),
)
