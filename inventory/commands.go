package inventory

import (
	"context"

	es "github.com/genesisdb/eventsourcing-demo"
)

type CreateWarehouseInput struct {
	WarehouseID string  `json:"warehouseId" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Location    *string `json:"location" validate:"omitempty,min=1"`
}

type AddProductInput struct {
	WarehouseID  string  `json:"warehouseId" validate:"required,uuid"`
	ProductID    string  `json:"productId" validate:"required,min=1"`
	SKU          string  `json:"sku" validate:"required,min=1,max=50"`
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Category     *string `json:"category" validate:"omitempty,min=1"`
	UnitPrice    float64 `json:"unitPrice" validate:"gt=0"`
	ReorderPoint *int    `json:"reorderPoint" validate:"required,gte=0"`
}

// SetDefaults fills the optional reorder point with 10 when omitted.
func (in *AddProductInput) SetDefaults() {
	if in.ReorderPoint == nil {
		def := 10
		in.ReorderPoint = &def
	}
}

type ReceiveStockInput struct {
	WarehouseID string  `json:"warehouseId" validate:"required,uuid"`
	ProductID   string  `json:"productId" validate:"required,min=1"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Reference   *string `json:"reference" validate:"omitempty,min=1"`
}

type SellStockInput struct {
	WarehouseID string  `json:"warehouseId" validate:"required,uuid"`
	ProductID   string  `json:"productId" validate:"required,min=1"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Reference   *string `json:"reference" validate:"omitempty,min=1"`
}

type AdjustStockInput struct {
	WarehouseID string  `json:"warehouseId" validate:"required,uuid"`
	ProductID   string  `json:"productId" validate:"required,min=1"`
	Adjustment  int     `json:"adjustment"`
	Reason      string  `json:"reason" validate:"required,oneof=damaged lost found correction other"`
	Notes       *string `json:"notes" validate:"omitempty,min=1"`
}

type SetReorderPointInput struct {
	WarehouseID  string `json:"warehouseId" validate:"required,uuid"`
	ProductID    string `json:"productId" validate:"required,min=1"`
	ReorderPoint int    `json:"reorderPoint" validate:"gte=0"`
}

// Register wires every inventory command into the registry.
func Register(reg *es.Registry, store es.Store) {
	reg.Register("create-warehouse", es.NewHandler(store, func(ctx context.Context, in CreateWarehouseInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventWarehouseCreated, WarehouseCreated{
			WarehouseID: in.WarehouseID,
			Name:        in.Name,
			Location:    in.Location,
			CreatedAt:   es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectIsNew(subject)}, nil
	}))

	reg.Register("add-product", es.NewHandler(store, func(ctx context.Context, in AddProductInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventProductAdded, ProductAdded{
			WarehouseID:  in.WarehouseID,
			ProductID:    in.ProductID,
			SKU:          in.SKU,
			Name:         in.Name,
			Category:     in.Category,
			UnitPrice:    in.UnitPrice,
			ReorderPoint: *in.ReorderPoint,
			AddedAt:      es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("receive-stock", es.NewHandler(store, func(ctx context.Context, in ReceiveStockInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventStockReceived, StockReceived{
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			ReceivedAt:  es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("sell-stock", es.NewHandler(store, func(ctx context.Context, in SellStockInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventStockSold, StockSold{
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			SoldAt:      es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("adjust-stock", es.NewHandler(store, func(ctx context.Context, in AdjustStockInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventStockAdjusted, StockAdjusted{
			WarehouseID: in.WarehouseID,
			ProductID:   in.ProductID,
			Adjustment:  in.Adjustment,
			Reason:      in.Reason,
			Notes:       in.Notes,
			AdjustedAt:  es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("set-reorder-point", es.NewHandler(store, func(ctx context.Context, in SetReorderPointInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.WarehouseID)
		env, err := es.NewEnvelope(subject, EventReorderPointSet, ReorderPointSet{
			WarehouseID:  in.WarehouseID,
			ProductID:    in.ProductID,
			ReorderPoint: in.ReorderPoint,
			SetAt:        es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))
}
