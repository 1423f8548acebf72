package cart

import (
	"context"

	es "github.com/genesisdb/eventsourcing-demo"
)

type CreateCartInput struct {
	CartID string  `json:"cartId" validate:"required,uuid"`
	UserID *string `json:"userId" validate:"omitempty,min=1"`
}

type AddItemInput struct {
	CartID      string  `json:"cartId" validate:"required,uuid"`
	ProductID   string  `json:"productId" validate:"required,min=1"`
	ProductName string  `json:"productName" validate:"required,min=1,max=200"`
	Price       float64 `json:"price" validate:"gt=0"`
	Quantity    *int    `json:"quantity" validate:"required,gt=0"`
}

// SetDefaults fills the optional quantity with 1 when omitted.
func (in *AddItemInput) SetDefaults() {
	if in.Quantity == nil {
		one := 1
		in.Quantity = &one
	}
}

type RemoveItemInput struct {
	CartID    string `json:"cartId" validate:"required,uuid"`
	ProductID string `json:"productId" validate:"required,min=1"`
}

type ChangeQuantityInput struct {
	CartID    string `json:"cartId" validate:"required,uuid"`
	ProductID string `json:"productId" validate:"required,min=1"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type ClearCartInput struct {
	CartID string `json:"cartId" validate:"required,uuid"`
}

type CheckoutCartInput struct {
	CartID          string          `json:"cartId" validate:"required,uuid"`
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
}

// Register wires every cart command into the registry. Creation guards the
// stream with a subject-is-new precondition; every mutation requires the
// stream to already exist.
func Register(reg *es.Registry, store es.Store) {
	reg.Register("create-cart", es.NewHandler(store, func(ctx context.Context, in CreateCartInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventCartCreated, CartCreated{
			CartID:    in.CartID,
			UserID:    in.UserID,
			CreatedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectIsNew(subject)}, nil
	}))

	reg.Register("add-item", es.NewHandler(store, func(ctx context.Context, in AddItemInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventItemAdded, ItemAdded{
			CartID:      in.CartID,
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Price:       in.Price,
			Quantity:    *in.Quantity,
			AddedAt:     es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("remove-item", es.NewHandler(store, func(ctx context.Context, in RemoveItemInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventItemRemoved, ItemRemoved{
			CartID:    in.CartID,
			ProductID: in.ProductID,
			RemovedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("change-quantity", es.NewHandler(store, func(ctx context.Context, in ChangeQuantityInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventItemQuantityChanged, ItemQuantityChanged{
			CartID:    in.CartID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			ChangedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("clear-cart", es.NewHandler(store, func(ctx context.Context, in ClearCartInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventCartCleared, CartCleared{
			CartID:    in.CartID,
			ClearedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("checkout-cart", es.NewHandler(store, func(ctx context.Context, in CheckoutCartInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.CartID)
		env, err := es.NewEnvelope(subject, EventCartCheckedOut, CartCheckedOut{
			CartID:          in.CartID,
			ShippingAddress: in.ShippingAddress,
			CheckedOutAt:    es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))
}
