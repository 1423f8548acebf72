package cart

import (
	es "github.com/genesisdb/eventsourcing-demo"
)

// Cart statuses.
const (
	StatusActive     = "active"
	StatusCheckedOut = "checked_out"
)

// Item is one line in the cart. Adding the same product again increments the
// quantity of the existing line instead of appending a duplicate.
type Item struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// State is the cart snapshot folded from its stream. TotalItems and
// TotalPrice are derived and recomputed after every fold.
type State struct {
	CartID          string           `json:"cartId"`
	UserID          *string          `json:"userId"`
	Items           []Item           `json:"items"`
	Status          string           `json:"status"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	CheckedOutAt    *string          `json:"checkedOutAt,omitempty"`
	TotalItems      int              `json:"totalItems"`
	TotalPrice      float64          `json:"totalPrice"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

func (s *State) item(productID string) *Item {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// Projection folds /cart/{cartId} streams. Events that reference a product
// no longer in the cart are skipped, the fold never fails.
var Projection = es.NewProjection(
	Domain, EventCartCreated, "cartId",
	func(id string) State {
		return State{CartID: id, Items: []Item{}, Status: StatusActive}
	},
	func(s *State) {
		s.TotalItems = 0
		s.TotalPrice = 0
		for _, it := range s.Items {
			s.TotalItems += it.Quantity
			s.TotalPrice += it.Price * float64(it.Quantity)
		}
	},
	es.On(EventCartCreated, func(s *State, e CartCreated, _ *es.Envelope) {
		s.UserID = e.UserID
		s.CreatedAt = e.CreatedAt
		s.UpdatedAt = e.CreatedAt
	}),
	es.On(EventItemAdded, func(s *State, e ItemAdded, _ *es.Envelope) {
		if it := s.item(e.ProductID); it != nil {
			it.Quantity += e.Quantity
		} else {
			s.Items = append(s.Items, Item{
				ProductID:   e.ProductID,
				ProductName: e.ProductName,
				Price:       e.Price,
				Quantity:    e.Quantity,
			})
		}
		s.UpdatedAt = e.AddedAt
	}),
	es.On(EventItemRemoved, func(s *State, e ItemRemoved, _ *es.Envelope) {
		for i := range s.Items {
			if s.Items[i].ProductID == e.ProductID {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
				break
			}
		}
		s.UpdatedAt = e.RemovedAt
	}),
	es.On(EventItemQuantityChanged, func(s *State, e ItemQuantityChanged, _ *es.Envelope) {
		if it := s.item(e.ProductID); it != nil {
			it.Quantity = e.Quantity
		}
		s.UpdatedAt = e.ChangedAt
	}),
	es.On(EventCartCleared, func(s *State, e CartCleared, _ *es.Envelope) {
		s.Items = []Item{}
		s.UpdatedAt = e.ClearedAt
	}),
	es.On(EventCartCheckedOut, func(s *State, e CartCheckedOut, _ *es.Envelope) {
		s.Status = StatusCheckedOut
		addr := e.ShippingAddress
		s.ShippingAddress = &addr
		at := e.CheckedOutAt
		s.CheckedOutAt = &at
		s.UpdatedAt = e.CheckedOutAt
	}),
)
