package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

// DraftKind tags the scratch variant held by a session.
type DraftKind string

const (
	DraftKindProduct  DraftKind = "product"
	DraftKindAddress  DraftKind = "address"
	DraftKindStock    DraftKind = "stock"
	DraftKindQuantity DraftKind = "quantity"
	DraftKindCheckout DraftKind = "checkout"
)

// Draft is the scratch data of one in-progress flow.
type Draft interface {
	Kind() DraftKind
}

// ProductDraft collects the add-product flow.
type ProductDraft struct {
	MediaRef    string          `json:"media_ref,omitempty"`
	MediaKind   enums.MediaKind `json:"media_kind,omitempty"`
	Name        string          `json:"name,omitempty"`
	Price       int64           `json:"price"`
	Description string          `json:"description,omitempty"`
}

// AddressDraft marks the set-address flow; the address itself is the final input.
type AddressDraft struct{}

// StockDraft holds the product whose stock is being replaced.
type StockDraft struct {
	ProductID uuid.UUID `json:"product_id"`
}

// QuantityDraft holds the product being added to the cart.
type QuantityDraft struct {
	ProductID uuid.UUID `json:"product_id"`
}

// CheckoutDraft collects customer details during checkout.
type CheckoutDraft struct {
	Phone    string             `json:"phone,omitempty"`
	Delivery enums.DeliveryType `json:"delivery,omitempty"`
	Location string             `json:"location,omitempty"`
}

func (*ProductDraft) Kind() DraftKind  { return DraftKindProduct }
func (*AddressDraft) Kind() DraftKind  { return DraftKindAddress }
func (*StockDraft) Kind() DraftKind    { return DraftKindStock }
func (*QuantityDraft) Kind() DraftKind { return DraftKindQuantity }
func (*CheckoutDraft) Kind() DraftKind { return DraftKindCheckout }

type draftEnvelope struct {
	Kind DraftKind       `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func encodeDraft(d Draft) (*draftEnvelope, error) {
	if d == nil {
		return nil, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding %s draft: %w", d.Kind(), err)
	}
	return &draftEnvelope{Kind: d.Kind(), Data: data}, nil
}

func decodeDraft(env *draftEnvelope) (Draft, error) {
	if env == nil {
		return nil, nil
	}
	var d Draft
	switch env.Kind {
	case DraftKindProduct:
		d = &ProductDraft{}
	case DraftKindAddress:
		d = &AddressDraft{}
	case DraftKindStock:
		d = &StockDraft{}
	case DraftKindQuantity:
		d = &QuantityDraft{}
	case DraftKindCheckout:
		d = &CheckoutDraft{}
	default:
		return nil, fmt.Errorf("unknown draft kind %q", env.Kind)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, d); err != nil {
			return nil, fmt.Errorf("decoding %s draft: %w", env.Kind, err)
		}
	}
	return d, nil
}
