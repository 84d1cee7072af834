package session

import "fmt"

// Step is the user's position inside a multi-message dialog.
type Step string

const (
	StepNone                   Step = "none"
	StepAwaitingPhoto          Step = "awaiting_photo"
	StepAwaitingName           Step = "awaiting_name"
	StepAwaitingPrice          Step = "awaiting_price"
	StepAwaitingDesc           Step = "awaiting_desc"
	StepAwaitingStock          Step = "awaiting_stock"
	StepAwaitingNewAddress     Step = "awaiting_new_address"
	StepAwaitingNewStockQty    Step = "awaiting_new_stock_qty"
	StepAwaitingQuantity       Step = "awaiting_quantity"
	StepAwaitingPhone          Step = "awaiting_phone"
	StepAwaitingDeliveryChoice Step = "awaiting_delivery_choice"
	StepAwaitingLocation       Step = "awaiting_location"
	StepAwaitingReceipt        Step = "awaiting_receipt"
)

// draft kind each step carries; StepNone carries none.
var stepDrafts = map[Step]DraftKind{
	StepNone:                   "",
	StepAwaitingPhoto:          DraftKindProduct,
	StepAwaitingName:           DraftKindProduct,
	StepAwaitingPrice:          DraftKindProduct,
	StepAwaitingDesc:           DraftKindProduct,
	StepAwaitingStock:          DraftKindProduct,
	StepAwaitingNewAddress:     DraftKindAddress,
	StepAwaitingNewStockQty:    DraftKindStock,
	StepAwaitingQuantity:       DraftKindQuantity,
	StepAwaitingPhone:          DraftKindCheckout,
	StepAwaitingDeliveryChoice: DraftKindCheckout,
	StepAwaitingLocation:       DraftKindCheckout,
	StepAwaitingReceipt:        DraftKindCheckout,
}

func (s Step) String() string {
	return string(s)
}

func (s Step) IsValid() bool {
	_, ok := stepDrafts[s]
	return ok
}

// IsIdle reports whether no flow is in progress. The empty value counts as idle.
func (s Step) IsIdle() bool {
	return s == StepNone || s == ""
}

// DraftKind is the scratch variant a session at this step must hold.
func (s Step) DraftKind() DraftKind {
	return stepDrafts[s]
}

// IsNumeric reports whether the step only accepts digit-only text.
func (s Step) IsNumeric() bool {
	switch s {
	case StepAwaitingPrice, StepAwaitingStock, StepAwaitingNewStockQty, StepAwaitingQuantity:
		return true
	}
	return false
}

// ParseStep converts raw input into a Step.
func ParseStep(value string) (Step, error) {
	s := Step(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid session step %q", value)
	}
	return s, nil
}
