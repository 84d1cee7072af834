package dialog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/idgen"
)

// Action is the verb of an inline-button payload.
type Action string

const (
	ActionSetAddress     Action = "set_addr"
	ActionEditStockList  Action = "edit_st"
	ActionEditStock      Action = "est"
	ActionDeleteList     Action = "del_prod"
	ActionDelete         Action = "del"
	ActionView           Action = "view"
	ActionAddToCart      Action = "add"
	ActionBack           Action = "back"
	ActionClearCart      Action = "clear"
	ActionCheckout       Action = "checkout"
	ActionPickup         Action = "pick"
	ActionDelivery       Action = "delivery"
	ActionPage           Action = "page"
	ActionOrders         Action = "orders"
	ActionOrdersByStatus Action = "ords"
	ActionOrder          Action = "ord"
	ActionSetStatus      Action = "st"
)

const (
	payloadSeparator = ":"
	// callback_data is limited to 64 bytes
	maxPayloadLen = 64
	maxPageIndex  = 100000
)

type argKind int

const (
	argNone argKind = iota
	argProduct
	argPage
	argStatus
	argOrder
	argOrderStatus
)

var actionArgs = map[Action]argKind{
	ActionSetAddress:     argNone,
	ActionEditStockList:  argPage,
	ActionEditStock:      argProduct,
	ActionDeleteList:     argPage,
	ActionDelete:         argProduct,
	ActionView:           argProduct,
	ActionAddToCart:      argProduct,
	ActionBack:           argNone,
	ActionClearCart:      argNone,
	ActionCheckout:       argNone,
	ActionPickup:         argNone,
	ActionDelivery:       argNone,
	ActionPage:           argPage,
	ActionOrders:         argNone,
	ActionOrdersByStatus: argStatus,
	ActionOrder:          argOrder,
	ActionSetStatus:      argOrderStatus,
}

// Payload is a decoded button press. Only the fields of its action's
// argument shape are set.
type Payload struct {
	Action    Action
	ProductID uuid.UUID
	Page      int
	OrderID   string
	Status    enums.OrderStatus
}

// Encode renders the payload as callback data.
func (p Payload) Encode() string {
	parts := []string{string(p.Action)}
	switch actionArgs[p.Action] {
	case argProduct:
		parts = append(parts, p.ProductID.String())
	case argPage:
		parts = append(parts, strconv.Itoa(p.Page))
	case argStatus:
		parts = append(parts, string(p.Status))
	case argOrder:
		parts = append(parts, p.OrderID)
	case argOrderStatus:
		parts = append(parts, p.OrderID, string(p.Status))
	}
	return strings.Join(parts, payloadSeparator)
}

// DecodePayload parses callback data. Anything malformed or unknown reports
// false and must be ignored by the caller.
func DecodePayload(raw string) (Payload, bool) {
	if raw == "" || len(raw) > maxPayloadLen {
		return Payload{}, false
	}
	parts := strings.Split(raw, payloadSeparator)
	action := Action(parts[0])
	kind, ok := actionArgs[action]
	if !ok {
		return Payload{}, false
	}
	args := parts[1:]
	p := Payload{Action: action}

	switch kind {
	case argNone:
		return p, len(args) == 0
	case argProduct:
		if len(args) != 1 {
			return Payload{}, false
		}
		id, err := uuid.Parse(args[0])
		if err != nil || id == uuid.Nil {
			return Payload{}, false
		}
		p.ProductID = id
	case argPage:
		if len(args) != 1 || !isDigits(args[0]) {
			return Payload{}, false
		}
		page, err := strconv.Atoi(args[0])
		if err != nil || page > maxPageIndex {
			return Payload{}, false
		}
		p.Page = page
	case argStatus:
		if len(args) != 1 {
			return Payload{}, false
		}
		status, err := enums.ParseOrderStatus(args[0])
		if err != nil {
			return Payload{}, false
		}
		p.Status = status
	case argOrder:
		if len(args) != 1 || !idgen.Valid(args[0]) {
			return Payload{}, false
		}
		p.OrderID = args[0]
	case argOrderStatus:
		if len(args) != 2 || !idgen.Valid(args[0]) {
			return Payload{}, false
		}
		status, err := enums.ParseOrderStatus(args[1])
		if err != nil {
			return Payload{}, false
		}
		p.OrderID = args[0]
		p.Status = status
	}
	return p, true
}

func simplePayload(action Action) Payload {
	return Payload{Action: action}
}

func productPayload(action Action, id uuid.UUID) Payload {
	return Payload{Action: action, ProductID: id}
}

func pagePayload(page int) Payload {
	return Payload{Action: ActionPage, Page: page}
}

func listPayload(action Action, page int) Payload {
	return Payload{Action: action, Page: page}
}

func statusPayload(status enums.OrderStatus) Payload {
	return Payload{Action: ActionOrdersByStatus, Status: status}
}

func orderPayload(id string) Payload {
	return Payload{Action: ActionOrder, OrderID: id}
}

func transitionPayload(id string, status enums.OrderStatus) Payload {
	return Payload{Action: ActionSetStatus, OrderID: id, Status: status}
}
