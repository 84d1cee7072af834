package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/chatshop-backend/internal/auth"
	"github.com/angelmondragon/chatshop-backend/internal/catalog"
	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/internal/orders"
	"github.com/angelmondragon/chatshop-backend/internal/session"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
)

// CommandStart resets the caller's session from any step.
const CommandStart = "start"

// Engine is the conversation state machine. It loads the caller's session,
// applies one event and stores the result; outbound messages are returned
// as effects for the caller to deliver.
type Engine struct {
	sessions   session.Store
	catalog    catalog.Service
	orders     orders.Service
	admins     auth.AdminSet
	logg       *logger.Logger
	cardNumber string
	locks      *userLocks
}

type EngineParams struct {
	Sessions   session.Store
	Catalog    catalog.Service
	Orders     orders.Service
	Admins     auth.AdminSet
	Logger     *logger.Logger
	CardNumber string
}

func NewEngine(params EngineParams) (*Engine, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{
		sessions:   params.Sessions,
		catalog:    params.Catalog,
		orders:     params.Orders,
		admins:     params.Admins,
		logg:       params.Logger,
		cardNumber: params.CardNumber,
		locks:      newUserLocks(),
	}, nil
}

// turn is the state of handling a single event.
type turn struct {
	*Engine
	ctx     context.Context
	ev      chat.Event
	sess    *session.Session
	admin   bool
	effects []chat.Effect
}

// Handle applies ev to the sender's session. Events from one user are
// handled one at a time. A non-nil error reports a store failure; the
// returned effects are still meant to be delivered.
func (e *Engine) Handle(ctx context.Context, ev chat.Event) ([]chat.Effect, error) {
	if ev.UserID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event has no sender")
	}
	if ev.ChatID == 0 {
		ev.ChatID = ev.UserID
	}

	unlock := e.locks.Lock(ev.UserID)
	defer unlock()

	sess, err := e.sessions.Get(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}

	ctx = e.logg.WithFields(ctx, map[string]any{
		"user_id":    ev.UserID,
		"chat_id":    ev.ChatID,
		"event_kind": ev.Kind.String(),
		"step":       sess.Step.String(),
	})
	t := &turn{Engine: e, ctx: ctx, ev: ev, sess: sess, admin: e.admins.IsAdmin(ev.UserID)}

	if err := sess.Validate(); err != nil {
		e.logg.WarnErr(ctx, "session out of shape, resetting flow", err)
		sess.Reset()
	}

	handleErr := t.dispatch()
	if handleErr != nil {
		t.reply(msgSomethingWrong)
	}
	if err := e.sessions.Put(ctx, sess); err != nil {
		if handleErr != nil {
			return t.effects, handleErr
		}
		return t.effects, err
	}
	return t.effects, handleErr
}

func (t *turn) dispatch() error {
	switch {
	case t.ev.Kind == enums.EventKindCommand && t.ev.Command == CommandStart:
		return t.start()
	case t.ev.Kind == enums.EventKindButton:
		return t.press()
	case !t.sess.Step.IsIdle():
		return t.continueFlow()
	default:
		return t.idle()
	}
}

func (t *turn) emit(effect chat.Effect) {
	t.effects = append(t.effects, effect)
}

func (t *turn) reply(text string) {
	t.emit(chat.SendText(t.ev.ChatID, text))
}

// replyWithMenu ends a flow and brings the main menu back.
func (t *turn) replyWithMenu(text string) {
	t.emit(chat.SendText(t.ev.ChatID, text).WithMenu(mainMenu(t.admin)))
}

// notice answers the pressed button with a toast, or a plain message when
// the event did not come from a button.
func (t *turn) notice(text string) {
	t.emit(chat.Notice(t.ev.ChatID, t.ev.CallbackID, text))
}

func (t *turn) start() error {
	t.sess.ResetAll()
	name := t.ev.DisplayName
	if name == "" {
		name = "there"
	}
	t.replyWithMenu(fmt.Sprintf(msgGreeting, name))
	return nil
}

// idle routes menu selections and stray input while no flow is active.
func (t *turn) idle() error {
	switch t.ev.Kind {
	case enums.EventKindText:
		return t.menuEntry(cleanText(t.ev.Text))
	case enums.EventKindMedia:
		if t.admin {
			t.reply(msgZombie)
		}
	}
	return nil
}

func (t *turn) menuEntry(label string) error {
	switch label {
	case LabelShop:
		return t.showCatalog(0, false)
	case LabelCart:
		t.showCart()
		return nil
	case LabelAbout:
		return t.about()
	case LabelAddProduct:
		if t.admin {
			t.beginAddProduct()
		}
	case LabelSettings:
		if t.admin {
			t.emit(chat.SendText(t.ev.ChatID, msgSettings).WithButtons(settingsButtons()...))
		}
	case LabelOrders:
		if t.admin {
			return t.showOrdersConsole(false)
		}
	}
	return nil
}

// continueFlow feeds the event to the active step. Numeric steps turn away
// anything but digit-only text before the step handler runs.
func (t *turn) continueFlow() error {
	step := t.sess.Step
	if isAdminFlow(step) && !t.admin {
		t.sess.Reset()
		return nil
	}
	if step.IsNumeric() && !isDigits(t.numericInput()) {
		t.reply(msgNumberRequired)
		return nil
	}

	switch step {
	case session.StepAwaitingPhoto, session.StepAwaitingName, session.StepAwaitingPrice,
		session.StepAwaitingDesc, session.StepAwaitingStock:
		return t.productStep()
	case session.StepAwaitingNewAddress:
		return t.addressStep()
	case session.StepAwaitingNewStockQty:
		return t.stockStep()
	case session.StepAwaitingQuantity:
		return t.quantityStep()
	case session.StepAwaitingPhone, session.StepAwaitingDeliveryChoice,
		session.StepAwaitingLocation, session.StepAwaitingReceipt:
		return t.checkoutStep()
	}
	return nil
}

// isAdminFlow reports whether step belongs to a catalog management flow.
func isAdminFlow(step session.Step) bool {
	switch step.DraftKind() {
	case session.DraftKindProduct, session.DraftKindAddress, session.DraftKindStock:
		return true
	}
	return false
}

// press routes a button. Unknown payloads are dropped without a reply.
func (t *turn) press() error {
	p, ok := DecodePayload(t.ev.Payload)
	if !ok {
		t.logg.Debug(t.logg.WithField(t.ctx, "payload", t.ev.Payload), "ignoring unrecognized button payload")
		return nil
	}

	switch p.Action {
	case ActionPage:
		return t.showCatalog(p.Page, true)
	case ActionView:
		return t.viewProduct(p.ProductID)
	case ActionBack:
		t.emit(chat.DeleteMessage(t.ev.ChatID, t.ev.MessageID))
		t.replyWithMenu(msgMainMenu)
		return nil
	case ActionAddToCart:
		return t.beginQuantity(p.ProductID)
	case ActionClearCart:
		t.sess.Cart.Clear()
		t.emit(chat.EditMessage(t.ev.ChatID, t.ev.MessageID, msgCartCleared))
		return nil
	case ActionCheckout:
		t.beginCheckout()
		return nil
	case ActionPickup:
		return t.chooseDelivery(enums.DeliveryTypePickup)
	case ActionDelivery:
		return t.chooseDelivery(enums.DeliveryTypeDelivery)
	}

	if !t.admin {
		return nil
	}
	switch p.Action {
	case ActionSetAddress:
		t.sess.Begin(session.StepAwaitingNewAddress, &session.AddressDraft{})
		t.emit(chat.SendText(t.ev.ChatID, msgAskAddress).WithoutMenu())
	case ActionEditStockList:
		return t.productPicker(ActionEditStockList, ActionEditStock, msgPickStock, p.Page)
	case ActionEditStock:
		return t.beginStockEdit(p.ProductID)
	case ActionDeleteList:
		return t.productPicker(ActionDeleteList, ActionDelete, msgPickDelete, p.Page)
	case ActionDelete:
		return t.deleteProduct(p.ProductID)
	case ActionOrders:
		return t.showOrdersConsole(true)
	case ActionOrdersByStatus:
		return t.showOrdersByStatus(p.Status)
	case ActionOrder:
		return t.showOrder(p.OrderID)
	case ActionSetStatus:
		return t.transitionOrder(p.OrderID, p.Status)
	}
	return nil
}

// absorb turns expected lookup misses into a notice. Other errors are
// returned unchanged.
func (t *turn) absorb(err error, missing string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.notice(missing)
		return nil
	}
	return err
}

func (t *turn) about() error {
	address, err := t.catalog.Address(t.ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(address) == "" {
		address = "-"
	}
	t.reply(fmt.Sprintf(msgAbout, address))
	return nil
}
