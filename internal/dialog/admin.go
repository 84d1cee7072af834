package dialog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/internal/catalog"
	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/internal/session"
	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
)

func (t *turn) beginAddProduct() {
	t.sess.Begin(session.StepAwaitingPhoto, &session.ProductDraft{})
	t.emit(chat.SendText(t.ev.ChatID, msgAskMedia).WithoutMenu())
}

// productStep collects media, name, price, description and stock, then
// inserts the product in one write.
func (t *turn) productStep() error {
	draft, _ := t.sess.ProductDraft()

	switch t.sess.Step {
	case session.StepAwaitingPhoto:
		if t.ev.Kind != enums.EventKindMedia || t.ev.Media == nil || t.ev.Media.Ref == "" {
			t.reply(msgMediaRequired)
			return nil
		}
		draft.MediaRef = t.ev.Media.Ref
		draft.MediaKind = t.ev.Media.Kind
		t.sess.Advance(session.StepAwaitingName)
		t.reply(msgAskName)

	case session.StepAwaitingName:
		name := cleanText(t.ev.Text)
		if t.ev.Kind != enums.EventKindText || name == "" {
			t.reply(msgNameRequired)
			return nil
		}
		draft.Name = name
		t.sess.Advance(session.StepAwaitingPrice)
		t.reply(msgAskPrice)

	case session.StepAwaitingPrice:
		price, ok := parseAmount(t.numericInput())
		if !ok {
			t.reply(msgNumberRequired)
			return nil
		}
		draft.Price = price
		t.sess.Advance(session.StepAwaitingDesc)
		t.reply(msgAskDescription)

	case session.StepAwaitingDesc:
		if t.ev.Kind != enums.EventKindText {
			t.reply(msgDescRequired)
			return nil
		}
		draft.Description = cleanText(t.ev.Text)
		t.sess.Advance(session.StepAwaitingStock)
		t.reply(msgAskStock)

	case session.StepAwaitingStock:
		stock, ok := parseCount(t.numericInput())
		if !ok {
			t.reply(msgNumberRequired)
			return nil
		}
		product, err := t.catalog.AddProduct(t.ctx, catalog.NewProductInput{
			Name:        draft.Name,
			Price:       draft.Price,
			Stock:       stock,
			MediaRef:    draft.MediaRef,
			MediaKind:   draft.MediaKind,
			Description: draft.Description,
		})
		if err != nil {
			return err
		}
		t.sess.Reset()
		t.logg.Info(t.logg.WithField(t.ctx, "product_id", product.ID.String()), "product added")
		t.replyWithMenu(msgProductAdded)
	}
	return nil
}

// numericInput is the raw text of a text event, or "" for any other kind.
// Surrounding whitespace is not trimmed.
func (t *turn) numericInput() string {
	if t.ev.Kind != enums.EventKindText {
		return ""
	}
	return t.ev.Text
}

func (t *turn) addressStep() error {
	address := cleanText(t.ev.Text)
	if t.ev.Kind != enums.EventKindText || address == "" {
		t.reply(msgAddressRequired)
		return nil
	}
	if err := t.catalog.SetAddress(t.ctx, address); err != nil {
		return err
	}
	t.sess.Reset()
	t.replyWithMenu(msgAddressSaved)
	return nil
}

// productPicker lists one page of products, out of stock included, as
// buttons carrying action. list is the action that pages the picker.
func (t *turn) productPicker(list, action Action, prompt string, index int) error {
	view, err := t.catalog.AdminListing(t.ctx, index)
	if err != nil {
		return err
	}
	if len(view.Products) == 0 {
		t.notice(msgNoProducts)
		return nil
	}
	rows := make([][]chat.Button, 0, len(view.Products)+1)
	for _, p := range view.Products {
		label := fmt.Sprintf("%s (%d)", p.Name, p.Stock)
		if action == ActionDelete {
			label = "❌ " + p.Name
		}
		rows = append(rows, chat.Row(button(label, productPayload(action, p.ID))))
	}
	if nav := navRow(view.Page, func(i int) Payload { return listPayload(list, i) }); len(nav) > 0 {
		rows = append(rows, nav)
	}
	if view.Page.Count() > 1 {
		prompt = fmt.Sprintf(msgPickerPage, prompt, view.Page.Index+1, view.Page.Count())
	}
	t.emit(t.screen(true, prompt).WithButtons(rows...))
	return nil
}

func (t *turn) beginStockEdit(id uuid.UUID) error {
	product, err := t.catalog.Product(t.ctx, id)
	if err != nil {
		return t.absorb(err, msgProductNotFound)
	}
	t.sess.Begin(session.StepAwaitingNewStockQty, &session.StockDraft{ProductID: id})
	t.emit(chat.SendText(t.ev.ChatID, fmt.Sprintf(msgAskNewStock, product.Name, product.Stock)).WithoutMenu())
	return nil
}

// stockStep sets an absolute stock count on the captured product.
func (t *turn) stockStep() error {
	draft, _ := t.sess.StockDraft()
	stock, ok := parseCount(t.numericInput())
	if !ok {
		t.reply(msgNumberRequired)
		return nil
	}
	err := t.catalog.SetStock(t.ctx, draft.ProductID, stock)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.sess.Reset()
		t.replyWithMenu(msgProductNotFound)
		return nil
	}
	if err != nil {
		return err
	}
	t.sess.Reset()
	t.replyWithMenu(msgStockUpdated)
	return nil
}

func (t *turn) deleteProduct(id uuid.UUID) error {
	if err := t.catalog.DeleteProduct(t.ctx, id); err != nil {
		return t.absorb(err, msgProductNotFound)
	}
	t.logg.Info(t.logg.WithField(t.ctx, "product_id", id.String()), "product deleted")
	t.notice(msgProductDeleted)
	t.emit(chat.DeleteMessage(t.ev.ChatID, t.ev.MessageID))
	return nil
}

// showOrdersConsole lists every status with its order count. Buttons re-use
// the pressed message; the menu entry sends a new one.
func (t *turn) showOrdersConsole(edit bool) error {
	counts, err := t.orders.StatusCounts(t.ctx)
	if err != nil {
		return err
	}
	rows := make([][]chat.Button, 0, len(counts))
	for _, status := range enums.OrderStatuses() {
		rows = append(rows, chat.Row(button(statusButtonLabel(status, counts[status]), statusPayload(status))))
	}
	t.emit(t.screen(edit, msgOrdersConsole).WithButtons(rows...))
	return nil
}

func (t *turn) showOrdersByStatus(status enums.OrderStatus) error {
	list, err := t.orders.ListByStatus(t.ctx, status)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		t.notice(fmt.Sprintf(msgNoOrders, status.Label()))
		return nil
	}
	rows := make([][]chat.Button, 0, len(list)+1)
	for _, o := range list {
		rows = append(rows, chat.Row(button(orderButtonLabel(o), orderPayload(o.ID))))
	}
	rows = append(rows, chat.Row(button(labelAllOrders, simplePayload(ActionOrders))))
	t.emit(t.screen(true, fmt.Sprintf(msgOrdersInStatus, status.Label())).WithButtons(rows...))
	return nil
}

func (t *turn) showOrder(id string) error {
	order, err := t.orders.Order(t.ctx, id)
	if err != nil {
		return t.absorb(err, msgOrderNotFound)
	}
	t.emit(t.orderScreen(order))
	return nil
}

// transitionOrder persists the status change first; the customer message is
// a separate effect and its delivery cannot undo the change.
func (t *turn) transitionOrder(id string, target enums.OrderStatus) error {
	order, err := t.orders.Transition(t.ctx, id, target)
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		current, err := t.orders.Order(t.ctx, id)
		if err != nil {
			return t.absorb(err, msgOrderNotFound)
		}
		t.notice(msgStatusStale)
		t.emit(t.orderScreen(current))
		return nil
	case err != nil:
		return t.absorb(err, msgOrderNotFound)
	}

	t.notice(fmt.Sprintf(msgStatusUpdated, order.Status.Label()))
	t.emit(t.orderScreen(order))
	if order.ChatID != 0 {
		t.emit(chat.SendText(order.ChatID, customerStatusMessage(order)))
	}
	return nil
}

func (t *turn) orderScreen(order *models.Order) chat.Effect {
	return t.screen(true, orderSummary(order)).WithButtons(orderActions(order.ID, order.Status)...)
}

// orderActions offers the next linear status and cancel while the order is
// not terminal.
func orderActions(id string, status enums.OrderStatus) [][]chat.Button {
	var rows [][]chat.Button
	if next, ok := status.Next(); ok {
		rows = append(rows, chat.Row(button(fmt.Sprintf(labelStatusTarget, next.Label()), transitionPayload(id, next))))
	}
	if !status.IsTerminal() {
		rows = append(rows, chat.Row(button(labelCancelOrder, transitionPayload(id, enums.OrderStatusCanceled))))
	}
	return append(rows, chat.Row(button(labelAllOrders, simplePayload(ActionOrders))))
}

// screen edits the pressed message when there is one, otherwise sends.
func (t *turn) screen(edit bool, text string) chat.Effect {
	if edit && t.ev.MessageID != 0 {
		return chat.EditMessage(t.ev.ChatID, t.ev.MessageID, text)
	}
	return chat.SendText(t.ev.ChatID, text)
}
