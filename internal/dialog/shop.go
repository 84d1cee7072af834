package dialog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/internal/orders"
	"github.com/angelmondragon/chatshop-backend/internal/session"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
)

// showCatalog renders one page of in-stock products. Page math runs on the
// unfiltered total, so a page may show fewer items than the page size.
func (t *turn) showCatalog(index int, edit bool) error {
	view, err := t.catalog.Browse(t.ctx, index)
	if err != nil {
		return err
	}
	if view.Page.Total == 0 {
		t.emit(t.screen(edit, msgNoProducts))
		return nil
	}

	rows := make([][]chat.Button, 0, len(view.Products)+1)
	for _, p := range view.Products {
		rows = append(rows, chat.Row(button(productButtonLabel(p), productPayload(ActionView, p.ID))))
	}
	if nav := navRow(view.Page, pagePayload); len(nav) > 0 {
		rows = append(rows, nav)
	}
	text := fmt.Sprintf(msgCatalog, view.Page.Index+1, view.Page.Count())
	t.emit(t.screen(edit, text).WithButtons(rows...))
	return nil
}

// viewProduct replaces the listing with the product card.
func (t *turn) viewProduct(id uuid.UUID) error {
	product, err := t.catalog.Product(t.ctx, id)
	if err != nil {
		return t.absorb(err, msgProductNotFound)
	}
	card := chat.SendMedia(t.ev.ChatID, chat.Media{Ref: product.MediaRef, Kind: product.MediaKind}, productCaption(product)).
		WithButtons(chat.Row(
			button(labelAddToCart, productPayload(ActionAddToCart, product.ID)),
			button(labelBack, simplePayload(ActionBack)),
		))
	t.emit(card)
	if t.ev.MessageID != 0 {
		t.emit(chat.DeleteMessage(t.ev.ChatID, t.ev.MessageID))
	}
	return nil
}

func (t *turn) beginQuantity(id uuid.UUID) error {
	product, err := t.catalog.Product(t.ctx, id)
	if err != nil {
		return t.absorb(err, msgProductNotFound)
	}
	if product.Stock <= 0 {
		t.notice(msgOutOfStock)
		return nil
	}
	t.sess.Begin(session.StepAwaitingQuantity, &session.QuantityDraft{ProductID: id})
	t.emit(chat.SendText(t.ev.ChatID, fmt.Sprintf(msgAskQuantity, product.Stock)).WithoutMenu())
	return nil
}

// quantityStep merges the requested amount into the cart when the product
// has that much stock right now.
func (t *turn) quantityStep() error {
	draft, _ := t.sess.QuantityDraft()
	qty, ok := parseCount(t.numericInput())
	if !ok || qty < 1 {
		t.reply(msgNumberRequired)
		return nil
	}

	product, err := t.catalog.Product(t.ctx, draft.ProductID)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.sess.Reset()
		t.replyWithMenu(msgProductNotFound)
		return nil
	}
	if err != nil {
		return err
	}
	if qty > product.Stock {
		t.reply(fmt.Sprintf(msgOnlyInStock, product.Stock))
		return nil
	}
	err = t.sess.Cart.Add(product.ID, product.Name, product.Price, qty)
	if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.sess.Reset()
		t.replyWithMenu(msgCartLimit)
		return nil
	}
	if err != nil {
		return err
	}
	t.sess.Reset()
	t.replyWithMenu(msgAddedToCart)
	return nil
}

func (t *turn) showCart() {
	if t.sess.Cart.IsEmpty() {
		t.reply(msgCartEmpty)
		return
	}
	t.emit(chat.SendText(t.ev.ChatID, cartText(t.sess.Cart)).WithButtons(cartButtons()...))
}

func (t *turn) beginCheckout() {
	if t.sess.Cart.IsEmpty() {
		t.notice(msgCartEmpty)
		return
	}
	if t.ev.MessageID != 0 {
		t.emit(chat.DeleteMessage(t.ev.ChatID, t.ev.MessageID))
	}
	t.sess.Begin(session.StepAwaitingPhone, &session.CheckoutDraft{})
	t.emit(chat.SendText(t.ev.ChatID, msgAskPhone).WithMenu(contactMenu()))
}

// checkoutStep handles the typed steps of checkout. The delivery choice is
// a button and arrives through chooseDelivery.
func (t *turn) checkoutStep() error {
	draft, _ := t.sess.CheckoutDraft()

	switch t.sess.Step {
	case session.StepAwaitingPhone:
		phone := cleanText(t.ev.Phone)
		if t.ev.Kind == enums.EventKindText {
			phone = cleanText(t.ev.Text)
		}
		if phone == "" {
			t.reply(msgPhoneRequired)
			return nil
		}
		draft.Phone = phone
		t.sess.Advance(session.StepAwaitingDeliveryChoice)
		t.emit(chat.SendText(t.ev.ChatID, msgPhoneSaved).WithoutMenu())
		t.emit(chat.SendText(t.ev.ChatID, msgAskDelivery).WithButtons(deliveryButtons()...))

	case session.StepAwaitingDeliveryChoice:
		t.emit(chat.SendText(t.ev.ChatID, msgChooseDelivery).WithButtons(deliveryButtons()...))

	case session.StepAwaitingLocation:
		var location string
		switch {
		case t.ev.Kind == enums.EventKindLocation && t.ev.Location != nil:
			location = t.ev.Location.String()
		case t.ev.Kind == enums.EventKindText:
			location = cleanText(t.ev.Text)
		}
		if location == "" {
			t.reply(msgLocationRequired)
			return nil
		}
		draft.Location = location
		t.sess.Advance(session.StepAwaitingReceipt)
		prompt := fmt.Sprintf(msgAskReceipt, t.cardNumber, t.sess.Cart.Total())
		t.emit(chat.SendText(t.ev.ChatID, prompt).WithoutMenu())

	case session.StepAwaitingReceipt:
		if t.ev.Kind != enums.EventKindMedia || t.ev.Media == nil || t.ev.Media.Ref == "" {
			t.reply(msgReceiptRequired)
			return nil
		}
		return t.finalize(draft, t.ev.Media)
	}
	return nil
}

// chooseDelivery applies the pickup/delivery button. Pickup is paid in cash
// and completes the order; delivery is paid by card and asks for a location.
func (t *turn) chooseDelivery(delivery enums.DeliveryType) error {
	draft, ok := t.sess.CheckoutDraft()
	if !ok || t.sess.Step != session.StepAwaitingDeliveryChoice {
		t.notice(msgCheckoutExpired)
		return nil
	}
	draft.Delivery = delivery
	if t.ev.MessageID != 0 {
		t.emit(chat.DeleteMessage(t.ev.ChatID, t.ev.MessageID))
	}
	if delivery == enums.DeliveryTypePickup {
		return t.finalize(draft, nil)
	}
	t.sess.Advance(session.StepAwaitingLocation)
	t.emit(chat.SendText(t.ev.ChatID, msgAskLocation).WithMenu(locationMenu()))
	return nil
}

// finalize places the order, clears the session and alerts every admin.
func (t *turn) finalize(draft *session.CheckoutDraft, receipt *chat.Media) error {
	input := orders.CheckoutInput{
		UserID:       t.ev.UserID,
		ChatID:       t.ev.ChatID,
		CustomerName: t.ev.DisplayName,
		Phone:        draft.Phone,
		Cart:         t.sess.Cart,
		Delivery:     draft.Delivery,
		Location:     draft.Location,
	}
	if receipt != nil {
		input.ReceiptRef = receipt.Ref
		input.ReceiptKind = receipt.Kind
	}

	result, err := t.orders.Finalize(t.ctx, input)
	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		t.logg.WarnErr(t.ctx, "order id collision", err)
		t.reply(msgOrderRetry)
		return nil
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		t.logg.WarnErr(t.ctx, "checkout rejected", err)
		t.sess.Reset()
		t.replyWithMenu(msgCheckoutFailed)
		return nil
	case err != nil:
		return err
	}

	order := result.Order
	t.sess.ResetAll()
	t.replyWithMenu(fmt.Sprintf(msgOrderAccepted, order.ID, order.TotalPrice))

	alert := newOrderAlert(order, result.FailedLines)
	open := chat.Row(button(labelOpenOrder, orderPayload(order.ID)))
	for _, adminID := range t.admins.IDs() {
		if receipt != nil {
			t.emit(chat.SendMedia(adminID, *receipt, alert).WithButtons(open))
			continue
		}
		t.emit(chat.SendText(adminID, alert).WithButtons(open))
	}
	return nil
}
