package dialog

import (
	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/pagination"
)

// mainMenu is the persistent keyboard. Management entries are only built
// for admins.
func mainMenu(admin bool) chat.Menu {
	rows := [][]chat.MenuButton{
		{{Label: LabelShop}, {Label: LabelCart}},
		{{Label: LabelAbout}},
	}
	if admin {
		rows = append(rows,
			[]chat.MenuButton{{Label: LabelAddProduct}, {Label: LabelSettings}},
			[]chat.MenuButton{{Label: LabelOrders}},
		)
	}
	return chat.Menu{Rows: rows}
}

func contactMenu() chat.Menu {
	return chat.Menu{Rows: [][]chat.MenuButton{{{Label: labelSharePhone, RequestContact: true}}}}
}

func locationMenu() chat.Menu {
	return chat.Menu{Rows: [][]chat.MenuButton{{{Label: labelShareLocation, RequestLocation: true}}}}
}

func button(label string, p Payload) chat.Button {
	return chat.Button{Label: label, Payload: p.Encode()}
}

// navRow renders prev/next affordances; nil when neither exists. to builds
// the payload that opens a page index.
func navRow(page pagination.Page, to func(int) Payload) []chat.Button {
	var row []chat.Button
	if page.HasPrev() {
		row = append(row, button(labelPrev, to(page.Index-1)))
	}
	if page.HasNext() {
		row = append(row, button(labelNext, to(page.Index+1)))
	}
	return row
}

func settingsButtons() [][]chat.Button {
	return [][]chat.Button{
		chat.Row(button(labelSetAddress, simplePayload(ActionSetAddress))),
		chat.Row(button(labelEditStock, listPayload(ActionEditStockList, 0))),
		chat.Row(button(labelDelete, listPayload(ActionDeleteList, 0))),
	}
}

func deliveryButtons() [][]chat.Button {
	return [][]chat.Button{
		chat.Row(button(labelPickup, simplePayload(ActionPickup))),
		chat.Row(button(labelDelivery, simplePayload(ActionDelivery))),
	}
}

func cartButtons() [][]chat.Button {
	return [][]chat.Button{chat.Row(
		button(labelCheckout, simplePayload(ActionCheckout)),
		button(labelClear, simplePayload(ActionClearCart)),
	)}
}
