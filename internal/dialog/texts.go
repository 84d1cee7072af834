package dialog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/chatshop-backend/internal/cart"
	"github.com/angelmondragon/chatshop-backend/pkg/db/models"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/types"
)

// Main menu labels. Incoming text equal to a label selects the entry.
const (
	LabelShop       = "🛍 Shop"
	LabelCart       = "🛒 Cart"
	LabelAbout      = "ℹ️ About"
	LabelAddProduct = "➕ Add product"
	LabelSettings   = "⚙️ Settings"
	LabelOrders     = "📦 Orders"

	labelSharePhone    = "📱 Share phone"
	labelShareLocation = "📍 Share location"
)

const (
	msgGreeting         = "Hello, %s!"
	msgMainMenu         = "🛍 Main menu"
	msgSomethingWrong   = "⚠️ Something went wrong. Please try again."
	msgZombie           = "⚠️ That flow has expired. Please press \"" + LabelAddProduct + "\" again."
	msgAskMedia         = "📸 Send the product photo (an image or a file):"
	msgMediaRequired    = "⚠️ Please send an image or a file, not text."
	msgAskName          = "✅ Media received! Now send the product name:"
	msgNameRequired     = "⚠️ Please send the name as text."
	msgAskPrice         = "💰 Price (digits only):"
	msgNumberRequired   = "⚠️ Please enter a number using digits only."
	msgAskDescription   = "📝 Description:"
	msgDescRequired     = "⚠️ Please send the description as text."
	msgAskStock         = "📦 Stock (digits only):"
	msgProductAdded     = "✅ Product added!"
	msgSettings         = "Choose a setting:"
	msgAskAddress       = "📍 Send the new shop address:"
	msgAddressRequired  = "⚠️ Please send the address as text."
	msgAddressSaved     = "✅ Address saved!"
	msgPickStock        = "Choose a product to edit its stock:"
	msgPickDelete       = "Choose a product to delete:"
	msgNoProducts       = "No products yet."
	msgPickerPage       = "%s\nPage %d of %d"
	msgAskNewStock      = "📦 New stock for %s (currently %d):"
	msgStockUpdated     = "✅ Stock updated!"
	msgProductDeleted   = "🗑 Deleted!"
	msgProductNotFound  = "Product not found."
	msgAbout            = "📍 Address: %s"
	msgCatalog          = "Products (page %d of %d):"
	msgAskQuantity      = "🔢 How many? (%d in stock)"
	msgOutOfStock       = "Sorry, this product is out of stock."
	msgOnlyInStock      = "Sorry, only %d in stock."
	msgAddedToCart      = "✅ Added to cart!"
	msgCartLimit        = "⚠️ That would make your cart too large. Please check out first."
	msgCartEmpty        = "🛒 Your cart is empty."
	msgCartCleared      = "🧹 Cart cleared."
	msgAskPhone         = "📞 Send your phone number:"
	msgPhoneRequired    = "⚠️ Please send your phone number as text or use the button."
	msgPhoneSaved       = "📞 Thanks!"
	msgAskDelivery      = "How would you like to get your order?"
	msgChooseDelivery   = "⚠️ Please choose one of the options above."
	msgAskLocation      = "📍 Send the delivery location:"
	msgLocationRequired = "⚠️ Please share a location or type the address."
	msgAskReceipt       = "💳 Card: %s\nAmount: %d\n\nTransfer the amount and send the receipt (an image or a file):"
	msgReceiptRequired  = "⚠️ Please send the receipt as an image or a file."
	msgCheckoutExpired  = "This checkout has expired. Open the cart to start again."
	msgCheckoutFailed   = "⚠️ Checkout could not be completed. Please start again from the cart."
	msgOrderRetry       = "⚠️ We could not register the order. Please try again."
	msgOrderAccepted    = "✅ Order #%s accepted!\nTotal: %d"
	msgOrdersConsole    = "📦 Orders by status:"
	msgNoOrders         = "No %s orders."
	msgOrdersInStatus   = "%s orders:"
	msgOrderNotFound    = "Order not found."
	msgStatusStale      = "The order status has already changed."
	msgStatusUpdated    = "Status updated: %s"
	msgCustomerStatus   = "📦 Order #%s: %s"
)

const (
	labelAddToCart    = "🛒 Add to cart"
	labelBack         = "🔙 Back"
	labelCheckout     = "✅ Checkout"
	labelClear        = "🧹 Clear"
	labelPickup       = "🏬 Pickup (pay cash)"
	labelDelivery     = "🚕 Delivery (pay by card)"
	labelPrev         = "⬅️ Prev"
	labelNext         = "Next ➡️"
	labelSetAddress   = "📍 Address"
	labelEditStock    = "📦 Edit stock"
	labelDelete       = "❌ Delete product"
	labelCancelOrder  = "❌ Cancel order"
	labelAllOrders    = "🔙 All orders"
	labelOpenOrder    = "📦 Open order"
	labelStatusTarget = "➡️ %s"
)

var customerStatusText = map[enums.OrderStatus]string{
	enums.OrderStatusProcessing: "we are preparing your order.",
	enums.OrderStatusReady:      "your order is ready.",
	enums.OrderStatusShipped:    "your order is on its way.",
	enums.OrderStatusDelivered:  "your order has been delivered. Thank you!",
	enums.OrderStatusCanceled:   "your order has been canceled.",
}

func productCaption(p *models.Product) string {
	return fmt.Sprintf("📱 %s\n💰 %d\n📝 %s\n📦 In stock: %d", p.Name, p.Price, p.Description, p.Stock)
}

func productButtonLabel(p models.Product) string {
	return fmt.Sprintf("%s - %d", p.Name, p.Price)
}

func cartText(c cart.Cart) string {
	var b strings.Builder
	b.WriteString("🛒 Cart:\n")
	for _, line := range c.Lines() {
		fmt.Fprintf(&b, "- %s x %d = %d\n", line.Name, line.Quantity, line.Subtotal())
	}
	fmt.Fprintf(&b, "\nTotal: %d", c.Total())
	return b.String()
}

func writeLines(b *strings.Builder, lines types.OrderLines) {
	for _, line := range lines {
		fmt.Fprintf(b, "- %s x %d = %d\n", line.Name, line.Quantity, line.Subtotal())
	}
}

// orderSummary is the admin-facing view of an order.
func orderSummary(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s · %s\n", o.ID, o.Status.Label())
	fmt.Fprintf(&b, "👤 %s\n📞 %s\n", o.CustomerName, o.Phone)
	if o.Location != nil && *o.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", *o.Location)
	}
	writeLines(&b, o.Items)
	fmt.Fprintf(&b, "Total: %d (%s, %s)", o.TotalPrice, o.PaymentMethod, o.DeliveryType)
	return b.String()
}

// newOrderAlert is sent to every admin when a checkout completes.
func newOrderAlert(o *models.Order, failed types.OrderLines) string {
	var b strings.Builder
	b.WriteString("🆕 NEW ORDER\n")
	b.WriteString(orderSummary(o))
	if len(failed) > 0 {
		b.WriteString("\n\n⚠️ Stock was not updated for:\n")
		writeLines(&b, failed)
	}
	return b.String()
}

func orderButtonLabel(o models.Order) string {
	return fmt.Sprintf("#%s · %s · %d", o.ID, o.CustomerName, o.TotalPrice)
}

func statusButtonLabel(status enums.OrderStatus, count int64) string {
	return fmt.Sprintf("%s (%d)", status.Label(), count)
}

func customerStatusMessage(o *models.Order) string {
	text, ok := customerStatusText[o.Status]
	if !ok {
		text = strings.ToLower(o.Status.Label())
	}
	return fmt.Sprintf(msgCustomerStatus, o.ID, text)
}
