package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "03:04 PM"
)

var printer = message.NewPrinter(language.English)

// Summary is everything the order message is rendered from.
type Summary struct {
	OrderNumber string
	Customer    domain.Customer
	Items       []domain.CartItem
	Total       domain.Money
	PlacedAt    time.Time
}

// FormatMessage renders the order summary sent to the store over the messaging channel.
// It has no side effects: the same summary and settings always produce the same text.
func FormatMessage(s Summary, settings Settings) string {
	at := s.PlacedAt
	if settings.Location != nil {
		at = at.In(settings.Location)
	}

	var b strings.Builder

	b.WriteString("🛍️ *NEW FOOD ORDER PLACED* 🛍️\n\n")

	b.WriteString("📋 *Order Details*\n")
	fmt.Fprintf(&b, "🔢 Order #: *%s*\n", s.OrderNumber)
	fmt.Fprintf(&b, "📅 Date: %s\n", at.Format(dateLayout))
	fmt.Fprintf(&b, "⏰ Time: %s\n\n", at.Format(timeLayout))

	b.WriteString("👤 *Customer Information*\n")
	fmt.Fprintf(&b, "📱 Phone: %s\n", s.Customer.Phone)
	fmt.Fprintf(&b, "🏠 Address: %s\n\n", s.Customer.Address)

	b.WriteString("🛒 *Ordered Items*\n")
	quantity := 0
	for i, item := range s.Items {
		quantity += item.Quantity

		fmt.Fprintf(&b, "\n*%d. %s*\n", i+1, itemTitle(item))
		fmt.Fprintf(&b, "   📦 Quantity: %d %s\n", item.Quantity, item.Product.Unit)
		fmt.Fprintf(&b, "   💰 Unit Price: %s\n", formatMoney(item.UnitPrice()))
		fmt.Fprintf(&b, "   💵 Subtotal: %s\n", formatMoney(item.Subtotal()))
		fmt.Fprintf(&b, "   🏷️ Tags: %s\n", strings.Join(item.Product.Tags, ", "))
	}

	b.WriteString("\n💰 *Order Summary*\n")
	fmt.Fprintf(&b, "📊 Total Items: %d\n", len(s.Items))
	fmt.Fprintf(&b, "🧮 Total Quantity: %d units\n", quantity)
	fmt.Fprintf(&b, "💵 *Total Amount: %s*\n\n", formatMoney(s.Total))

	b.WriteString("✅ *Order Status: PENDING*\n")
	b.WriteString("🚚 Delivery will be arranged after confirmation\n")
	b.WriteString("💳 Payment: Cash on Delivery\n\n")
	fmt.Fprintf(&b, "Thank you for choosing %s! 🙏\n", settings.storeName())
	b.WriteString("We'll contact you shortly to confirm your order.")

	return b.String()
}

func itemTitle(item domain.CartItem) string {
	if item.Variant == nil {
		return item.Product.Name
	}
	return fmt.Sprintf("%s (%dkg)", item.Product.Name, item.Variant.WeightKg)
}

func formatMoney(m domain.Money) string {
	return m.Currency.String() + " " + FormatAmount(m.Amount)
}

// FormatAmount groups thousands with commas and keeps at most two significant fraction digits: 1234.50 → "1,234.5".
func FormatAmount(amount decimal.Decimal) string {
	amount = amount.Round(2)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	whole := amount.Truncate(0)
	out := sign + groupWhole(whole)

	fraction := amount.Sub(whole)
	if fraction.IsZero() {
		return out
	}

	digits := strings.TrimRight(strings.TrimPrefix(fraction.StringFixed(2), "0."), "0")
	return out + "." + digits
}

// groupWhole groups an integral amount. Amounts beyond int64 are grouped from their decimal digits.
func groupWhole(whole decimal.Decimal) string {
	if n := whole.BigInt(); n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}

	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
