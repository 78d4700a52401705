package ticket

import (
	"fmt"
	"strings"

	"github.com/foyer-pos/foyer-backend/internal/order"
)

const separator = "--------------------------------"

// Formatter renders an order into printable bytes.
type Formatter interface {
	Format(o *order.Order) []byte
}

// PlainTextFormatter produces the plain-text ticket handed to the kitchen
// printer. Pure: same order snapshot in, same bytes out, no I/O.
type PlainTextFormatter struct {
	restaurantName string
}

func NewPlainTextFormatter(restaurantName string) *PlainTextFormatter {
	return &PlainTextFormatter{restaurantName: restaurantName}
}

func (f *PlainTextFormatter) Format(o *order.Order) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n", f.restaurantName)
	fmt.Fprintf(&b, "Order #%d\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	fmt.Fprintf(&b, "Created: %s\n", o.CreatedAt.Format("02/01/2006 15:04"))
	b.WriteString(separator + "\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%d x %s @ %.2f\n", item.Quantity, item.DishName, item.UnitPrice)
	}
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Total: %.2f\n", o.Total())
	if note := strings.TrimSpace(o.Note); note != "" {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}
	if o.Paid {
		b.WriteString("PAID\n")
	} else {
		b.WriteString("UNPAID\n")
	}
	b.WriteString("\n")

	return []byte(b.String())
}
