package order

import (
	"fmt"
	"time"
)

type Status string

const (
	// StatusOpen is the initial "in progress" status.
	StatusOpen      Status = "OPEN"
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the three known statuses. The core puts
// no restriction on how an order moves between them; which transitions a user
// may trigger is policy for the calling layer.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Item is one line of an order. DishName and UnitPrice are snapshots captured
// from the catalog when the order was composed; they are never re-read, so a
// later edit or deletion of the dish leaves historical orders untouched. Item
// row ids are not stable across order updates.
type Item struct {
	ID        int64   `json:"item_id"`
	DishID    int64   `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LineTotal is the item's contribution to the order total.
func (i Item) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

type Order struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Items        []Item    `json:"items"`
	Note         string    `json:"note,omitempty"`
	Paid         bool      `json:"paid"`
}

// Total derives the order total from its items. It is recomputed on every
// persist and every hydration; the stored column is never trusted.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

// ValidationError marks a composition request the caller can fix and resubmit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
