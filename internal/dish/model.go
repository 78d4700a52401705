package dish

// Category classifies a dish on the menu.
type Category string

const (
	CategoryStarter Category = "STARTER"
	CategoryMain    Category = "MAIN"
	CategoryMenu    Category = "MENU"
	CategoryDessert Category = "DESSERT"
	CategoryDrink   Category = "DRINK"
)

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStarter, CategoryMain, CategoryMenu, CategoryDessert, CategoryDrink:
		return true
	}
	return false
}

// RequiresNote reports whether orders containing a dish of this category must
// carry a non-blank note. Menu dishes need one so the kitchen knows the
// customer's course choices.
func (c Category) RequiresNote() bool {
	return c == CategoryMenu
}

type Dish struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
}
