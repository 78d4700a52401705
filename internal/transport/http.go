package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foyer-pos/foyer-backend/internal/handler"
)

type Handlers struct {
	Dishes  *handler.DishHandler
	Orders  *handler.OrderHandler
	Tickets *handler.TicketHandler
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/dishes", func(r chi.Router) {
		r.Get("/", h.Dishes.ListDishes)
		r.Post("/", h.Dishes.CreateDish)
		r.Get("/{id}", h.Dishes.GetDish)
		r.Put("/{id}", h.Dishes.UpdateDish)
		r.Delete("/{id}", h.Dishes.DeleteDish)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.Orders.ListOrders)
		r.Post("/", h.Orders.CreateOrder)
		r.Get("/{id}", h.Orders.GetOrder)
		r.Put("/{id}", h.Orders.UpdateOrder)
		r.Delete("/{id}", h.Orders.DeleteOrder)
		r.Post("/{id}/cancel", h.Orders.CancelOrder)
		r.Post("/{id}/complete", h.Orders.CompleteOrder)
		r.Post("/{id}/ticket", h.Tickets.PrintTicket)
	})

	return r
}
