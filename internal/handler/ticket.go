package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/foyer-pos/foyer-backend/internal/order"
	"github.com/foyer-pos/foyer-backend/internal/ticket"
)

// TicketPrinter is what the handler needs from the print pipeline.
type TicketPrinter interface {
	PrintTicket(ctx context.Context, orderID int64) error
}

// TicketHandler exposes ticket printing to the UI layer.
type TicketHandler struct {
	printer TicketPrinter
}

func NewTicketHandler(printer TicketPrinter) *TicketHandler {
	return &TicketHandler{printer: printer}
}

// PrintTicket triggers the fetch, format, dispatch pipeline for one order.
// 404, 503 and 502 keep the three failure modes apart so the caller can
// retry, reconfigure, or fix data.
func (h *TicketHandler) PrintTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.printer.PrintTicket(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		case errors.Is(err, ticket.ErrPrinterUnavailable):
			http.Error(w, "printer unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, ticket.ErrPrintDispatch):
			http.Error(w, "failed to print ticket", http.StatusBadGateway)
		default:
			log.Info().Msgf("Failed to print ticket: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
