package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/foyer-pos/foyer-backend/internal/handler"
	"github.com/foyer-pos/foyer-backend/internal/order"
	"github.com/foyer-pos/foyer-backend/internal/ticket"
)

type mockPrinter struct {
	printFunc func(ctx context.Context, orderID int64) error
}

func (m *mockPrinter) PrintTicket(ctx context.Context, orderID int64) error {
	return m.printFunc(ctx, orderID)
}

func TestTicketHandler_PrintTicket(t *testing.T) {
	tests := []struct {
		name           string
		printErr       error
		expectedStatus int
	}{
		{name: "success", printErr: nil, expectedStatus: http.StatusNoContent},
		{name: "order_not_found", printErr: order.ErrOrderNotFound, expectedStatus: http.StatusNotFound},
		{name: "printer_unavailable", printErr: ticket.ErrPrinterUnavailable, expectedStatus: http.StatusServiceUnavailable},
		{name: "dispatch_failure", printErr: ticket.ErrPrintDispatch, expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewTicketHandler(&mockPrinter{
				printFunc: func(ctx context.Context, orderID int64) error {
					return tt.printErr
				},
			})
			r := chi.NewRouter()
			r.Post("/orders/{id}/ticket", h.PrintTicket)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/42/ticket", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
