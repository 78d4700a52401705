package ticket

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/foyer-pos/foyer-backend/internal/order"
)

// OrderFetcher is the slice of the order store the pipeline needs.
type OrderFetcher interface {
	FindByID(ctx context.Context, id int64) (*order.Order, error)
}

// PrinterService coordinates fetching an order, formatting it, and sending
// the ticket bytes to the print device.
type PrinterService struct {
	orders    OrderFetcher
	formatter Formatter
	client    Client
}

func NewPrinterService(orders OrderFetcher, formatter Formatter, client Client) *PrinterService {
	return &PrinterService{
		orders:    orders,
		formatter: formatter,
		client:    client,
	}
}

// PrintTicket prints the ticket for an order. The three failure modes stay
// distinguishable for the caller: order.ErrOrderNotFound,
// ErrPrinterUnavailable, and ErrPrintDispatch.
func (s *PrinterService) PrintTicket(ctx context.Context, orderID int64) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return order.ErrOrderNotFound
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("printer: failed to fetch order for ticket")
		return fmt.Errorf("printer: failed to fetch order %d: %w", orderID, err)
	}

	payload := s.formatter.Format(o)

	jobID, _ := uuid.NewV4()
	if err := s.client.Print(payload); err != nil {
		if errors.Is(err, ErrPrinterUnavailable) {
			log.Warn().Int64("order_id", orderID).Msg("printer: print attempted with no device configured")
			return ErrPrinterUnavailable
		}
		log.Error().Err(err).Int64("order_id", orderID).Stringer("job_id", jobID).Msg("printer: dispatch failed")
		return err
	}

	log.Info().Int64("order_id", orderID).Stringer("job_id", jobID).Int("bytes", len(payload)).Msg("printer: ticket printed")
	return nil
}
