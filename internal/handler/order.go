package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/foyer-pos/foyer-backend/internal/order"
)

// confirmSecretHeader carries the shared delete-confirmation secret.
const confirmSecretHeader = "X-Confirm-Secret"

// OrderHandler handles HTTP requests for orders. It is also where the
// UI-level status transition policy lives: the lifecycle core underneath
// accepts any transition, the cancel/complete endpoints here are the actions
// a terminal exposes.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
	// bcrypt hash of the delete-confirmation secret, nil when none is
	// configured.
	deleteSecretHash []byte
}

func NewOrderHandler(svc order.Service, deleteSecret string) (*OrderHandler, error) {
	h := &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
	if deleteSecret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(deleteSecret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h.deleteSecretHash = hash
	}
	return h, nil
}

type composeItemRequest struct {
	DishID   int64 `json:"dish_id" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type composeRequest struct {
	CustomerName string               `json:"customer_name" validate:"required"`
	Status       string               `json:"status"`
	Note         string               `json:"note"`
	Paid         bool                 `json:"paid"`
	Items        []composeItemRequest `json:"items" validate:"required,min=1,dive"`
}

type statusChangeRequest struct {
	Paid *bool `json:"paid"`
}

type orderItemView struct {
	ItemID    int64   `json:"item_id"`
	DishID    int64   `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type orderView struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	Note         string          `json:"note,omitempty"`
	Paid         bool            `json:"paid"`
	Total        float64         `json:"total"`
	Items        []orderItemView `json:"items"`
}

func toOrderView(o *order.Order) orderView {
	v := orderView{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Status:       o.Status.String(),
		CreatedAt:    o.CreatedAt,
		Note:         o.Note,
		Paid:         o.Paid,
		Total:        o.Total(),
		Items:        make([]orderItemView, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		v.Items = append(v.Items, orderItemView{
			ItemID:    item.ID,
			DishID:    item.DishID,
			DishName:  item.DishName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return v
}

func (h *OrderHandler) decodeCompose(w http.ResponseWriter, r *http.Request) (*composeRequest, bool) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func toComposeRequest(req *composeRequest, orderID *int64) order.ComposeRequest {
	cr := order.ComposeRequest{
		OrderID:      orderID,
		CustomerName: req.CustomerName,
		Status:       order.Status(req.Status),
		Note:         req.Note,
		Paid:         req.Paid,
		Items:        make([]order.ItemRequest, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		cr.Items = append(cr.Items, order.ItemRequest{DishID: item.DishID, Quantity: item.Quantity})
	}
	return cr
}

// writeOrderError maps service errors to HTTP statuses.
func writeOrderError(w http.ResponseWriter, err error) {
	var vErr *order.ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	default:
		log.Info().Msgf("Order operation failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// ListOrders runs the purge sweep and then returns all orders, most recent
// first. A sweep failure is logged but never blocks the listing.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.PurgeCancelled(r.Context()); err != nil {
		log.Warn().Err(err).Msg("purge sweep failed, continuing with listing")
	}

	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to list orders: %v", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}

	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}

	respondJSON(w, http.StatusOK, views)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderView(o))
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCompose(w, r)
	if !ok {
		return
	}

	id, err := h.svc.CreateOrder(r.Context(), toComposeRequest(req, nil))
	if err != nil {
		writeOrderError(w, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderView(o))
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeCompose(w, r)
	if !ok {
		return
	}

	if err := h.svc.UpdateOrder(r.Context(), toComposeRequest(req, &id)); err != nil {
		writeOrderError(w, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderView(o))
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if h.deleteSecretHash != nil {
		secret := r.Header.Get(confirmSecretHeader)
		if bcrypt.CompareHashAndPassword(h.deleteSecretHash, []byte(secret)) != nil {
			http.Error(w, "delete confirmation secret required", http.StatusForbidden)
			return
		}
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		writeOrderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelOrder is the terminal's cancel action: any order can be cancelled,
// including finished ones (a reversal).
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, order.StatusCancelled)
}

// CompleteOrder is the terminal's "recuperer" action, optionally marking the
// order paid in the same step.
func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, order.StatusFinished)
}

func (h *OrderHandler) changeStatus(w http.ResponseWriter, r *http.Request, status order.Status) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req statusChangeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := h.svc.ChangeStatus(r.Context(), id, status, req.Paid); err != nil {
		writeOrderError(w, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderView(o))
}
