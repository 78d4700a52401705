package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/foyer-pos/foyer-backend/internal/dish"
)

// DishHandler handles HTTP requests for the dish catalog.
type DishHandler struct {
	svc      dish.Service
	validate *validator.Validate
}

func NewDishHandler(svc dish.Service) *DishHandler {
	return &DishHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

type dishRequest struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"required"`
}

func (h *DishHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.svc.ListDishes(r.Context())
	if err != nil {
		log.Info().Msgf("Failed to list dishes: %v", err)
		http.Error(w, "failed to list dishes", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, dishes)
}

func (h *DishHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	d, err := h.svc.GetDish(r.Context(), id)
	if err != nil {
		if errors.Is(err, dish.ErrDishNotFound) {
			http.Error(w, "dish not found", http.StatusNotFound)
			return
		}
		log.Info().Msgf("Failed to get dish: %v", err)
		http.Error(w, "failed to get dish", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

func (h *DishHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d := dish.Dish{
		Name:     req.Name,
		Price:    req.Price,
		Category: dish.Category(req.Category),
	}

	if _, err := h.svc.CreateDish(r.Context(), &d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, d)
}

func (h *DishHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req dishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d := dish.Dish{
		ID:       id,
		Name:     req.Name,
		Price:    req.Price,
		Category: dish.Category(req.Category),
	}

	if err := h.svc.UpdateDish(r.Context(), &d); err != nil {
		if errors.Is(err, dish.ErrDishNotFound) {
			http.Error(w, "dish not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

func (h *DishHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteDish(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, dish.ErrDishNotFound):
			http.Error(w, "dish not found", http.StatusNotFound)
		case errors.Is(err, dish.ErrDishInUse):
			http.Error(w, "dish is used by existing orders", http.StatusConflict)
		default:
			log.Info().Msgf("Failed to delete dish: %v", err)
			http.Error(w, "failed to delete dish", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
