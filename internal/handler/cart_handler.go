package handler

import (
	"net/http"

	"furnistore/internal/model"
	"furnistore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles the caller's cart and its voucher selection.
type CartHandler struct {
	carts    service.CartService
	vouchers service.VoucherService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, vouchers service.VoucherService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		vouchers: vouchers,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CartItemRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	cart, err := h.carts.AddItem(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CartQuantityRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), userID, chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectVoucher handles PUT /api/cart/voucher and returns the repriced cart.
func (h *CartHandler) SelectVoucher(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.VoucherSelectRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if _, err := h.vouchers.Select(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// ClearVoucher handles DELETE /api/cart/voucher.
func (h *CartHandler) ClearVoucher(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.vouchers.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
