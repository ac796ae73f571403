package handler

import (
	"net/http"

	"furnistore/internal/model"
	"furnistore/internal/service"

	"github.com/rs/zerolog"
)

// DeliveryHandler serves delivery promises.
type DeliveryHandler struct {
	service service.DeliveryService
	logger  zerolog.Logger
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(service service.DeliveryService, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		service: service,
		logger:  logger.With().Str("handler", "delivery").Logger(),
	}
}

// Estimate handles POST /api/delivery/estimate.
func (h *DeliveryHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req model.DeliveryEstimateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	estimate, err := h.service.Estimate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}
