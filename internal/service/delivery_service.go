package service

import (
	"context"

	"furnistore/internal/delivery"
	"furnistore/internal/geo"
	"furnistore/internal/metrics"
	"furnistore/internal/model"

	"github.com/rs/zerolog"
)

// Estimate sources reported to metrics.
const (
	sourceCoordinate = "coordinate"
	sourcePostalCode = "postal_code"
)

// deliveryService implements DeliveryService.
type deliveryService struct {
	planner *delivery.Planner
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewDeliveryService creates a delivery service around a planner.
func NewDeliveryService(planner *delivery.Planner, m *metrics.Metrics, logger zerolog.Logger) DeliveryService {
	return &deliveryService{
		planner: planner,
		metrics: m,
		logger:  logger.With().Str("service", "delivery").Logger(),
	}
}

// Estimate returns the promise for a coordinate or for a postal code.
func (s *deliveryService) Estimate(_ context.Context, req *model.DeliveryEstimateRequest) (*delivery.Estimate, error) {
	var (
		estimate delivery.Estimate
		source   string
	)

	switch {
	case req.Latitude != nil && req.Longitude != nil:
		c := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := c.Validate(); err != nil {
			s.logger.Debug().Err(err).Msg("rejected coordinate")
			return nil, model.ErrInvalidLocation
		}
		estimate = s.planner.EstimateFromCoordinate(c)
		source = sourceCoordinate
	case req.PostalCode != "":
		var err error
		estimate, err = s.planner.EstimateFromPostalCode(req.PostalCode)
		if err != nil {
			return nil, err
		}
		source = sourcePostalCode
	default:
		return nil, model.ErrInvalidLocation
	}

	s.metrics.ObserveEstimate(estimate.Days, source)
	s.logger.Debug().
		Str("source", source).
		Float64("distance_km", estimate.DistanceKm).
		Int("days", estimate.Days).
		Msg("delivery estimated")

	return &estimate, nil
}
