package service

import (
	"context"
	"fmt"
	"time"

	"furnistore/internal/delivery"
	"furnistore/internal/model"
	"furnistore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	addressRepo repository.AddressRepository
	logger      zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(addressRepo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		logger:      logger.With().Str("service", "address").Logger(),
	}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses: %w", err)
	}
	return addresses, nil
}

func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if !delivery.ValidPostalCode(req.PostalCode) {
		return nil, model.ErrInvalidPostalCode
	}

	now := time.Now()
	address := fromRequest(req)
	address.ID = uuid.New()
	address.UserID = userID
	address.CreatedAt = now
	address.UpdatedAt = now

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("address_id", address.ID.String()).
		Bool("is_default", address.IsDefault).
		Msg("address created")

	return address, nil
}

func (s *addressService) Update(ctx context.Context, userID, id uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	if !delivery.ValidPostalCode(req.PostalCode) {
		return nil, model.ErrInvalidPostalCode
	}

	address := fromRequest(req)
	address.ID = id
	address.UserID = userID
	address.UpdatedAt = time.Now()

	found, err := s.addressRepo.Update(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	if !found {
		return nil, model.ErrAddressNotFound
	}

	return address, nil
}

func (s *addressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.addressRepo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if !deleted {
		return model.ErrAddressNotFound
	}
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	found, err := s.addressRepo.SetDefault(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if !found {
		return model.ErrAddressNotFound
	}

	s.logger.Debug().Str("user_id", userID.String()).Str("address_id", id.String()).Msg("default address changed")
	return nil
}

func fromRequest(req *model.AddressRequest) *model.Address {
	return &model.Address{
		Name:       req.Name,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
}
