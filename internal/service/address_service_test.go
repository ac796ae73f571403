package service

import (
	"context"
	"testing"

	"furnistore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func addressRequest(postalCode string) *model.AddressRequest {
	return &model.AddressRequest{
		Name:       "Asha Verma",
		Phone:      "9876543210",
		Line1:      "12 Hazratganj",
		City:       "Lucknow",
		State:      "Uttar Pradesh",
		PostalCode: postalCode,
	}
}

func TestAddressService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Valid address", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAddressService(repo, zerolog.Nop())
		repo.On("Create", ctx, mock.MatchedBy(func(a *model.Address) bool {
			return a.UserID == userID && a.PostalCode == "226001" && a.ID != uuid.Nil
		})).Return(nil)

		address, err := svc.Create(ctx, userID, addressRequest("226001"))

		require.NoError(t, err)
		assert.Equal(t, "Lucknow", address.City)
		assert.False(t, address.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("PIN starting with zero", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAddressService(repo, zerolog.Nop())

		_, err := svc.Create(ctx, userID, addressRequest("026001"))

		assert.Equal(t, model.ErrInvalidPostalCode, err)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestAddressService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	id := uuid.New()

	t.Run("Owned address", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAddressService(repo, zerolog.Nop())
		repo.On("Update", ctx, mock.MatchedBy(func(a *model.Address) bool {
			return a.ID == id && a.UserID == userID
		})).Return(true, nil)

		address, err := svc.Update(ctx, userID, id, addressRequest("560001"))

		require.NoError(t, err)
		assert.Equal(t, "560001", address.PostalCode)
	})

	t.Run("Unknown address", func(t *testing.T) {
		repo := new(MockAddressRepository)
		svc := NewAddressService(repo, zerolog.Nop())
		repo.On("Update", ctx, mock.Anything).Return(false, nil)

		_, err := svc.Update(ctx, userID, id, addressRequest("560001"))

		assert.Equal(t, model.ErrAddressNotFound, err)
	})
}

func TestAddressService_DeleteAndDefault(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	id := uuid.New()

	repo := new(MockAddressRepository)
	svc := NewAddressService(repo, zerolog.Nop())
	repo.On("Delete", ctx, userID, id).Return(true, nil).Once()
	repo.On("Delete", ctx, userID, id).Return(false, nil).Once()
	repo.On("SetDefault", ctx, userID, id).Return(false, nil)

	assert.NoError(t, svc.Delete(ctx, userID, id))
	assert.Equal(t, model.ErrAddressNotFound, svc.Delete(ctx, userID, id))
	assert.Equal(t, model.ErrAddressNotFound, svc.SetDefault(ctx, userID, id))
}
