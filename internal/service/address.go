package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// AddressService is address book behavior. Every operation is scoped to
// the owning user, an address of another user is reported as absent.
type AddressService interface {
	FindAllForUser(ctx context.Context, userID string) ([]*model.Address, error)
	Create(ctx context.Context, a *model.Address) (*model.Address, error)
	Update(ctx context.Context, a *model.Address) (*model.Address, error)
	DeleteByID(ctx context.Context, userID, id string) error
	MakeDefault(ctx context.Context, userID, id string) (*model.Address, error)
}

type addressService struct {
	trx        transactor.Transactor
	addressRps repository.AddressRepository
}

// NewAddressService builds new AddressService
func NewAddressService(trx transactor.Transactor, addressRps repository.AddressRepository) AddressService {
	return &addressService{trx: trx, addressRps: addressRps}
}

func (s *addressService) FindAllForUser(ctx context.Context, userID string) ([]*model.Address, error) {
	return s.addressRps.FindByUserID(ctx, userID)
}

func (s *addressService) Create(ctx context.Context, a *model.Address) (*model.Address, error) {
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if a.Default {
			if err := s.addressRps.ClearDefault(ctx, a.UserID, a.Type); err != nil {
				return err
			}
		}
		return s.addressRps.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) Update(ctx context.Context, a *model.Address) (*model.Address, error) {
	existing, err := s.ownedAddress(ctx, a.UserID, a.ID)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if a.Default && !existing.Default {
			if err := s.addressRps.ClearDefault(ctx, a.UserID, a.Type); err != nil {
				return err
			}
		}
		return s.addressRps.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) DeleteByID(ctx context.Context, userID, id string) error {
	if _, err := s.ownedAddress(ctx, userID, id); err != nil {
		return err
	}
	return s.addressRps.DeleteByID(ctx, id)
}

func (s *addressService) MakeDefault(ctx context.Context, userID, id string) (*model.Address, error) {
	a, err := s.ownedAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if a.Default {
		return a, nil
	}

	a.Default = true
	a.UpdatedAt = time.Now().UTC()

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.addressRps.ClearDefault(ctx, userID, a.Type); err != nil {
			return err
		}
		return s.addressRps.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) ownedAddress(ctx context.Context, userID, id string) (*model.Address, error) {
	a, err := s.addressRps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.UserID != userID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "address not found")
	}
	return a, nil
}
