package service

import (
	"context"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/address/model"
	"pujaseva-backend/internal/domains/address/repository"
)

type AddressService interface {
	Create(ctx context.Context, userID uuid.UUID, req *model.SaveAddressRequest) (*model.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]*model.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req *model.SaveAddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type addressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req *model.SaveAddressRequest) (*model.Address, error) {
	address := &model.Address{
		ID:            uuid.New(),
		UserID:        userID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		IsDefault:     req.IsDefault,
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]*model.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ownedAddress loads an address and verifies the caller owns it.
func (s *addressService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	address, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, model.ErrNotOwner
	}
	return address, nil
}

func (s *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, req *model.SaveAddressRequest) (*model.Address, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.RecipientName = req.RecipientName
	address.Phone = req.Phone
	address.AddressLine1 = req.AddressLine1
	address.AddressLine2 = req.AddressLine2
	address.City = req.City
	address.State = req.State
	address.Pincode = req.Pincode
	address.IsDefault = req.IsDefault

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, addressID)
}

func (s *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.repo.SetDefault(ctx, userID, addressID)
}
