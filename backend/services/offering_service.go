package services

import (
	"context"

	"learning-platform/backend/models"
	"learning-platform/backend/store"
)

type OfferingService struct {
	store store.Store
}

func (s *OfferingService) Create(ctx context.Context, o models.ServiceOffering) (*models.ServiceOffering, error) {
	o.ID = 0
	if err := s.store.CreateOffering(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OfferingService) Get(ctx context.Context, id uint) (*models.ServiceOffering, error) {
	return s.store.GetOffering(ctx, id)
}

func (s *OfferingService) List(ctx context.Context, activeOnly bool) ([]models.ServiceOffering, error) {
	return s.store.ListOfferings(ctx, activeOnly)
}

func (s *OfferingService) Update(ctx context.Context, id uint, o models.ServiceOffering) (*models.ServiceOffering, error) {
	o.ID = id
	if err := s.store.UpdateOffering(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OfferingService) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteOffering(ctx, id)
}
