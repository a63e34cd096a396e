package service

import (
	"context"
	"errors"
	"strings"

	"hoyspace-api/apperr"
	"hoyspace-api/auth"
	"hoyspace-api/models"
	"hoyspace-api/repository"

	"github.com/jmoiron/sqlx"
)

type SpaceService struct {
	spaces *repository.SpaceRepository
}

func NewSpaceService(db *sqlx.DB) *SpaceService {
	return &SpaceService{spaces: repository.NewSpaceRepository(db)}
}

func (s *SpaceService) List(ctx context.Context, f models.SpaceFilter) ([]models.Space, error) {
	list, err := s.spaces.GetAll(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list spaces", err)
	}
	return list, nil
}

func (s *SpaceService) Get(ctx context.Context, id int64) (*models.Space, error) {
	space, err := s.spaces.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Space not found")
	}
	if err != nil {
		return nil, apperr.Internal("load space", err)
	}
	return space, nil
}

// HostedBy returns the ids of the spaces a user hosts.
func (s *SpaceService) HostedBy(ctx context.Context, hostID int64) ([]int64, error) {
	ids, err := s.spaces.IDsByHost(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal("list hosted spaces", err)
	}
	return ids, nil
}

// Create adds a listing hosted by the admin making the request.
func (s *SpaceService) Create(ctx context.Context, actor auth.Identity, req models.SpaceRequest) (*models.Space, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.Validation("Title is required")
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperr.Validation("Price cannot be negative")
	}

	upd := req.ToUpdate()
	space := &models.Space{Title: *req.Title, HostID: &actor.ID}
	if upd.Description != nil {
		space.Description = *upd.Description
	}
	if upd.Price != nil {
		space.Price = *upd.Price
	}
	if upd.Location != nil {
		space.Location = *upd.Location
	}
	if upd.Category != nil {
		space.Category = *upd.Category
	}
	if upd.Images != nil {
		space.Images = *upd.Images
	}
	if upd.Amenities != nil {
		space.Amenities = *upd.Amenities
	}

	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, apperr.Internal("create space", err)
	}
	return s.Get(ctx, space.ID)
}

// Update rewrites the supplied fields. A request that changes nothing returns
// the space as stored.
func (s *SpaceService) Update(ctx context.Context, actor auth.Identity, id int64, req models.SpaceRequest) (*models.Space, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.Validation("Title cannot be empty")
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperr.Validation("Price cannot be negative")
	}
	if _, err := s.spaces.Update(ctx, id, req.ToUpdate()); err != nil {
		return nil, apperr.Internal("update space", err)
	}
	return s.Get(ctx, id)
}

func (s *SpaceService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	n, err := s.spaces.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete space", err)
	}
	if n == 0 {
		return apperr.NotFound("Space not found")
	}
	return nil
}
