package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curia-dev/curia/pkg/store"
)

// FavouriteService manages the favourite model list.
type FavouriteService struct {
	store *store.Store
}

// NewFavouriteService creates a new FavouriteService
func NewFavouriteService(st *store.Store) *FavouriteService {
	return &FavouriteService{store: st}
}

// List returns favourite model ids, newest first.
func (s *FavouriteService) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.Favourites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	return ids, nil
}

// Add marks a model as favourite. Adding twice is not an error.
func (s *FavouriteService) Add(ctx context.Context, modelID string) error {
	if modelID == "" {
		return NewValidationError("model_id", "required")
	}
	if err := s.store.AddFavourite(ctx, modelID); err != nil {
		return fmt.Errorf("failed to add favourite: %w", err)
	}
	slog.Info("Added favourite model", "model", modelID)
	return nil
}

// Remove unmarks a favourite model. Unknown ids succeed quietly.
func (s *FavouriteService) Remove(ctx context.Context, modelID string) error {
	if modelID == "" {
		return NewValidationError("model_id", "required")
	}
	if err := s.store.RemoveFavourite(ctx, modelID); err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}
	slog.Info("Removed favourite model", "model", modelID)
	return nil
}
