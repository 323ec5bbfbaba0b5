package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/logger"
	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
)

// LenderService exposes the lender directory and its seed routine.
type LenderService struct {
	repo LenderRepositoryInterface
}

func NewLenderService(repo LenderRepositoryInterface) *LenderService {
	return &LenderService{repo: repo}
}

// SeedDefaults upserts the built-in Philippine lender catalog.
func (s *LenderService) SeedDefaults(ctx context.Context) (int, error) {
	if err := s.repo.Seed(ctx, model.PhilippineLenders); err != nil {
		return 0, fmt.Errorf("seeding lenders: %w", err)
	}
	logger.FromContext(ctx).Info("lender catalog seeded", "count", len(model.PhilippineLenders))
	return len(model.PhilippineLenders), nil
}

// List returns lenders; only active ones unless includeInactive is set.
func (s *LenderService) List(ctx context.Context, includeInactive bool) ([]model.LenderProfile, error) {
	return s.repo.List(ctx, !includeInactive)
}

func (s *LenderService) Get(ctx context.Context, id string) (*model.LenderProfile, error) {
	lender, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLenderNotFound) {
			return nil, apperror.NotFound("lender")
		}
		return nil, err
	}
	return lender, nil
}
