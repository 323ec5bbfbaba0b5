package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
)

// Consumer-side contracts for the repository layer. Implementations must be
// safe for concurrent use.

type LoanApplicationRepositoryInterface interface {
	Create(ctx context.Context, app *model.LoanApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanApplication, error)
	List(ctx context.Context, filters repository.ApplicationFilters) ([]model.LoanApplication, error)
	Update(ctx context.Context, app *model.LoanApplication) error
}

type BankApplicationRepositoryInterface interface {
	CreateBatch(ctx context.Context, apps []model.BankApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BankApplication, error)
	GetByLender(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.BankApplication, error)
	UpdateStatus(ctx context.Context, app *model.BankApplication) error
	CommitAcceptance(ctx context.Context, acceptance *repository.Acceptance) error
}

type LenderRepositoryInterface interface {
	Seed(ctx context.Context, lenders []model.LenderProfile) error
	List(ctx context.Context, activeOnly bool) ([]model.LenderProfile, error)
	GetByID(ctx context.Context, id string) (*model.LenderProfile, error)
}

type AssessmentRepositoryInterface interface {
	Create(ctx context.Context, assessment *model.AIAssessment) error
	GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error)
}

type HistoryRepositoryInterface interface {
	Append(ctx context.Context, entry *model.StatusHistoryEntry) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error)
	RecordAction(ctx context.Context, action *model.ApproverAction) error
	ListActions(ctx context.Context, applicationID uuid.UUID) ([]model.ApproverAction, error)
}
