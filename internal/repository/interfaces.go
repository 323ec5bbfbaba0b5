package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/model"
)

//go:generate mockery --name=LoanApplicationRepositoryInterface --output=../mocks --outpkg=mocks
type LoanApplicationRepositoryInterface interface {
	Create(ctx context.Context, app *model.LoanApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanApplication, error)
	List(ctx context.Context, filters ApplicationFilters) ([]model.LoanApplication, error)
	Update(ctx context.Context, app *model.LoanApplication) error
}

//go:generate mockery --name=OfferRepositoryInterface --output=../mocks --outpkg=mocks
type OfferRepositoryInterface interface {
	CreateBatch(ctx context.Context, offers []model.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OfferStatus, reason *string) error
	ExpireStale(ctx context.Context, now time.Time) ([]StaleOffer, error)
}

//go:generate mockery --name=BankApplicationRepositoryInterface --output=../mocks --outpkg=mocks
type BankApplicationRepositoryInterface interface {
	CreateBatch(ctx context.Context, apps []model.BankApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BankApplication, error)
	GetByLender(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.BankApplication, error)
	UpdateStatus(ctx context.Context, app *model.BankApplication) error
	CommitAcceptance(ctx context.Context, acceptance *Acceptance) error
}

//go:generate mockery --name=LenderRepositoryInterface --output=../mocks --outpkg=mocks
type LenderRepositoryInterface interface {
	Seed(ctx context.Context, lenders []model.LenderProfile) error
	List(ctx context.Context, activeOnly bool) ([]model.LenderProfile, error)
	GetByID(ctx context.Context, id string) (*model.LenderProfile, error)
}

//go:generate mockery --name=AssessmentRepositoryInterface --output=../mocks --outpkg=mocks
type AssessmentRepositoryInterface interface {
	Create(ctx context.Context, assessment *model.AIAssessment) error
	GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error)
}

//go:generate mockery --name=HistoryRepositoryInterface --output=../mocks --outpkg=mocks
type HistoryRepositoryInterface interface {
	Append(ctx context.Context, entry *model.StatusHistoryEntry) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error)
	RecordAction(ctx context.Context, action *model.ApproverAction) error
	ListActions(ctx context.Context, applicationID uuid.UUID) ([]model.ApproverAction, error)
}

// ApplicationFilters narrows List results for approver views.
type ApplicationFilters struct {
	Email  string
	Limit  int
	Offset int
}
