package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
)

// MockApplicationRepo implements LoanApplicationRepositoryInterface for testing
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *model.LoanApplication) error {
	args := m.Called(ctx, app)
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepo) List(ctx context.Context, filters repository.ApplicationFilters) ([]model.LoanApplication, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepo) Update(ctx context.Context, app *model.LoanApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

// MockOfferRepo implements OfferRepositoryInterface for testing
type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) CreateBatch(ctx context.Context, offers []model.Offer) error {
	args := m.Called(ctx, offers)
	for i := range offers {
		if offers[i].ID == uuid.Nil {
			offers[i].ID = uuid.New()
		}
	}
	return args.Error(0)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OfferStatus, reason *string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *MockOfferRepo) ExpireStale(ctx context.Context, now time.Time) ([]repository.StaleOffer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StaleOffer), args.Error(1)
}

// MockBankAppRepo implements BankApplicationRepositoryInterface for testing
type MockBankAppRepo struct {
	mock.Mock
}

func (m *MockBankAppRepo) CreateBatch(ctx context.Context, apps []model.BankApplication) error {
	args := m.Called(ctx, apps)
	return args.Error(0)
}

func (m *MockBankAppRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.BankApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankApplication), args.Error(1)
}

func (m *MockBankAppRepo) GetByLender(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error) {
	args := m.Called(ctx, applicationID, lenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankApplication), args.Error(1)
}

func (m *MockBankAppRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.BankApplication, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BankApplication), args.Error(1)
}

func (m *MockBankAppRepo) UpdateStatus(ctx context.Context, app *model.BankApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockBankAppRepo) CommitAcceptance(ctx context.Context, acceptance *repository.Acceptance) error {
	args := m.Called(ctx, acceptance)
	return args.Error(0)
}

// MockLenderRepo implements LenderRepositoryInterface for testing
type MockLenderRepo struct {
	mock.Mock
}

func (m *MockLenderRepo) Seed(ctx context.Context, lenders []model.LenderProfile) error {
	args := m.Called(ctx, lenders)
	return args.Error(0)
}

func (m *MockLenderRepo) List(ctx context.Context, activeOnly bool) ([]model.LenderProfile, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LenderProfile), args.Error(1)
}

func (m *MockLenderRepo) GetByID(ctx context.Context, id string) (*model.LenderProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderProfile), args.Error(1)
}

// MockHistoryRepo implements HistoryRepositoryInterface for testing
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Append(ctx context.Context, entry *model.StatusHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepo) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusHistoryEntry), args.Error(1)
}

func (m *MockHistoryRepo) RecordAction(ctx context.Context, action *model.ApproverAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockHistoryRepo) ListActions(ctx context.Context, applicationID uuid.UUID) ([]model.ApproverAction, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApproverAction), args.Error(1)
}

// MockAssessmentRepo implements AssessmentRepositoryInterface for testing
type MockAssessmentRepo struct {
	mock.Mock
}

func (m *MockAssessmentRepo) Create(ctx context.Context, assessment *model.AIAssessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepo) GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AIAssessment), args.Error(1)
}
