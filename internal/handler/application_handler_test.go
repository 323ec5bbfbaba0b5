package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
	"github.com/loanbridge/backend/internal/service"
)

// MockApplicationService implements ApplicationServiceInterface for testing
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Create(ctx context.Context, input service.CreateApplicationInput) (*model.LoanApplication, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.LoanApplication), args.String(1), args.Error(2)
}

func (m *MockApplicationService) Get(ctx context.Context, id uuid.UUID) (*model.LoanApplication, []model.Offer, []model.BankApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*model.LoanApplication), args.Get(1).([]model.Offer), args.Get(2).([]model.BankApplication), args.Error(3)
}

func (m *MockApplicationService) List(ctx context.Context, filters repository.ApplicationFilters) ([]model.LoanApplication, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) History(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusHistoryEntry), args.Error(1)
}

func (m *MockApplicationService) AcceptOffer(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.LoanApplication, error) {
	args := m.Called(ctx, applicationID, lenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoanApplication), args.Error(1)
}

func (m *MockApplicationService) Transition(ctx context.Context, applicationID uuid.UUID, lenderID string, target model.BankApplicationStatus, approver string, notes *string) (*model.BankApplication, error) {
	args := m.Called(ctx, applicationID, lenderID, target, approver, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankApplication), args.Error(1)
}

func (m *MockApplicationService) Withdraw(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error) {
	args := m.Called(ctx, applicationID, lenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BankApplication), args.Error(1)
}

// Helper to put the session's application ID in the request context
func ctxWithApplicationID(applicationID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), applicationIDContextKey, applicationID)
}

func TestApplicationHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		setupMock  func(*MockApplicationService)
		wantStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{
				"applicantName":   "Maria Santos",
				"applicantEmail":  "maria@example.com",
				"creditScore":     720,
				"monthlyIncome":   85000,
				"requestedAmount": 500000,
				"requestedTerm":   36,
			},
			setupMock: func(m *MockApplicationService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("service.CreateApplicationInput")).Return(&model.LoanApplication{
					ID:             uuid.New(),
					ApplicantName:  "Maria Santos",
					ApplicantEmail: "maria@example.com",
				}, "token-123", nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid body",
			body:       "not json",
			setupMock:  func(m *MockApplicationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: map[string]interface{}{
				"applicantName": "Maria Santos",
			},
			setupMock: func(m *MockApplicationService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("service.CreateApplicationInput")).
					Return(nil, "", apperror.ValidationError("applicantEmail", "is required"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockApplicationService)
			tt.setupMock(mockService)
			handler := NewApplicationHandler(mockService)

			var body bytes.Buffer
			switch v := tt.body.(type) {
			case string:
				body.WriteString(v)
			default:
				_ = json.NewEncoder(&body).Encode(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/applications", &body)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				var resp CreateApplicationResponse
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "token-123", resp.Token)
				assert.Equal(t, "Maria Santos", resp.Application.ApplicantName)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestApplicationHandler_Get(t *testing.T) {
	t.Parallel()

	applicationID := uuid.New()
	mockService := new(MockApplicationService)
	mockService.On("Get", mock.Anything, applicationID).Return(
		&model.LoanApplication{ID: applicationID},
		[]model.Offer{{ID: uuid.New(), ApplicationID: applicationID, LenderID: "bdo"}},
		[]model.BankApplication{{ID: uuid.New(), ApplicationID: applicationID, LenderID: "bdo"}},
		nil,
	)
	handler := NewApplicationHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/applications/me", nil).
		WithContext(ctxWithApplicationID(applicationID))
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ApplicationDetailResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, applicationID, resp.Application.ID)
	assert.Len(t, resp.Offers, 1)
	assert.Len(t, resp.BankApplications, 1)
}

func TestApplicationHandler_Get_Unauthorized(t *testing.T) {
	t.Parallel()

	handler := NewApplicationHandler(new(MockApplicationService))

	req := httptest.NewRequest(http.MethodGet, "/api/applications/me", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationHandler_AcceptOffer(t *testing.T) {
	t.Parallel()

	applicationID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockApplicationService)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"lenderId":"bdo"}`,
			setupMock: func(m *MockApplicationService) {
				m.On("AcceptOffer", mock.Anything, applicationID, "bdo").
					Return(&model.LoanApplication{ID: applicationID}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing lender",
			body:       `{}`,
			setupMock:  func(m *MockApplicationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "sibling already accepted",
			body: `{"lenderId":"bdo"}`,
			setupMock: func(m *MockApplicationService) {
				m.On("AcceptOffer", mock.Anything, applicationID, "bdo").
					Return(nil, apperror.Conflict("an offer has already been accepted"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "persistence failed",
			body: `{"lenderId":"bdo"}`,
			setupMock: func(m *MockApplicationService) {
				m.On("AcceptOffer", mock.Anything, applicationID, "bdo").
					Return(nil, apperror.PersistenceFailed(errors.New("connection reset")))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockApplicationService)
			tt.setupMock(mockService)
			handler := NewApplicationHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/applications/me/accept", bytes.NewBufferString(tt.body)).
				WithContext(ctxWithApplicationID(applicationID))
			w := httptest.NewRecorder()

			handler.AcceptOffer(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestApplicationHandler_List(t *testing.T) {
	t.Parallel()

	mockService := new(MockApplicationService)
	mockService.On("List", mock.Anything, repository.ApplicationFilters{
		Email:  "maria@example.com",
		Limit:  10,
		Offset: 0,
	}).Return([]model.LoanApplication{{ID: uuid.New()}}, nil)
	handler := NewApplicationHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/approver/applications?email=maria@example.com&limit=10", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestApplicationHandler_Transition(t *testing.T) {
	t.Parallel()

	applicationID := uuid.New()

	tests := []struct {
		name       string
		urlID      string
		body       string
		setupMock  func(*MockApplicationService)
		wantStatus int
	}{
		{
			name:  "success",
			urlID: applicationID.String(),
			body:  `{"status":"under_review","approver":"ops@loanbridge.ph"}`,
			setupMock: func(m *MockApplicationService) {
				m.On("Transition", mock.Anything, applicationID, "bdo", model.BankAppUnderReview, "ops@loanbridge.ph", (*string)(nil)).
					Return(&model.BankApplication{Status: model.BankAppUnderReview}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid application id",
			urlID:      "not-a-uuid",
			body:       `{"status":"under_review"}`,
			setupMock:  func(m *MockApplicationService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "illegal transition",
			urlID: applicationID.String(),
			body:  `{"status":"disbursed","approver":"ops@loanbridge.ph"}`,
			setupMock: func(m *MockApplicationService) {
				m.On("Transition", mock.Anything, applicationID, "bdo", model.BankAppDisbursed, "ops@loanbridge.ph", (*string)(nil)).
					Return(nil, apperror.Conflict("illegal status transition"))
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockApplicationService)
			tt.setupMock(mockService)
			handler := NewApplicationHandler(mockService)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			rctx.URLParams.Add("lenderId", "bdo")

			req := httptest.NewRequest(http.MethodPut, "/api/approver/applications/"+tt.urlID+"/lenders/bdo/status", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.Transition(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestApplicationHandler_Withdraw(t *testing.T) {
	t.Parallel()

	applicationID := uuid.New()
	mockService := new(MockApplicationService)
	mockService.On("Withdraw", mock.Anything, applicationID, "tonik").
		Return(&model.BankApplication{Status: model.BankAppWithdrawn}, nil)
	handler := NewApplicationHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/applications/me/withdraw", bytes.NewBufferString(`{"lenderId":"tonik"}`)).
		WithContext(ctxWithApplicationID(applicationID))
	w := httptest.NewRecorder()

	handler.Withdraw(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.BankApplication
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.BankAppWithdrawn, resp.Status)
	mockService.AssertExpectations(t)
}
