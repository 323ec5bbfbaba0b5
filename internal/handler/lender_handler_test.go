package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/model"
)

// MockLenderService implements LenderServiceInterface for testing
type MockLenderService struct {
	mock.Mock
}

func (m *MockLenderService) List(ctx context.Context, includeInactive bool) ([]model.LenderProfile, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LenderProfile), args.Error(1)
}

func (m *MockLenderService) Get(ctx context.Context, id string) (*model.LenderProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LenderProfile), args.Error(1)
}

func (m *MockLenderService) SeedDefaults(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestLenderHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		query           string
		includeInactive bool
	}{
		{name: "active only by default", query: "", includeInactive: false},
		{name: "include inactive", query: "?includeInactive=true", includeInactive: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockLenderService)
			mockService.On("List", mock.Anything, tt.includeInactive).Return([]model.LenderProfile{
				{ID: "bdo", Name: "BDO Unibank"},
			}, nil)
			handler := NewLenderHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/lenders"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var lenders []model.LenderProfile
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&lenders))
			assert.Len(t, lenders, 1)
			mockService.AssertExpectations(t)
		})
	}
}

func TestLenderHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		mockService := new(MockLenderService)
		mockService.On("Get", mock.Anything, "bdo").Return(&model.LenderProfile{ID: "bdo", Name: "BDO Unibank"}, nil)
		handler := NewLenderHandler(mockService)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "bdo")
		req := httptest.NewRequest(http.MethodGet, "/api/lenders/bdo", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		handler.Get(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		mockService := new(MockLenderService)
		mockService.On("Get", mock.Anything, "ghost").Return(nil, apperror.NotFound("lender"))
		handler := NewLenderHandler(mockService)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "ghost")
		req := httptest.NewRequest(http.MethodGet, "/api/lenders/ghost", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()

		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLenderHandler_Seed(t *testing.T) {
	t.Parallel()

	mockService := new(MockLenderService)
	mockService.On("SeedDefaults", mock.Anything).Return(8, nil)
	handler := NewLenderHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/lenders/seed", nil)
	w := httptest.NewRecorder()

	handler.Seed(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 8, resp["seeded"])
	mockService.AssertExpectations(t)
}
