package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorHandler_Amortize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMonthly string
		wantTotal   string
		wantInt     string
	}{
		{
			name:        "standard loan",
			body:        `{"amount":1500000,"interestRate":7.5,"termMonths":48}`,
			wantStatus:  http.StatusOK,
			wantMonthly: "36268.35",
			wantTotal:   "1740880.80",
			wantInt:     "240880.80",
		},
		{
			name:        "zero rate splits principal evenly",
			body:        `{"amount":120000,"interestRate":0,"termMonths":12}`,
			wantStatus:  http.StatusOK,
			wantMonthly: "10000.00",
			wantTotal:   "120000.00",
			wantInt:     "0.00",
		},
		{
			name:       "non-positive amount",
			body:       `{"amount":0,"interestRate":7.5,"termMonths":48}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-positive term",
			body:       `{"amount":100000,"interestRate":7.5,"termMonths":0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewCalculatorHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/calculator/amortize", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Amortize(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var result AmortizationResult
				require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
				assert.Equal(t, tt.wantMonthly, result.MonthlyPayment.StringFixed(2))
				assert.Equal(t, tt.wantTotal, result.TotalPayment.StringFixed(2))
				assert.Equal(t, tt.wantInt, result.TotalInterest.StringFixed(2))
			}
		})
	}
}
