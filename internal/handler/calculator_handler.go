package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/loanbridge/backend/internal/service"
)

type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

type amortizationInput struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`
}

// AmortizationResult is the payment breakdown for a candidate loan.
type AmortizationResult struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalPayment   decimal.Decimal `json:"totalPayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
}

// Amortize godoc
// @Summary Amortization calculator
// @Description Monthly payment and totals for a given amount, annual rate and term
// @Tags calculator
// @Accept json
// @Produce json
// @Param input body amortizationInput true "Loan parameters"
// @Success 200 {object} AmortizationResult
// @Failure 400 {object} ErrorResponse
// @Router /calculator/amortize [post]
func (h *CalculatorHandler) Amortize(w http.ResponseWriter, r *http.Request) {
	var input amortizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	monthly, err := service.Amortize(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	total := monthly.Mul(decimal.NewFromInt(int64(input.TermMonths))).Round(2)
	respondJSON(w, http.StatusOK, AmortizationResult{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total.Sub(input.Amount).Round(2),
	})
}
