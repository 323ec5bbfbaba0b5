package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loanbridge/backend/internal/model"
)

// LenderServiceInterface for handler testing
type LenderServiceInterface interface {
	List(ctx context.Context, includeInactive bool) ([]model.LenderProfile, error)
	Get(ctx context.Context, id string) (*model.LenderProfile, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type LenderHandler struct {
	lenderService LenderServiceInterface
}

func NewLenderHandler(lenderService LenderServiceInterface) *LenderHandler {
	return &LenderHandler{lenderService: lenderService}
}

// List godoc
// @Summary List lenders
// @Description Lender catalog with published rate ranges and eligibility bounds
// @Tags lenders
// @Produce json
// @Param includeInactive query bool false "Include inactive lenders"
// @Success 200 {array} model.LenderProfile
// @Failure 500 {object} ErrorResponse
// @Router /lenders [get]
func (h *LenderHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	lenders, err := h.lenderService.List(r.Context(), includeInactive)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lenders)
}

// Get godoc
// @Summary Get a lender
// @Tags lenders
// @Produce json
// @Param id path string true "Lender ID"
// @Success 200 {object} model.LenderProfile
// @Failure 404 {object} ErrorResponse
// @Router /lenders/{id} [get]
func (h *LenderHandler) Get(w http.ResponseWriter, r *http.Request) {
	lender, err := h.lenderService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lender)
}

// Seed godoc
// @Summary Seed the lender catalog
// @Description Upsert the built-in Philippine lender profiles
// @Tags lenders
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} ErrorResponse
// @Router /lenders/seed [post]
func (h *LenderHandler) Seed(w http.ResponseWriter, r *http.Request) {
	count, err := h.lenderService.SeedDefaults(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"seeded": count})
}
