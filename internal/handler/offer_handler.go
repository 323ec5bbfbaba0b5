package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/model"
)

// OfferServiceInterface for handler testing
type OfferServiceInterface interface {
	GenerateOffers(ctx context.Context, applicationID uuid.UUID, lenderIDs []string) ([]model.Offer, error)
	ListOffers(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error)
}

type OfferHandler struct {
	offerService OfferServiceInterface
}

func NewOfferHandler(offerService OfferServiceInterface) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

type generateOffersInput struct {
	LenderIDs []string `json:"lenderIds,omitempty"`
}

// Generate godoc
// @Summary Generate offers
// @Description Match the application against active lenders and persist the resulting offers
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body generateOffersInput false "Optional lender selection"
// @Success 200 {array} model.Offer
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/me/offers [post]
func (h *OfferHandler) Generate(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Body is optional: an empty body means "match against every active lender".
	var input generateOffersInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offers, err := h.offerService.GenerateOffers(r.Context(), applicationID, input.LenderIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, offers)
}

// List godoc
// @Summary List offers
// @Description Offers for the session's application, cheapest rate first
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Offer
// @Failure 401 {object} ErrorResponse
// @Router /applications/me/offers [get]
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	offers, err := h.offerService.ListOffers(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, offers)
}
