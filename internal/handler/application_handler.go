package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
	"github.com/loanbridge/backend/internal/service"
)

// ApplicationServiceInterface for handler testing
type ApplicationServiceInterface interface {
	Create(ctx context.Context, input service.CreateApplicationInput) (*model.LoanApplication, string, error)
	Get(ctx context.Context, id uuid.UUID) (*model.LoanApplication, []model.Offer, []model.BankApplication, error)
	List(ctx context.Context, filters repository.ApplicationFilters) ([]model.LoanApplication, error)
	History(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error)
	AcceptOffer(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.LoanApplication, error)
	Transition(ctx context.Context, applicationID uuid.UUID, lenderID string, target model.BankApplicationStatus, approver string, notes *string) (*model.BankApplication, error)
	Withdraw(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error)
}

type ApplicationHandler struct {
	applicationService ApplicationServiceInterface
}

func NewApplicationHandler(applicationService ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// CreateApplicationResponse bundles the created record with its session token.
type CreateApplicationResponse struct {
	Application *model.LoanApplication `json:"application"`
	Token       string                 `json:"token"`
}

// ApplicationDetailResponse is the full applicant-facing view.
type ApplicationDetailResponse struct {
	Application      *model.LoanApplication  `json:"application"`
	Offers           []model.Offer           `json:"offers"`
	BankApplications []model.BankApplication `json:"bankApplications"`
}

// Create godoc
// @Summary Submit a loan application
// @Description Create a loan application and receive a session token for follow-up calls
// @Tags applications
// @Accept json
// @Produce json
// @Param input body service.CreateApplicationInput true "Applicant details"
// @Success 201 {object} CreateApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, token, err := h.applicationService.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateApplicationResponse{Application: app, Token: token})
}

// Get godoc
// @Summary Get the current application
// @Description Full view of the session's application: offers and per-lender statuses
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApplicationDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/me [get]
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	app, offers, bankApps, err := h.applicationService.Get(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ApplicationDetailResponse{
		Application:      app,
		Offers:           offers,
		BankApplications: bankApps,
	})
}

type acceptOfferInput struct {
	LenderID string `json:"lenderId"`
}

// AcceptOffer godoc
// @Summary Accept one offer
// @Description Accept the chosen lender's offer; all sibling offers are rejected
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body acceptOfferInput true "Chosen lender"
// @Success 200 {object} model.LoanApplication
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "An offer was already accepted"
// @Failure 503 {object} ErrorResponse "Persistence failed, retry"
// @Router /applications/me/accept [post]
func (h *ApplicationHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input acceptOfferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.LenderID == "" {
		respondError(w, http.StatusBadRequest, "lenderId is required")
		return
	}

	app, err := h.applicationService.AcceptOffer(r.Context(), applicationID, input.LenderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, app)
}

type withdrawInput struct {
	LenderID string `json:"lenderId"`
}

// Withdraw godoc
// @Summary Withdraw from one lender
// @Description Withdraw the application submitted to a single lender
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body withdrawInput true "Lender to withdraw from"
// @Success 200 {object} model.BankApplication
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /applications/me/withdraw [post]
func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input withdrawInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.LenderID == "" {
		respondError(w, http.StatusBadRequest, "lenderId is required")
		return
	}

	bankApp, err := h.applicationService.Withdraw(r.Context(), applicationID, input.LenderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bankApp)
}

// History godoc
// @Summary Status history
// @Description Audit trail of every offer and per-lender status change
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.StatusHistoryEntry
// @Failure 401 {object} ErrorResponse
// @Router /applications/me/history [get]
func (h *ApplicationHandler) History(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.applicationService.History(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// List godoc
// @Summary List applications
// @Description Approver view over submitted applications
// @Tags approver
// @Produce json
// @Param email query string false "Filter by applicant email"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.LoanApplication
// @Failure 500 {object} ErrorResponse
// @Router /approver/applications [get]
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repository.ApplicationFilters{
		Email:  r.URL.Query().Get("email"),
		Limit:  parseIntParam(r, "limit", 50),
		Offset: parseIntParam(r, "offset", 0),
	}

	apps, err := h.applicationService.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, apps)
}

type transitionInput struct {
	Status   model.BankApplicationStatus `json:"status"`
	Approver string                      `json:"approver"`
	Notes    *string                     `json:"notes,omitempty"`
}

// Transition godoc
// @Summary Move a bank application
// @Description Apply a single per-lender status change (review, approve, reject, finalize, disburse)
// @Tags approver
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param lenderId path string true "Lender ID"
// @Param input body transitionInput true "Target status"
// @Success 200 {object} model.BankApplication
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Illegal transition"
// @Router /approver/applications/{id}/lenders/{lenderId}/status [put]
func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	lenderID := chi.URLParam(r, "lenderId")

	var input transitionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	bankApp, err := h.applicationService.Transition(r.Context(), applicationID, lenderID, input.Status, input.Approver, input.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bankApp)
}
