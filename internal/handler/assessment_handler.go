package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/loanbridge/backend/internal/model"
)

// AssessmentServiceInterface for handler testing
type AssessmentServiceInterface interface {
	Assess(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error)
	Latest(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error)
}

type AssessmentHandler struct {
	assessmentService AssessmentServiceInterface
}

func NewAssessmentHandler(assessmentService AssessmentServiceInterface) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// Assess godoc
// @Summary Run a risk assessment
// @Description Score the session's application and persist the result
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AIAssessment
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/me/assessment [post]
func (h *AssessmentHandler) Assess(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	assessment, err := h.assessmentService.Assess(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assessment)
}

// Latest godoc
// @Summary Latest risk assessment
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AIAssessment
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/me/assessment [get]
func (h *AssessmentHandler) Latest(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	assessment, err := h.assessmentService.Latest(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assessment)
}
