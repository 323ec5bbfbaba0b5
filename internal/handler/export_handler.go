package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ExportServiceInterface for handler testing
type ExportServiceInterface interface {
	ExportOffersCSV(ctx context.Context, applicationID uuid.UUID) ([]byte, error)
	ExportAcceptanceSummaryPDF(ctx context.Context, applicationID uuid.UUID) ([]byte, error)
}

type ExportHandler struct {
	exportService ExportServiceInterface
}

func NewExportHandler(exportService ExportServiceInterface) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// OffersCSV godoc
// @Summary Download offers as CSV
// @Tags exports
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /applications/me/export/offers.csv [get]
func (h *ExportHandler) OffersCSV(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, err := h.exportService.ExportOffersCSV(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="offers.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// AcceptanceSummaryPDF godoc
// @Summary Download the acceptance summary as PDF
// @Description Terms of the accepted offer, for the applicant's records
// @Tags exports
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {string} string "PDF file"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No accepted offer yet"
// @Router /applications/me/export/summary.pdf [get]
func (h *ExportHandler) AcceptanceSummaryPDF(w http.ResponseWriter, r *http.Request) {
	applicationID := GetApplicationID(r.Context())
	if applicationID == uuid.Nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, err := h.exportService.ExportAcceptanceSummaryPDF(r.Context(), applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="acceptance-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
