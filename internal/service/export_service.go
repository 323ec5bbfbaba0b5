package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/loanbridge/backend/internal/model"
)

// ExportService renders offer sets and acceptance summaries for download.
type ExportService struct {
	applications LoanApplicationRepositoryInterface
	offers       OfferRepositoryInterface
}

func NewExportService(applications LoanApplicationRepositoryInterface, offers OfferRepositoryInterface) *ExportService {
	return &ExportService{applications: applications, offers: offers}
}

// ExportOffersCSV exports an application's offers to CSV.
func (s *ExportService) ExportOffersCSV(ctx context.Context, applicationID uuid.UUID) ([]byte, error) {
	offers, err := s.offers.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetching offers for export: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Lender", "Interest Rate (%)", "Term (months)", "Monthly Payment", "Total Interest", "Processing Fee", "Approval Probability", "Status", "Expires At"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, o := range offers {
		row := []string{
			o.LenderName,
			o.InterestRate.StringFixed(2),
			fmt.Sprintf("%d", o.TermMonths),
			o.MonthlyPayment.StringFixed(2),
			o.TotalInterest.StringFixed(2),
			o.ProcessingFeeAmount.StringFixed(2),
			fmt.Sprintf("%.0f%%", o.ApprovalProbability*100),
			offerStatusLabel(o.Status),
			o.ExpiresAt.Format("2006-01-02"),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportAcceptanceSummaryPDF renders the accepted-offer summary for an
// application. Fails if no offer has been accepted yet.
func (s *ExportService) ExportAcceptanceSummaryPDF(ctx context.Context, applicationID uuid.UUID) ([]byte, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("fetching application for export: %w", err)
	}
	if app.AcceptedBankID == nil {
		return nil, fmt.Errorf("application %s has no accepted offer", applicationID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 12, "LoanBridge", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 14)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 8, "Loan Acceptance Summary", "", 1, "C", false, 0, "")

	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, "Accepted Offer", "", 1, "L", false, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 11)
	colWidth := float64(85)

	writeRow := func(label, value string) {
		pdf.CellFormat(colWidth, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(colWidth, 8, value, "", 1, "R", false, 0, "")
	}

	writeRow("Applicant", app.ApplicantName)
	writeRow("Lender", *app.AcceptedBankName)
	writeRow("Loan Amount", fmt.Sprintf("PHP %s", app.AcceptedOfferAmount.StringFixed(2)))
	writeRow("Interest Rate", fmt.Sprintf("%s%% p.a.", app.AcceptedOfferRate.StringFixed(2)))
	writeRow("Term", fmt.Sprintf("%d months", *app.AcceptedOfferTerm))
	writeRow("Monthly Amortization", fmt.Sprintf("PHP %s", app.AcceptedMonthlyAmort.StringFixed(2)))
	writeRow("Total Interest", fmt.Sprintf("PHP %s", app.AcceptedTotalInterest.StringFixed(2)))
	writeRow("Processing Fee", fmt.Sprintf("PHP %s", app.AcceptedProcessingFee.StringFixed(2)))
	writeRow("Accepted On", app.AcceptedAt.Format("January 2, 2006"))

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(108, 117, 125)
	pdf.MultiCell(0, 5, "This summary is for reference only. Final loan terms are subject to the lender's credit agreement and disbursement conditions.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// offerStatusLabel is used by templates and exports that show a friendly name.
func offerStatusLabel(status model.OfferStatus) string {
	switch status {
	case model.OfferStatusAwaitingDisbursement:
		return "Awaiting Disbursement"
	case model.OfferStatusAccepted:
		return "Accepted"
	case model.OfferStatusApproved:
		return "Pre-approved"
	case model.OfferStatusPending:
		return "Pending"
	case model.OfferStatusRejected:
		return "Rejected"
	case model.OfferStatusExpired:
		return "Expired"
	default:
		return string(status)
	}
}
