package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
)

// AssessmentService produces the automated risk review of an application.
// The heuristic mirrors the scoring rules the offer engine uses but rolls
// them into a single 0-100 risk score with human-readable findings.
type AssessmentService struct {
	assessments  AssessmentRepositoryInterface
	applications LoanApplicationRepositoryInterface
}

func NewAssessmentService(assessments AssessmentRepositoryInterface, applications LoanApplicationRepositoryInterface) *AssessmentService {
	return &AssessmentService{assessments: assessments, applications: applications}
}

// Assess runs the heuristic review and persists the result.
func (s *AssessmentService) Assess(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.NotFound("application")
		}
		return nil, err
	}

	assessment := evaluate(app)
	assessment.ApplicationID = applicationID

	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("persisting assessment: %w", err)
	}
	return assessment, nil
}

// Latest returns the most recent assessment for an application.
func (s *AssessmentService) Latest(ctx context.Context, applicationID uuid.UUID) (*model.AIAssessment, error) {
	assessment, err := s.assessments.GetByApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return nil, apperror.NotFound("assessment")
		}
		return nil, err
	}
	return assessment, nil
}

func evaluate(app *model.LoanApplication) *model.AIAssessment {
	profile := app.Profile()
	score := 0
	var findings model.StringList

	// Credit standing: up to 40 points of risk
	switch {
	case profile.CreditScore >= 740:
		findings = append(findings, "Excellent credit history")
	case profile.CreditScore >= 670:
		score += 10
		findings = append(findings, "Good credit standing")
	case profile.CreditScore >= 580:
		score += 25
		findings = append(findings, "Fair credit score may limit offers")
	default:
		score += 40
		findings = append(findings, "Poor credit score is a significant risk factor")
	}

	// Debt burden: up to 30 points
	dti := profile.DTI()
	switch {
	case dti <= 0.20:
		findings = append(findings, "Low debt-to-income ratio")
	case dti <= 0.36:
		score += 10
		findings = append(findings, "Moderate debt load")
	case dti <= 0.50:
		score += 20
		findings = append(findings, "Elevated debt-to-income ratio")
	default:
		score += 30
		findings = append(findings, "Debt obligations exceed half of monthly income")
	}

	// Loan size relative to annual income: up to 20 points
	annualIncome := profile.MonthlyIncome.Mul(decimal.NewFromInt(12))
	if annualIncome.IsPositive() {
		ratio, _ := profile.LoanAmount.Div(annualIncome).Float64()
		switch {
		case ratio <= 0.5:
			findings = append(findings, "Requested amount is conservative relative to income")
		case ratio <= 1.0:
			score += 10
		default:
			score += 20
			findings = append(findings, "Requested amount exceeds annual income")
		}
	} else {
		score += 20
		findings = append(findings, "No reported income")
	}

	// Existing obligations: 10 points
	if app.HasExistingLoans {
		score += 10
		findings = append(findings, "Applicant carries existing loans")
	}

	band := model.RiskBandLow
	recommendation := "Proceed with standard processing"
	switch {
	case score >= 60:
		band = model.RiskBandHigh
		recommendation = "Route to senior approver for manual review"
	case score >= 30:
		band = model.RiskBandModerate
		recommendation = "Request supporting income documents before approval"
	}

	return &model.AIAssessment{
		RiskScore:      score,
		RiskBand:       band,
		Findings:       findings,
		Recommendation: recommendation,
	}
}
