package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplicantProfile is the financial snapshot used as scoring input.
// It is derived per request and never persisted on its own.
type ApplicantProfile struct {
	CreditScore      int             `json:"creditScore"` // 300-850
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyDebt      decimal.Decimal `json:"monthlyDebt"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	LoanTermMonths   int             `json:"loanTermMonths"`
	EmploymentStatus string          `json:"employmentStatus,omitempty"`
	HasExistingLoans bool            `json:"hasExistingLoans,omitempty"`
}

// DTI returns the debt-to-income ratio. Zero income means the ratio is
// undefined; it is reported as 1.0 so downstream rules treat it as maxed out.
func (p ApplicantProfile) DTI() float64 {
	if p.MonthlyIncome.IsZero() {
		return 1.0
	}
	ratio, _ := p.MonthlyDebt.Div(p.MonthlyIncome).Float64()
	return ratio
}

type OfferStatus string

const (
	OfferStatusPending              OfferStatus = "pending"
	OfferStatusApproved             OfferStatus = "approved"
	OfferStatusRejected             OfferStatus = "rejected"
	OfferStatusExpired              OfferStatus = "expired"
	OfferStatusAccepted             OfferStatus = "accepted"
	OfferStatusAwaitingDisbursement OfferStatus = "awaiting_disbursement"
)

// Offer is a priced, lender-specific loan proposal for one application.
type Offer struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	ApplicationID        uuid.UUID       `db:"application_id" json:"applicationId"`
	LenderID             string          `db:"lender_id" json:"lenderId"`
	LenderName           string          `db:"lender_name" json:"lenderName"`
	LenderLogo           string          `db:"lender_logo" json:"lenderLogo,omitempty"`
	LoanAmount           decimal.Decimal `db:"loan_amount" json:"loanAmount"`
	InterestRate         decimal.Decimal `db:"interest_rate" json:"interestRate"` // APR as percentage
	TermMonths           int             `db:"term_months" json:"termMonths"`
	MonthlyPayment       decimal.Decimal `db:"monthly_payment" json:"monthlyPayment"`
	TotalInterest        decimal.Decimal `db:"total_interest" json:"totalInterest"`
	TotalPayment         decimal.Decimal `db:"total_payment" json:"totalPayment"`
	ProcessingFeePercent decimal.Decimal `db:"processing_fee_percent" json:"processingFeePercent"`
	ProcessingFeeAmount  decimal.Decimal `db:"processing_fee_amount" json:"processingFeeAmount"`
	ApprovalProbability  float64         `db:"approval_probability" json:"approvalProbability"` // 0-1
	EstimatedApproval    string          `db:"estimated_approval" json:"estimatedApprovalTime"`
	IsRecommended        bool            `db:"is_recommended" json:"isRecommended"`
	RecommendationReason *string         `db:"recommendation_reason" json:"recommendationReason,omitempty"`
	Status               OfferStatus     `db:"status" json:"status"`
	RejectedReason       *string         `db:"rejected_reason" json:"rejectedReason,omitempty"`
	ExpiresAt            time.Time       `db:"expires_at" json:"expiresAt"`
	AcceptedAt           *time.Time      `db:"accepted_at" json:"acceptedAt,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updatedAt"`
}

type BankApplicationStatus string

const (
	BankAppSubmitted            BankApplicationStatus = "submitted"
	BankAppUnderReview          BankApplicationStatus = "under_review"
	BankAppApproved             BankApplicationStatus = "approved"
	BankAppRejected             BankApplicationStatus = "rejected"
	BankAppWithdrawn            BankApplicationStatus = "withdrawn"
	BankAppAccepted             BankApplicationStatus = "accepted"
	BankAppPendingFinalApproval BankApplicationStatus = "pending_final_approval"
	BankAppFullyApproved        BankApplicationStatus = "fully_approved"
	BankAppDisbursed            BankApplicationStatus = "disbursed"
)

// BankApplication tracks one lender's view of a loan application. Every
// generated offer materializes exactly one of these; at most one per parent
// application ever reaches accepted/pending_final_approval.
type BankApplication struct {
	ID              uuid.UUID             `db:"id" json:"id"`
	ApplicationID   uuid.UUID             `db:"application_id" json:"applicationId"`
	LenderID        string                `db:"lender_id" json:"lenderId"`
	LenderName      string                `db:"lender_name" json:"lenderName"`
	AppliedAmount   decimal.Decimal       `db:"applied_amount" json:"appliedAmount"`
	AppliedTerm     int                   `db:"applied_term" json:"appliedTerm"`
	Status          BankApplicationStatus `db:"status" json:"status"`
	StatusUpdatedAt time.Time             `db:"status_updated_at" json:"statusUpdatedAt"`
	OfferID         *uuid.UUID            `db:"offer_id" json:"offerId,omitempty"`
	Offer           *Offer                `db:"-" json:"offer,omitempty"`
	SubmittedAt     time.Time             `db:"submitted_at" json:"submittedAt"`
	ReviewedAt      *time.Time            `db:"reviewed_at" json:"reviewedAt,omitempty"`
	DecidedAt       *time.Time            `db:"decided_at" json:"decidedAt,omitempty"`
	Notes           *string               `db:"notes" json:"notes,omitempty"`
	RejectionReason *string               `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time             `db:"updated_at" json:"updatedAt"`
}

// LoanApplication is the parent record created once per applicant session.
// Once an offer is accepted, the accepted lender's terms are copied onto it
// as a denormalized snapshot for downstream display.
type LoanApplication struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	ApplicantName    string          `db:"applicant_name" json:"applicantName"`
	ApplicantEmail   string          `db:"applicant_email" json:"applicantEmail"`
	CreditScore      int             `db:"credit_score" json:"creditScore"`
	MonthlyIncome    decimal.Decimal `db:"monthly_income" json:"monthlyIncome"`
	MonthlyDebt      decimal.Decimal `db:"monthly_debt" json:"monthlyDebt"`
	RequestedAmount  decimal.Decimal `db:"requested_amount" json:"requestedAmount"`
	RequestedTerm    int             `db:"requested_term" json:"requestedTerm"`
	EmploymentStatus string          `db:"employment_status" json:"employmentStatus"`
	HasExistingLoans bool            `db:"has_existing_loans" json:"hasExistingLoans"`
	Currency         string          `db:"currency" json:"currency"`
	IdentityVerified bool            `db:"identity_verified" json:"identityVerified"`
	IncomeVerified   bool            `db:"income_verified" json:"incomeVerified"`

	// Accepted-offer snapshot, filled by the accept-offer transition.
	AcceptedBankID        *string          `db:"accepted_bank_id" json:"acceptedBankId,omitempty"`
	AcceptedBankName      *string          `db:"accepted_bank_name" json:"acceptedBankName,omitempty"`
	AcceptedBankLogo      *string          `db:"accepted_bank_logo" json:"acceptedBankLogo,omitempty"`
	AcceptedOfferRate     *decimal.Decimal `db:"accepted_offer_rate" json:"acceptedOfferRate,omitempty"`
	AcceptedOfferTerm     *int             `db:"accepted_offer_term" json:"acceptedOfferTerm,omitempty"`
	AcceptedOfferAmount   *decimal.Decimal `db:"accepted_offer_amount" json:"acceptedOfferAmount,omitempty"`
	AcceptedMonthlyAmort  *decimal.Decimal `db:"accepted_monthly_amort" json:"acceptedMonthlyAmortization,omitempty"`
	AcceptedTotalInterest *decimal.Decimal `db:"accepted_total_interest" json:"acceptedTotalInterest,omitempty"`
	AcceptedProcessingFee *decimal.Decimal `db:"accepted_processing_fee" json:"acceptedProcessingFee,omitempty"`
	AcceptedAt            *time.Time       `db:"accepted_at" json:"acceptedAt,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Profile builds the scoring input from the persisted application fields.
func (a *LoanApplication) Profile() ApplicantProfile {
	return ApplicantProfile{
		CreditScore:      a.CreditScore,
		MonthlyIncome:    a.MonthlyIncome,
		MonthlyDebt:      a.MonthlyDebt,
		LoanAmount:       a.RequestedAmount,
		LoanTermMonths:   a.RequestedTerm,
		EmploymentStatus: a.EmploymentStatus,
		HasExistingLoans: a.HasExistingLoans,
	}
}

type RiskBand string

const (
	RiskBandLow      RiskBand = "low"
	RiskBandModerate RiskBand = "moderate"
	RiskBandHigh     RiskBand = "high"
)

// AIAssessment is the automated heuristic review of a loan application.
type AIAssessment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ApplicationID  uuid.UUID  `db:"application_id" json:"applicationId"`
	RiskScore      int        `db:"risk_score" json:"riskScore"` // 0-100, higher is riskier
	RiskBand       RiskBand   `db:"risk_band" json:"riskBand"`
	Findings       StringList `db:"findings" json:"findings"`
	Recommendation string     `db:"recommendation" json:"recommendation"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// StatusHistoryEntry is an append-only audit row written on every lifecycle
// transition of an offer or bank application.
type StatusHistoryEntry struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationID uuid.UUID `db:"application_id" json:"applicationId"`
	LenderID      *string   `db:"lender_id" json:"lenderId,omitempty"`
	Entity        string    `db:"entity" json:"entity"` // "offer" or "bank_application"
	FromStatus    string    `db:"from_status" json:"fromStatus"`
	ToStatus      string    `db:"to_status" json:"toStatus"`
	Reason        *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// ApproverAction records a manual decision taken on a bank application.
type ApproverAction struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationID uuid.UUID `db:"application_id" json:"applicationId"`
	LenderID      string    `db:"lender_id" json:"lenderId"`
	Approver      string    `db:"approver" json:"approver"`
	Action        string    `db:"action" json:"action"` // review, approve, reject, finalize, disburse
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
