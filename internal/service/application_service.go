package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/config"
	"github.com/loanbridge/backend/internal/logger"
	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
	"github.com/loanbridge/backend/pkg/currency"
)

const rejectedReasonSiblingAccepted = "Another offer was accepted"

// Legal per-lender status transitions. Withdrawn is reachable from any
// non-terminal state and handled separately.
var bankAppTransitions = map[model.BankApplicationStatus][]model.BankApplicationStatus{
	model.BankAppSubmitted:            {model.BankAppUnderReview},
	model.BankAppUnderReview:          {model.BankAppApproved, model.BankAppRejected},
	model.BankAppApproved:             {model.BankAppAccepted, model.BankAppRejected},
	model.BankAppAccepted:             {model.BankAppPendingFinalApproval},
	model.BankAppPendingFinalApproval: {model.BankAppFullyApproved, model.BankAppRejected},
	model.BankAppFullyApproved:        {model.BankAppDisbursed},
}

var terminalBankAppStatuses = map[model.BankApplicationStatus]bool{
	model.BankAppRejected:  true,
	model.BankAppWithdrawn: true,
	model.BankAppDisbursed: true,
}

// ApplicationService manages the loan application lifecycle: creation,
// session tokens, the accept-offer transition and the per-lender status
// machine.
type ApplicationService struct {
	applications LoanApplicationRepositoryInterface
	bankApps     BankApplicationRepositoryInterface
	offers       OfferRepositoryInterface
	history      HistoryRepositoryInterface
	cfg          *config.Config
	now          func() time.Time
}

func NewApplicationService(
	applications LoanApplicationRepositoryInterface,
	bankApps BankApplicationRepositoryInterface,
	offers OfferRepositoryInterface,
	history HistoryRepositoryInterface,
	cfg *config.Config,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		bankApps:     bankApps,
		offers:       offers,
		history:      history,
		cfg:          cfg,
		now:          time.Now,
	}
}

type CreateApplicationInput struct {
	ApplicantName    string          `json:"applicantName"`
	ApplicantEmail   string          `json:"applicantEmail"`
	CreditScore      int             `json:"creditScore"`
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyDebt      decimal.Decimal `json:"monthlyDebt"`
	RequestedAmount  decimal.Decimal `json:"requestedAmount"`
	RequestedTerm    int             `json:"requestedTerm"`
	EmploymentStatus string          `json:"employmentStatus"`
	HasExistingLoans bool            `json:"hasExistingLoans"`
	Currency         string          `json:"currency"`
}

// Create validates the applicant's input, persists the application and issues
// a session token scoped to it.
func (s *ApplicationService) Create(ctx context.Context, input CreateApplicationInput) (*model.LoanApplication, string, error) {
	if input.ApplicantName == "" {
		return nil, "", apperror.ValidationError("applicantName", "is required")
	}
	if input.ApplicantEmail == "" {
		return nil, "", apperror.ValidationError("applicantEmail", "is required")
	}
	if input.CreditScore < 300 || input.CreditScore > 850 {
		return nil, "", apperror.ValidationError("creditScore", "must be between 300 and 850")
	}
	if !input.RequestedAmount.IsPositive() {
		return nil, "", apperror.ValidationError("requestedAmount", "must be positive")
	}
	if input.RequestedTerm <= 0 {
		return nil, "", apperror.ValidationError("requestedTerm", "must be positive")
	}
	if input.MonthlyIncome.IsNegative() || input.MonthlyDebt.IsNegative() {
		return nil, "", apperror.ValidationError("monthlyIncome", "must not be negative")
	}

	curr := input.Currency
	if curr == "" {
		curr = string(currency.DefaultCurrency)
	}
	if !currency.IsValid(curr) {
		return nil, "", apperror.ValidationError("currency", "is not supported")
	}

	app := &model.LoanApplication{
		ApplicantName:    input.ApplicantName,
		ApplicantEmail:   input.ApplicantEmail,
		CreditScore:      input.CreditScore,
		MonthlyIncome:    input.MonthlyIncome,
		MonthlyDebt:      input.MonthlyDebt,
		RequestedAmount:  input.RequestedAmount,
		RequestedTerm:    input.RequestedTerm,
		EmploymentStatus: input.EmploymentStatus,
		HasExistingLoans: input.HasExistingLoans,
		Currency:         curr,
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, "", fmt.Errorf("creating application: %w", err)
	}

	token, err := generateToken(app.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing session token: %w", err)
	}

	return app, token, nil
}

// Get returns the application with its offers and per-lender applications.
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*model.LoanApplication, []model.Offer, []model.BankApplication, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, nil, nil, apperror.NotFound("application")
		}
		return nil, nil, nil, err
	}

	offers, err := s.offers.ListByApplication(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading offers: %w", err)
	}

	bankApps, err := s.bankApps.ListByApplication(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading bank applications: %w", err)
	}

	// Embed accepted/current offers into their bank application views.
	byID := make(map[uuid.UUID]*model.Offer, len(offers))
	for i := range offers {
		byID[offers[i].ID] = &offers[i]
	}
	for i := range bankApps {
		if bankApps[i].OfferID != nil {
			bankApps[i].Offer = byID[*bankApps[i].OfferID]
		}
	}

	return app, offers, bankApps, nil
}

func (s *ApplicationService) List(ctx context.Context, filters repository.ApplicationFilters) ([]model.LoanApplication, error) {
	return s.applications.List(ctx, filters)
}

func (s *ApplicationService) History(ctx context.Context, applicationID uuid.UUID) ([]model.StatusHistoryEntry, error) {
	return s.history.ListByApplication(ctx, applicationID)
}

// AcceptOffer performs the accept-one, reject-the-rest transition. All new
// states are staged in memory first, then committed as one transaction with a
// bounded retry. A second acceptance attempt is a conflict.
func (s *ApplicationService) AcceptOffer(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.LoanApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.NotFound("application")
		}
		return nil, err
	}

	offers, err := s.offers.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("loading offers: %w", err)
	}
	bankApps, err := s.bankApps.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("loading bank applications: %w", err)
	}

	for i := range bankApps {
		if bankApps[i].Status == model.BankAppAccepted || bankApps[i].Status == model.BankAppPendingFinalApproval {
			return nil, apperror.Conflict("an offer has already been accepted for this application")
		}
	}

	acceptance, err := s.stageAcceptance(app, offers, bankApps, lenderID)
	if err != nil {
		return nil, err
	}

	commit := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AcceptPersistTimeout)
		defer cancel()
		return s.bankApps.CommitAcceptance(attemptCtx, acceptance)
	}

	retryCfg := DefaultRetryConfig()
	retryCfg.MaxAttempts = s.cfg.AcceptPersistAttempts
	if err := WithRetry(ctx, retryCfg, logger.FromContext(ctx), commit); err != nil {
		// Staged states are computed but not durable; the caller decides
		// whether to retry or surface the failure to the applicant.
		return nil, apperror.PersistenceFailed(err)
	}

	logger.FromContext(ctx).Info("offer accepted",
		"application_id", applicationID,
		"lender_id", lenderID)

	return app, nil
}

// stageAcceptance computes every new state for the transition without
// touching storage.
func (s *ApplicationService) stageAcceptance(
	app *model.LoanApplication,
	offers []model.Offer,
	bankApps []model.BankApplication,
	lenderID string,
) (*repository.Acceptance, error) {
	now := s.now()

	var chosen *model.Offer
	for i := range offers {
		if offers[i].LenderID == lenderID {
			chosen = &offers[i]
			break
		}
	}
	if chosen == nil {
		return nil, apperror.NotFound("offer")
	}
	switch chosen.Status {
	case model.OfferStatusPending, model.OfferStatusApproved:
		// acceptable, unless the validity window lapsed before the sweep ran
		if chosen.ExpiresAt.Before(now) {
			return nil, apperror.Conflict("this offer has expired")
		}
	case model.OfferStatusExpired:
		return nil, apperror.Conflict("this offer has expired")
	default:
		return nil, apperror.Conflict(fmt.Sprintf("offer is not acceptable in status %q", chosen.Status))
	}

	var chosenApp *model.BankApplication
	for i := range bankApps {
		if bankApps[i].LenderID == lenderID {
			chosenApp = &bankApps[i]
			break
		}
	}
	if chosenApp == nil {
		return nil, apperror.NotFound("bank application")
	}

	acceptance := &repository.Acceptance{Application: app}

	history := func(entity, lender, from, to string, reason *string) {
		lid := lender
		acceptance.History = append(acceptance.History, model.StatusHistoryEntry{
			ApplicationID: app.ID,
			LenderID:      &lid,
			Entity:        entity,
			FromStatus:    from,
			ToStatus:      to,
			Reason:        reason,
		})
	}

	reason := rejectedReasonSiblingAccepted

	for i := range offers {
		o := offers[i]
		if o.LenderID == lenderID {
			from := o.Status
			o.Status = model.OfferStatusAccepted
			o.AcceptedAt = &now
			acceptance.AcceptedOffer = &o
			history("offer", o.LenderID, string(from), string(o.Status), nil)
			continue
		}
		if o.Status == model.OfferStatusPending || o.Status == model.OfferStatusApproved {
			from := o.Status
			o.Status = model.OfferStatusRejected
			o.RejectedReason = &reason
			acceptance.RejectedOffers = append(acceptance.RejectedOffers, o)
			history("offer", o.LenderID, string(from), string(o.Status), &reason)
		}
	}

	for i := range bankApps {
		a := bankApps[i]
		if a.LenderID == lenderID {
			from := a.Status
			a.Status = model.BankAppPendingFinalApproval
			a.StatusUpdatedAt = now
			a.DecidedAt = &now
			a.Offer = acceptance.AcceptedOffer
			acceptance.AcceptedBankApp = &a
			history("bank_application", a.LenderID, string(from), string(a.Status), nil)
			continue
		}
		if !terminalBankAppStatuses[a.Status] {
			from := a.Status
			a.Status = model.BankAppRejected
			a.StatusUpdatedAt = now
			a.DecidedAt = &now
			a.RejectionReason = &reason
			acceptance.RejectedApps = append(acceptance.RejectedApps, a)
			history("bank_application", a.LenderID, string(from), string(a.Status), &reason)
		}
	}

	// Denormalized snapshot of the accepted terms on the parent record.
	accepted := acceptance.AcceptedOffer
	app.AcceptedBankID = &accepted.LenderID
	app.AcceptedBankName = &accepted.LenderName
	app.AcceptedBankLogo = &accepted.LenderLogo
	app.AcceptedOfferRate = &accepted.InterestRate
	app.AcceptedOfferTerm = &accepted.TermMonths
	app.AcceptedOfferAmount = &accepted.LoanAmount
	app.AcceptedMonthlyAmort = &accepted.MonthlyPayment
	app.AcceptedTotalInterest = &accepted.TotalInterest
	app.AcceptedProcessingFee = &accepted.ProcessingFeeAmount
	app.AcceptedAt = &now

	return acceptance, nil
}

// Transition applies a single-lender status change (review, approve, reject,
// finalize, disburse) with its audit trail.
func (s *ApplicationService) Transition(ctx context.Context, applicationID uuid.UUID, lenderID string, target model.BankApplicationStatus, approver string, notes *string) (*model.BankApplication, error) {
	bankApp, err := s.bankApps.GetByLender(ctx, applicationID, lenderID)
	if err != nil {
		if errors.Is(err, repository.ErrBankApplicationNotFound) {
			return nil, apperror.NotFound("bank application")
		}
		return nil, err
	}

	if !s.canTransition(bankApp.Status, target) {
		return nil, apperror.Conflict(fmt.Sprintf("cannot move application from %q to %q", bankApp.Status, target))
	}

	now := s.now()
	from := bankApp.Status
	bankApp.Status = target
	bankApp.StatusUpdatedAt = now
	if notes != nil {
		bankApp.Notes = notes
	}
	switch target {
	case model.BankAppUnderReview:
		bankApp.ReviewedAt = &now
	case model.BankAppApproved, model.BankAppRejected, model.BankAppWithdrawn,
		model.BankAppFullyApproved, model.BankAppDisbursed:
		bankApp.DecidedAt = &now
	}
	if target == model.BankAppRejected {
		bankApp.RejectionReason = notes
	}

	if err := s.bankApps.UpdateStatus(ctx, bankApp); err != nil {
		return nil, fmt.Errorf("updating bank application: %w", err)
	}

	entry := &model.StatusHistoryEntry{
		ApplicationID: applicationID,
		LenderID:      &bankApp.LenderID,
		Entity:        "bank_application",
		FromStatus:    string(from),
		ToStatus:      string(target),
		Reason:        notes,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("failed to record transition history",
			"application_id", applicationID, "error", err)
	}

	if approver != "" {
		action := &model.ApproverAction{
			ApplicationID: applicationID,
			LenderID:      lenderID,
			Approver:      approver,
			Action:        string(target),
			Notes:         notes,
		}
		if err := s.history.RecordAction(ctx, action); err != nil {
			logger.FromContext(ctx).Warn("failed to record approver action",
				"application_id", applicationID, "error", err)
		}
	}

	return bankApp, nil
}

// Withdraw is applicant-initiated and legal from any non-terminal state.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID uuid.UUID, lenderID string) (*model.BankApplication, error) {
	return s.Transition(ctx, applicationID, lenderID, model.BankAppWithdrawn, "", nil)
}

func (s *ApplicationService) canTransition(from, to model.BankApplicationStatus) bool {
	if to == model.BankAppWithdrawn {
		return !terminalBankAppStatuses[from]
	}
	for _, allowed := range bankAppTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// generateToken creates a signed session token scoped to one application.
// Token expires in 24 hours.
func generateToken(applicationID uuid.UUID) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-in-production"
	}

	claims := jwt.MapClaims{
		"sub": applicationID.String(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateTokenForTest issues a token for an arbitrary application ID.
func GenerateTokenForTest(applicationID uuid.UUID) (string, error) {
	return generateToken(applicationID)
}

// ValidateToken parses a session token and returns the application ID.
func ValidateToken(tokenString string) (uuid.UUID, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-in-production"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid application id in token")
	}
	applicationID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("invalid application id in token")
	}

	return applicationID, nil
}
