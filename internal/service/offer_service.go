package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/logger"
	"github.com/loanbridge/backend/internal/model"
	"github.com/loanbridge/backend/internal/repository"
)

// OfferValidity is how long a generated offer can be accepted.
const OfferValidity = 7 * 24 * time.Hour

// Probability at or above which an offer starts out pre-approved.
const preApprovalThreshold = 0.70

const fallbackReason = "Good balance of rate, terms, and approval probability for your profile"

// OfferRepositoryInterface defines the contract for offer persistence.
type OfferRepositoryInterface interface {
	CreateBatch(ctx context.Context, offers []model.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OfferStatus, reason *string) error
	ExpireStale(ctx context.Context, now time.Time) ([]repository.StaleOffer, error)
}

// OfferService generates and manages lender offers for a loan application.
type OfferService struct {
	offers        OfferRepositoryInterface
	bankApps      BankApplicationRepositoryInterface
	applications  LoanApplicationRepositoryInterface
	lenders       LenderRepositoryInterface
	history       HistoryRepositoryInterface
	noise         Noise
	now           func() time.Time
}

func NewOfferService(
	offers OfferRepositoryInterface,
	bankApps BankApplicationRepositoryInterface,
	applications LoanApplicationRepositoryInterface,
	lenders LenderRepositoryInterface,
	history HistoryRepositoryInterface,
	noise Noise,
) *OfferService {
	return &OfferService{
		offers:       offers,
		bankApps:     bankApps,
		applications: applications,
		lenders:      lenders,
		history:      history,
		noise:        noise,
		now:          time.Now,
	}
}

// GenerateOffers prices the application against the selected lenders and
// materializes one bank application per surviving offer. An empty lenderIDs
// slice means all active lenders. An empty result is a valid outcome, not an
// error.
func (s *OfferService) GenerateOffers(ctx context.Context, applicationID uuid.UUID, lenderIDs []string) ([]model.Offer, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}

	// One offer set per application: regeneration would duplicate the
	// (application, lender) pairs and corrupt the accept cascade.
	existing, err := s.offers.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("check existing offers: %w", err)
	}
	if len(existing) > 0 {
		return nil, apperror.Conflict("offers were already generated for this application")
	}

	candidates, err := s.candidateLenders(ctx, lenderIDs)
	if err != nil {
		return nil, err
	}

	profile := app.Profile()
	offers, err := s.buildOffers(profile, candidates)
	if err != nil {
		return nil, err
	}

	if len(offers) == 0 {
		logger.FromContext(ctx).Info("no eligible lenders for application",
			"application_id", applicationID,
			"candidates", len(candidates))
		return []model.Offer{}, nil
	}

	for i := range offers {
		offers[i].ApplicationID = applicationID
	}

	if err := s.offers.CreateBatch(ctx, offers); err != nil {
		return nil, fmt.Errorf("persist offers: %w", err)
	}

	bankApps := s.materializeBankApps(app, offers)
	if err := s.bankApps.CreateBatch(ctx, bankApps); err != nil {
		return nil, fmt.Errorf("persist bank applications: %w", err)
	}

	logger.FromContext(ctx).Info("offers generated",
		"application_id", applicationID,
		"offers", len(offers))

	return offers, nil
}

// ListOffers returns the stored offers for an application, best rate first.
func (s *OfferService) ListOffers(ctx context.Context, applicationID uuid.UUID) ([]model.Offer, error) {
	return s.offers.ListByApplication(ctx, applicationID)
}

// ExpireOffers flips every pending and pre-approved offer past its deadline
// and writes audit entries. Called by the scheduler.
func (s *OfferService) ExpireOffers(ctx context.Context) (int, error) {
	expired, err := s.offers.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire offers: %w", err)
	}

	entries := offerHistoryEntries(expired)
	for i := range entries {
		if err := s.history.Append(ctx, &entries[i]); err != nil {
			logger.FromContext(ctx).Warn("failed to record expiry history",
				"offer_id", expired[i].ID, "error", err)
		}
	}

	return len(expired), nil
}

func offerHistoryEntries(expired []repository.StaleOffer) []model.StatusHistoryEntry {
	entries := make([]model.StatusHistoryEntry, 0, len(expired))
	for _, o := range expired {
		lenderID := o.LenderID
		entries = append(entries, model.StatusHistoryEntry{
			ApplicationID: o.ApplicationID,
			LenderID:      &lenderID,
			Entity:        "offer",
			FromStatus:    string(o.PriorStatus),
			ToStatus:      string(model.OfferStatusExpired),
		})
	}
	return entries
}

func (s *OfferService) candidateLenders(ctx context.Context, lenderIDs []string) ([]model.LenderProfile, error) {
	active, err := s.lenders.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("load lenders: %w", err)
	}
	if len(lenderIDs) == 0 {
		return active, nil
	}

	byID := make(map[string]model.LenderProfile, len(active))
	for _, l := range active {
		byID[l.ID] = l
	}

	// Preserve the applicant's selection order.
	selected := make([]model.LenderProfile, 0, len(lenderIDs))
	for _, id := range lenderIDs {
		if l, ok := byID[id]; ok {
			selected = append(selected, l)
		}
	}
	return selected, nil
}

// buildOffers runs the matching pipeline: eligibility, pricing, scoring,
// sorting and recommendation flagging.
func (s *OfferService) buildOffers(profile model.ApplicantProfile, candidates []model.LenderProfile) ([]model.Offer, error) {
	now := s.now()
	expiresAt := now.Add(OfferValidity)

	offers := make([]model.Offer, 0, len(candidates))
	lendersByID := make(map[string]model.LenderProfile, len(candidates))

	for _, lender := range candidates {
		ok, err := Eligible(profile, lender)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		rate := PriceOffer(profile, lender, s.noise)
		monthly, err := Amortize(profile.LoanAmount, rate, profile.LoanTermMonths)
		if err != nil {
			return nil, err
		}

		totalPayment := monthly.Mul(decimal.NewFromInt(int64(profile.LoanTermMonths)))
		totalInterest := totalPayment.Sub(profile.LoanAmount)
		feeAmount := profile.LoanAmount.Mul(lender.ProcessingFee).Div(decimal.NewFromInt(100)).Round(2)
		probability := ApprovalProbability(profile, lender)

		status := model.OfferStatusPending
		if probability >= preApprovalThreshold {
			status = model.OfferStatusApproved
		}

		offers = append(offers, model.Offer{
			LenderID:             lender.ID,
			LenderName:           lender.Name,
			LenderLogo:           lender.Logo,
			LoanAmount:           profile.LoanAmount,
			InterestRate:         rate,
			TermMonths:           profile.LoanTermMonths,
			MonthlyPayment:       monthly,
			TotalInterest:        totalInterest,
			TotalPayment:         totalPayment,
			ProcessingFeePercent: lender.ProcessingFee,
			ProcessingFeeAmount:  feeAmount,
			ApprovalProbability:  probability,
			EstimatedApproval:    lender.AvgApprovalTime,
			Status:               status,
			ExpiresAt:            expiresAt,
		})
		lendersByID[lender.ID] = lender
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].InterestRate.LessThan(offers[j].InterestRate)
	})

	s.flagRecommendations(profile, offers, lendersByID)
	return offers, nil
}

// flagRecommendations marks at most three offers: the rate leader, the
// highest-probability offer when it clears 0.85, and the first digital-tier
// offer not already flagged.
func (s *OfferService) flagRecommendations(profile model.ApplicantProfile, offers []model.Offer, lenders map[string]model.LenderProfile) {
	if len(offers) == 0 {
		return
	}

	recommend := func(i int) {
		offers[i].IsRecommended = true
		reason := recommendationReason(profile, offers[i], offers, lenders[offers[i].LenderID])
		offers[i].RecommendationReason = &reason
	}

	recommend(0)

	best := 0
	for i := range offers {
		if offers[i].ApprovalProbability > offers[best].ApprovalProbability {
			best = i
		}
	}
	if best != 0 && offers[best].ApprovalProbability >= 0.85 {
		recommend(best)
	}

	for i := range offers {
		if offers[i].IsRecommended {
			continue
		}
		if lenders[offers[i].LenderID].Tier == model.LenderTierDigital {
			recommend(i)
			break
		}
	}
}

// recommendationReason joins the first two applicable phrases for an offer.
func recommendationReason(profile model.ApplicantProfile, offer model.Offer, all []model.Offer, lender model.LenderProfile) string {
	minRate := all[0].InterestRate
	minPayment := all[0].MonthlyPayment
	for _, o := range all[1:] {
		if o.InterestRate.LessThan(minRate) {
			minRate = o.InterestRate
		}
		if o.MonthlyPayment.LessThan(minPayment) {
			minPayment = o.MonthlyPayment
		}
	}

	var phrases []string
	add := func(p string) {
		if len(phrases) < 2 {
			phrases = append(phrases, p)
		}
	}

	if offer.InterestRate.Equal(minRate) {
		add("lowest interest rate available")
	} else if offer.MonthlyPayment.Equal(minPayment) {
		add("lowest monthly payment")
	}
	if offer.ApprovalProbability >= 0.85 {
		add("very high approval probability")
	}
	if strings.Contains(lender.AvgApprovalTime, "hour") || strings.Contains(lender.AvgApprovalTime, "24") {
		add("fastest approval time")
	}
	if lender.ProcessingFee.LessThanOrEqual(decimal.NewFromInt(1)) {
		add("lowest processing fee")
	}
	if lender.Tier == model.LenderTierDigital {
		add("fully digital process with mobile-first experience")
	}
	if lender.Tier == model.LenderTierUniversal && profile.CreditScore >= 700 {
		add("premium bank with excellent service for qualified borrowers")
	}

	if len(phrases) == 0 {
		return fallbackReason
	}
	return strings.Join(phrases, " and ")
}

func (s *OfferService) materializeBankApps(app *model.LoanApplication, offers []model.Offer) []model.BankApplication {
	now := s.now()
	apps := make([]model.BankApplication, 0, len(offers))
	for i := range offers {
		offerID := offers[i].ID
		apps = append(apps, model.BankApplication{
			ApplicationID:   app.ID,
			LenderID:        offers[i].LenderID,
			LenderName:      offers[i].LenderName,
			AppliedAmount:   offers[i].LoanAmount,
			AppliedTerm:     offers[i].TermMonths,
			Status:          model.BankAppSubmitted,
			StatusUpdatedAt: now,
			OfferID:         &offerID,
			SubmittedAt:     now,
		})
	}
	return apps
}
