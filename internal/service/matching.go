package service

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/loanbridge/backend/internal/apperror"
	"github.com/loanbridge/backend/internal/model"
)

// Noise supplies the per-lender pricing jitter. Injectable so tests can feed
// deterministic sequences.
type Noise interface {
	NextFloat() float64 // uniform in [0, 1)
}

type randNoise struct {
	rng *rand.Rand
}

func (n *randNoise) NextFloat() float64 {
	return n.rng.Float64()
}

// NewRandNoise returns a Noise backed by math/rand with the given seed.
func NewRandNoise(seed int64) Noise {
	return &randNoise{rng: rand.New(rand.NewSource(seed))}
}

// Eligibility margins. Amount and term are hard product bounds; score, DTI
// and income tolerate borderline applicants, whose real odds show up in the
// approval probability instead.
const (
	creditScoreMargin  = 30
	dtiMargin          = 0.10
	incomeMarginFactor = 0.80
)

// Amortize computes the fixed monthly payment for a loan, rounded to 2
// decimals. A zero rate degrades to straight-line principal/term.
func Amortize(principal decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, apperror.ValidationError("principal", "must be positive")
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, apperror.ValidationError("interestRate", "must not be negative")
	}
	if termMonths <= 0 {
		return decimal.Zero, apperror.ValidationError("termMonths", "must be positive")
	}

	if annualRatePercent.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2), nil
	}

	p, _ := principal.Float64()
	rate, _ := annualRatePercent.Float64()
	monthlyRate := rate / 100 / 12
	factor := math.Pow(1+monthlyRate, float64(termMonths))
	payment := p * monthlyRate * factor / (factor - 1)

	return decimal.NewFromFloat(payment).Round(2), nil
}

// Eligible reports whether the applicant qualifies for the lender's product.
func Eligible(profile model.ApplicantProfile, lender model.LenderProfile) (bool, error) {
	if profile.CreditScore < 300 || profile.CreditScore > 850 {
		return false, apperror.ValidationError("creditScore", "must be between 300 and 850")
	}
	if !profile.LoanAmount.IsPositive() {
		return false, apperror.ValidationError("loanAmount", "must be positive")
	}
	if profile.LoanTermMonths <= 0 {
		return false, apperror.ValidationError("loanTermMonths", "must be positive")
	}
	if profile.MonthlyIncome.IsNegative() {
		return false, apperror.ValidationError("monthlyIncome", "must not be negative")
	}

	if !lender.IsActive {
		return false, nil
	}
	if profile.LoanAmount.LessThan(lender.MinAmount) || profile.LoanAmount.GreaterThan(lender.MaxAmount) {
		return false, nil
	}
	if profile.LoanTermMonths < lender.MinTerm || profile.LoanTermMonths > lender.MaxTerm {
		return false, nil
	}
	if profile.CreditScore < lender.MinCreditScore-creditScoreMargin {
		return false, nil
	}
	if profile.DTI() > lender.MaxDTI+dtiMargin {
		return false, nil
	}
	incomeFloor := lender.MinMonthlyIncome.Mul(decimal.NewFromFloat(incomeMarginFactor))
	if profile.MonthlyIncome.LessThan(incomeFloor) {
		return false, nil
	}

	return true, nil
}

// PriceOffer interpolates the lender's rate range on credit score, where 850
// maps to the minimum rate and 300 to the maximum, with jitter of up to half
// a point either way. The result is clamped back into range.
func PriceOffer(profile model.ApplicantProfile, lender model.LenderProfile, noise Noise) decimal.Decimal {
	minRate, _ := lender.MinRate.Float64()
	maxRate, _ := lender.MaxRate.Float64()

	scoreFactor := float64(850-profile.CreditScore) / 550
	rate := minRate + (maxRate-minRate)*scoreFactor

	jitter := noise.NextFloat() - 0.5
	rate += jitter

	if rate < minRate {
		rate = minRate
	}
	if rate > maxRate {
		rate = maxRate
	}

	return decimal.NewFromFloat(rate).Round(2)
}

// ApprovalProbability starts from the lender's base approval rate and adjusts
// for how far the applicant sits from the lender's thresholds. Every rule is
// independent and additive.
func ApprovalProbability(profile model.ApplicantProfile, lender model.LenderProfile) float64 {
	p := lender.ApprovalRate

	// Credit score vs lender minimum
	switch {
	case profile.CreditScore >= lender.MinCreditScore+100:
		p += 0.15
	case profile.CreditScore >= lender.MinCreditScore+50:
		p += 0.08
	case profile.CreditScore < lender.MinCreditScore:
		p -= 0.25
	}

	// DTI headroom
	dti := profile.DTI()
	switch {
	case dti <= lender.MaxDTI-0.15:
		p += 0.10
	case dti > lender.MaxDTI:
		p -= 0.20
	}

	// Income vs lender minimum
	doubleMin := lender.MinMonthlyIncome.Mul(decimal.NewFromInt(2))
	switch {
	case profile.MonthlyIncome.GreaterThanOrEqual(doubleMin):
		p += 0.10
	case profile.MonthlyIncome.LessThan(lender.MinMonthlyIncome):
		p -= 0.15
	}

	// Loan amount positioned comfortably inside the product range
	span := lender.MaxAmount.Sub(lender.MinAmount)
	if span.IsPositive() {
		pos, _ := profile.LoanAmount.Sub(lender.MinAmount).Div(span).Float64()
		if pos > 0.2 && pos < 0.8 {
			p += 0.05
		}
	}

	if p < 0.05 {
		p = 0.05
	}
	if p > 0.99 {
		p = 0.99
	}
	return p
}
