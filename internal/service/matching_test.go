package service

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbridge/backend/internal/model"
)

// fixedNoise always returns the same value; 0.5 means zero jitter.
type fixedNoise struct{ v float64 }

func (n fixedNoise) NextFloat() float64 { return n.v }

func testLender() model.LenderProfile {
	return model.LenderProfile{
		ID: "bdo", Name: "BDO Unibank", Tier: model.LenderTierUniversal,
		MinCreditScore: 680, MaxDTI: 0.36, MinMonthlyIncome: decimal.NewFromInt(50000),
		MinAmount: decimal.NewFromInt(100000), MaxAmount: decimal.NewFromInt(3000000),
		MinTerm: 12, MaxTerm: 60,
		MinRate: decimal.NewFromFloat(5.5), MaxRate: decimal.NewFromFloat(11.5),
		AvgApprovalTime: "3-5 days", ApprovalRate: 0.62, ProcessingFee: decimal.NewFromFloat(1.5),
		IsActive: true,
	}
}

func testProfile() model.ApplicantProfile {
	return model.ApplicantProfile{
		CreditScore:    720,
		MonthlyIncome:  decimal.NewFromInt(85000),
		MonthlyDebt:    decimal.NewFromInt(15000),
		LoanAmount:     decimal.NewFromInt(500000),
		LoanTermMonths: 36,
	}
}

func TestAmortize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		term      int
		want      string
		wantErr   bool
	}{
		{
			name:      "standard fixed rate",
			principal: decimal.NewFromInt(1500000),
			rate:      decimal.NewFromFloat(7.5),
			term:      48,
			want:      "36268.35",
		},
		{
			name:      "zero rate is straight-line",
			principal: decimal.NewFromInt(120000),
			rate:      decimal.Zero,
			term:      12,
			want:      "10000.00",
		},
		{
			name:      "zero principal rejected",
			principal: decimal.Zero,
			rate:      decimal.NewFromFloat(7.5),
			term:      48,
			wantErr:   true,
		},
		{
			name:      "negative rate rejected",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromFloat(-1),
			term:      12,
			wantErr:   true,
		},
		{
			name:      "zero term rejected",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromFloat(7.5),
			term:      0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Amortize(tt.principal, tt.rate, tt.term)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestEligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*model.ApplicantProfile, *model.LenderProfile)
		want    bool
		wantErr bool
	}{
		{
			name:   "qualified applicant",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {},
			want:   true,
		},
		{
			name: "inactive lender",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				l.IsActive = false
			},
			want: false,
		},
		{
			name: "amount above maximum is a hard bound",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				l.MinAmount = decimal.NewFromInt(500000)
				l.MaxAmount = decimal.NewFromInt(2000000)
				p.LoanAmount = decimal.NewFromInt(2500000)
				p.CreditScore = 850
			},
			want: false,
		},
		{
			name: "term below minimum is a hard bound",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.LoanTermMonths = 6
			},
			want: false,
		},
		{
			name: "credit score within 30-point margin",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				l.MinCreditScore = 700
				p.CreditScore = 675
			},
			want: true,
		},
		{
			name: "credit score beyond margin",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				l.MinCreditScore = 700
				p.CreditScore = 600
			},
			want: false,
		},
		{
			name: "dti within 10-point margin",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				// DTI = 0.44 against maxDTI 0.36
				p.MonthlyDebt = decimal.NewFromInt(37400)
			},
			want: true,
		},
		{
			name: "dti beyond margin",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				// DTI = 0.50
				p.MonthlyDebt = decimal.NewFromInt(42500)
			},
			want: false,
		},
		{
			name: "income at 80 percent of minimum",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.MonthlyIncome = decimal.NewFromInt(40000)
				p.MonthlyDebt = decimal.NewFromInt(10000)
			},
			want: true,
		},
		{
			name: "income below 80 percent of minimum",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.MonthlyIncome = decimal.NewFromInt(39000)
				p.MonthlyDebt = decimal.NewFromInt(5000)
			},
			want: false,
		},
		{
			name: "zero income reads as maxed-out DTI",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.MonthlyIncome = decimal.Zero
				l.MinMonthlyIncome = decimal.Zero
			},
			want: false,
		},
		{
			name: "credit score out of range is a validation error",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.CreditScore = 200
			},
			wantErr: true,
		},
		{
			name: "non-positive amount is a validation error",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.LoanAmount = decimal.Zero
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile := testProfile()
			lender := testLender()
			tt.mutate(&profile, &lender)

			got, err := Eligible(profile, lender)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceOffer(t *testing.T) {
	t.Parallel()

	lender := testLender()

	t.Run("perfect score gets minimum rate", func(t *testing.T) {
		t.Parallel()

		profile := testProfile()
		profile.CreditScore = 850

		rate := PriceOffer(profile, lender, fixedNoise{v: 0.5})
		assert.Equal(t, "5.50", rate.StringFixed(2))
	})

	t.Run("floor score gets maximum rate", func(t *testing.T) {
		t.Parallel()

		profile := testProfile()
		profile.CreditScore = 300

		rate := PriceOffer(profile, lender, fixedNoise{v: 0.5})
		assert.Equal(t, "11.50", rate.StringFixed(2))
	})

	t.Run("jitter stays clamped in range", func(t *testing.T) {
		t.Parallel()

		profile := testProfile()
		profile.CreditScore = 850

		// Maximum downward jitter would push below the range floor.
		rate := PriceOffer(profile, lender, fixedNoise{v: 0.0})
		assert.Equal(t, "5.50", rate.StringFixed(2))
	})

	t.Run("midpoint score interpolates", func(t *testing.T) {
		t.Parallel()

		profile := testProfile()
		profile.CreditScore = 575 // exactly halfway between 300 and 850

		rate := PriceOffer(profile, lender, fixedNoise{v: 0.5})
		assert.Equal(t, "8.50", rate.StringFixed(2))
	})
}

func TestApprovalProbability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*model.ApplicantProfile, *model.LenderProfile)
		want   float64
	}{
		{
			name: "strong applicant stacks bonuses",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.CreditScore = 800               // +0.15 (>= min+100)
				p.MonthlyIncome = decimal.NewFromInt(100000) // +0.10 (2x minimum)
				p.MonthlyDebt = decimal.NewFromInt(10000)    // DTI 0.10 <= 0.21: +0.10
				// amount 500000 sits at ~0.14 of range, no position bonus
			},
			want: 0.97,
		},
		{
			name: "weak applicant stacks penalties",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.CreditScore = 660                          // -0.25 (below minimum)
				p.MonthlyIncome = decimal.NewFromInt(45000)  // -0.15 (below minimum)
				p.MonthlyDebt = decimal.NewFromInt(20000)    // DTI ~0.444 > 0.36: -0.20
			},
			want: 0.05, // 0.62 - 0.60 = 0.02, clamped to floor
		},
		{
			name: "moderate bonus for score 50 over minimum",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.CreditScore = 730
				p.MonthlyIncome = decimal.NewFromInt(60000) // between min and 2x: neutral
				p.MonthlyDebt = decimal.NewFromInt(18000)   // DTI 0.30: neutral
			},
			want: 0.70, // 0.62 + 0.08
		},
		{
			name: "mid-range amount earns position bonus",
			mutate: func(p *model.ApplicantProfile, l *model.LenderProfile) {
				p.CreditScore = 730
				p.MonthlyIncome = decimal.NewFromInt(60000)
				p.MonthlyDebt = decimal.NewFromInt(18000)
				p.LoanAmount = decimal.NewFromInt(1500000) // ~0.48 of range
			},
			want: 0.75, // 0.62 + 0.08 + 0.05
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile := testProfile()
			lender := testLender()
			tt.mutate(&profile, &lender)

			got := ApprovalProbability(profile, lender)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// Probability must stay in [0.05, 0.99] for any input combination.
func TestApprovalProbabilityBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		profile := model.ApplicantProfile{
			CreditScore:    300 + rng.Intn(551),
			MonthlyIncome:  decimal.NewFromInt(rng.Int63n(300000)),
			MonthlyDebt:    decimal.NewFromInt(rng.Int63n(150000)),
			LoanAmount:     decimal.NewFromInt(1 + rng.Int63n(5000000)),
			LoanTermMonths: 1 + rng.Intn(72),
		}
		lender := testLender()
		lender.MinCreditScore = 300 + rng.Intn(500)
		lender.MaxDTI = rng.Float64()
		lender.ApprovalRate = rng.Float64()
		lender.MinMonthlyIncome = decimal.NewFromInt(rng.Int63n(200000))

		p := ApprovalProbability(profile, lender)
		assert.GreaterOrEqual(t, p, 0.05)
		assert.LessOrEqual(t, p, 0.99)
	}
}
