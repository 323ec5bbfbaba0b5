package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LenderTier string

const (
	LenderTierUniversal  LenderTier = "universal"
	LenderTierCommercial LenderTier = "commercial"
	LenderTierDigital    LenderTier = "digital"
	LenderTierFintech    LenderTier = "fintech"
)

// LenderProfile describes one bank partner's personal-loan product:
// eligibility thresholds, product bounds and pricing range. Profiles are
// administered externally; the matching engine only reads active entries.
type LenderProfile struct {
	ID   string     `db:"id" json:"id"`
	Name string     `db:"name" json:"name"`
	Logo string     `db:"logo" json:"logo,omitempty"`
	Tier LenderTier `db:"tier" json:"tier"`

	MinCreditScore   int             `db:"min_credit_score" json:"minCreditScore"`
	MaxDTI           float64         `db:"max_dti" json:"maxDti"` // ratio, e.g. 0.40
	MinMonthlyIncome decimal.Decimal `db:"min_monthly_income" json:"minMonthlyIncome"`

	MinAmount decimal.Decimal `db:"min_amount" json:"minAmount"`
	MaxAmount decimal.Decimal `db:"max_amount" json:"maxAmount"`
	MinTerm   int             `db:"min_term" json:"minTerm"` // months
	MaxTerm   int             `db:"max_term" json:"maxTerm"`

	MinRate decimal.Decimal `db:"min_rate" json:"minRate"` // APR %
	MaxRate decimal.Decimal `db:"max_rate" json:"maxRate"`

	AvgApprovalTime string          `db:"avg_approval_time" json:"avgApprovalTime"` // e.g. "24 hours"
	ApprovalRate    float64         `db:"approval_rate" json:"approvalRate"`        // 0-1
	ProcessingFee   decimal.Decimal `db:"processing_fee" json:"processingFee"`      // % of amount
	IsActive        bool            `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PhilippineLenders is the default partner set used to seed a fresh
// installation. Rates and thresholds mirror published personal-loan products;
// they are illustrative, not live pricing.
var PhilippineLenders = []LenderProfile{
	{
		ID: "bdo", Name: "BDO Unibank", Logo: "/logos/bdo.svg", Tier: LenderTierUniversal,
		MinCreditScore: 680, MaxDTI: 0.36, MinMonthlyIncome: decimal.NewFromInt(50000),
		MinAmount: decimal.NewFromInt(100000), MaxAmount: decimal.NewFromInt(3000000),
		MinTerm: 12, MaxTerm: 60,
		MinRate: decimal.NewFromFloat(5.5), MaxRate: decimal.NewFromFloat(11.5),
		AvgApprovalTime: "3-5 days", ApprovalRate: 0.62, ProcessingFee: decimal.NewFromFloat(1.5),
		IsActive: true,
	},
	{
		ID: "bpi", Name: "Bank of the Philippine Islands", Logo: "/logos/bpi.svg", Tier: LenderTierUniversal,
		MinCreditScore: 700, MaxDTI: 0.35, MinMonthlyIncome: decimal.NewFromInt(60000),
		MinAmount: decimal.NewFromInt(200000), MaxAmount: decimal.NewFromInt(2500000),
		MinTerm: 12, MaxTerm: 48,
		MinRate: decimal.NewFromFloat(5.9), MaxRate: decimal.NewFromFloat(10.9),
		AvgApprovalTime: "5-7 days", ApprovalRate: 0.58, ProcessingFee: decimal.NewFromFloat(1.0),
		IsActive: true,
	},
	{
		ID: "metrobank", Name: "Metrobank", Logo: "/logos/metrobank.svg", Tier: LenderTierUniversal,
		MinCreditScore: 690, MaxDTI: 0.38, MinMonthlyIncome: decimal.NewFromInt(55000),
		MinAmount: decimal.NewFromInt(100000), MaxAmount: decimal.NewFromInt(2000000),
		MinTerm: 12, MaxTerm: 60,
		MinRate: decimal.NewFromFloat(6.0), MaxRate: decimal.NewFromFloat(11.0),
		AvgApprovalTime: "3-5 days", ApprovalRate: 0.60, ProcessingFee: decimal.NewFromFloat(1.25),
		IsActive: true,
	},
	{
		ID: "securitybank", Name: "Security Bank", Logo: "/logos/securitybank.svg", Tier: LenderTierCommercial,
		MinCreditScore: 650, MaxDTI: 0.40, MinMonthlyIncome: decimal.NewFromInt(40000),
		MinAmount: decimal.NewFromInt(50000), MaxAmount: decimal.NewFromInt(2000000),
		MinTerm: 12, MaxTerm: 36,
		MinRate: decimal.NewFromFloat(6.8), MaxRate: decimal.NewFromFloat(13.5),
		AvgApprovalTime: "2-3 days", ApprovalRate: 0.68, ProcessingFee: decimal.NewFromFloat(2.0),
		IsActive: true,
	},
	{
		ID: "rcbc", Name: "RCBC", Logo: "/logos/rcbc.svg", Tier: LenderTierCommercial,
		MinCreditScore: 640, MaxDTI: 0.42, MinMonthlyIncome: decimal.NewFromInt(35000),
		MinAmount: decimal.NewFromInt(50000), MaxAmount: decimal.NewFromInt(1500000),
		MinTerm: 6, MaxTerm: 36,
		MinRate: decimal.NewFromFloat(7.2), MaxRate: decimal.NewFromFloat(14.0),
		AvgApprovalTime: "2-4 days", ApprovalRate: 0.65, ProcessingFee: decimal.NewFromFloat(1.75),
		IsActive: true,
	},
	{
		ID: "unionbank", Name: "UnionBank", Logo: "/logos/unionbank.svg", Tier: LenderTierDigital,
		MinCreditScore: 620, MaxDTI: 0.45, MinMonthlyIncome: decimal.NewFromInt(30000),
		MinAmount: decimal.NewFromInt(30000), MaxAmount: decimal.NewFromInt(1000000),
		MinTerm: 6, MaxTerm: 36,
		MinRate: decimal.NewFromFloat(7.9), MaxRate: decimal.NewFromFloat(15.9),
		AvgApprovalTime: "24 hours", ApprovalRate: 0.74, ProcessingFee: decimal.NewFromFloat(1.0),
		IsActive: true,
	},
	{
		ID: "tonik", Name: "Tonik Digital Bank", Logo: "/logos/tonik.svg", Tier: LenderTierDigital,
		MinCreditScore: 580, MaxDTI: 0.50, MinMonthlyIncome: decimal.NewFromInt(20000),
		MinAmount: decimal.NewFromInt(20000), MaxAmount: decimal.NewFromInt(500000),
		MinTerm: 6, MaxTerm: 24,
		MinRate: decimal.NewFromFloat(9.5), MaxRate: decimal.NewFromFloat(19.5),
		AvgApprovalTime: "1 hour", ApprovalRate: 0.80, ProcessingFee: decimal.NewFromFloat(0.5),
		IsActive: true,
	},
	{
		ID: "maya", Name: "Maya Bank", Logo: "/logos/maya.svg", Tier: LenderTierFintech,
		MinCreditScore: 560, MaxDTI: 0.55, MinMonthlyIncome: decimal.NewFromInt(15000),
		MinAmount: decimal.NewFromInt(10000), MaxAmount: decimal.NewFromInt(250000),
		MinTerm: 3, MaxTerm: 24,
		MinRate: decimal.NewFromFloat(10.5), MaxRate: decimal.NewFromFloat(22.0),
		AvgApprovalTime: "2 hours", ApprovalRate: 0.78, ProcessingFee: decimal.NewFromFloat(0.75),
		IsActive: true,
	},
}
