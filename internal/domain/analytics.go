package domain

import "github.com/shopspring/decimal"

// LoanBucket counts profiles whose loan amount falls in [Min, Max). A nil Max is open-ended.
type LoanBucket struct {
	Label      string
	Min        decimal.Decimal
	Max        *decimal.Decimal
	Count      int
	Percentage float64
}

// Summary aggregates the record store for the analytics and dashboard pages.
type Summary struct {
	Total              int
	ByDecision         map[Decision]int
	ByRisk             map[RiskLevel]int
	AverageCreditScore float64
	AverageConfidence  float64
	TotalLoanAmount    decimal.Decimal
	AverageLoanAmount  decimal.Decimal
	ApprovalRate       float64
	LoanDistribution   []LoanBucket
}
