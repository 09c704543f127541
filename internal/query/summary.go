package query

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

var lakh = decimal.NewFromInt(100000)

type bucketSpec struct {
	label    string
	min, max int64 // in lakh; max < 0 is open-ended
}

var loanBuckets = []bucketSpec{
	{"0-1L", 0, 1},
	{"1-3L", 1, 3},
	{"3-5L", 3, 5},
	{"5-10L", 5, 10},
	{"10L+", 10, -1},
}

// Summarize aggregates records for the analytics view.
func Summarize(records []domain.Profile) domain.Summary {
	s := domain.Summary{
		Total:             len(records),
		ByDecision:        make(map[domain.Decision]int, len(domain.Decisions)),
		ByRisk:            make(map[domain.RiskLevel]int, len(domain.RiskLevels)),
		TotalLoanAmount:   decimal.Zero,
		AverageLoanAmount: decimal.Zero,
		LoanDistribution:  make([]domain.LoanBucket, len(loanBuckets)),
	}
	for _, d := range domain.Decisions {
		s.ByDecision[d] = 0
	}
	for _, r := range domain.RiskLevels {
		s.ByRisk[r] = 0
	}
	for i, b := range loanBuckets {
		bucket := domain.LoanBucket{Label: b.label, Min: lakh.Mul(decimal.NewFromInt(b.min))}
		if b.max >= 0 {
			upper := lakh.Mul(decimal.NewFromInt(b.max))
			bucket.Max = &upper
		}
		s.LoanDistribution[i] = bucket
	}

	if len(records) == 0 {
		return s
	}

	var creditSum, confidenceSum float64
	for _, p := range records {
		s.ByDecision[p.Decision]++
		s.ByRisk[p.RiskLevel]++
		creditSum += float64(p.CreditScore)
		confidenceSum += p.Confidence
		s.TotalLoanAmount = s.TotalLoanAmount.Add(p.LoanAmount)

		for i := range s.LoanDistribution {
			if inBucket(p.LoanAmount, s.LoanDistribution[i]) {
				s.LoanDistribution[i].Count++
				break
			}
		}
	}

	n := float64(len(records))
	s.AverageCreditScore = round1(creditSum / n)
	s.AverageConfidence = round1(confidenceSum / n)
	s.AverageLoanAmount = s.TotalLoanAmount.Div(decimal.NewFromInt(int64(len(records)))).Round(2)
	s.ApprovalRate = round1(float64(s.ByDecision[domain.DecisionApproved]) / n * 100)
	for i := range s.LoanDistribution {
		s.LoanDistribution[i].Percentage = round1(float64(s.LoanDistribution[i].Count) / n * 100)
	}
	return s
}

func inBucket(amount decimal.Decimal, b domain.LoanBucket) bool {
	if amount.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || amount.LessThan(*b.Max)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
