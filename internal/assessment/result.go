package assessment

import (
	"math"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

const (
	lowRiskProbability    = 0.7
	mediumRiskProbability = 0.4
)

// BuildResultView turns a handed-off result into what the results page shows.
func BuildResultView(result domain.AssessmentResult) domain.ResultView {
	p := result.Response.ApprovalProbability

	view := domain.ResultView{
		SessionID:     result.SessionID,
		ApplicantName: strings.TrimSpace(result.Fields["fullName"].String()),
		CibilScore:    result.Request.CibilScore,
		Probability:   p,
		RiskLevel:     riskFor(p),
	}
	if view.CibilScore == 0 {
		view.CibilScore = intOrZero(strings.TrimSpace(result.Fields["cibilScore"].String()))
	}

	if result.Response.Prediction == 1 {
		view.Decision = domain.DecisionApproved
		view.Confidence = round1(p * 100)
	} else {
		view.Decision = domain.DecisionRejected
		view.Confidence = round1((1 - p) * 100)
	}
	return view
}

func riskFor(p float64) domain.RiskLevel {
	switch {
	case p >= lowRiskProbability:
		return domain.RiskLow
	case p >= mediumRiskProbability:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
