package server

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/assessment"
	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/query"
	"github.com/vanshika/creditbridge/backend/internal/service"
)

type paginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type subScoresResponse struct {
	Banking     *float64 `json:"banking,omitempty"`
	SocialMedia *float64 `json:"socialMedia,omitempty"`
	Document    *float64 `json:"document,omitempty"`
}

type profileResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	AssessmentDate string             `json:"assessmentDate"`
	LoanAmount     json.Number        `json:"loanAmount"`
	CreditScore    int                `json:"creditScore"`
	RiskLevel      string             `json:"riskLevel"`
	Decision       string             `json:"decision"`
	Confidence     float64            `json:"confidence"`
	SubScores      *subScoresResponse `json:"subScores,omitempty"`
}

type listProfilesResponse struct {
	Items      []profileResponse  `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type loanBucketResponse struct {
	Label      string       `json:"label"`
	Min        json.Number  `json:"min"`
	Max        *json.Number `json:"max"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

type summaryResponse struct {
	Total              int                  `json:"total"`
	ByDecision         map[string]int       `json:"byDecision"`
	ByRisk             map[string]int       `json:"byRisk"`
	AverageCreditScore float64              `json:"averageCreditScore"`
	AverageConfidence  float64              `json:"averageConfidence"`
	ApprovalRate       float64              `json:"approvalRate"`
	TotalLoanAmount    json.Number          `json:"totalLoanAmount"`
	AverageLoanAmount  json.Number          `json:"averageLoanAmount"`
	LoanDistribution   []loanBucketResponse `json:"loanDistribution"`
}

type stepResponse struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

type assessmentResponse struct {
	ID              string                       `json:"id"`
	Step            stepResponse                 `json:"step"`
	TotalSteps      int                          `json:"totalSteps"`
	Fields          map[string]domain.FieldValue `json:"fields"`
	MissingRequired []string                     `json:"missingRequired"`
	Loading         bool                         `json:"loading"`
	Error           string                       `json:"error,omitempty"`
	Submitted       bool                         `json:"submitted"`
	CreatedAt       string                       `json:"createdAt"`
	UpdatedAt       string                       `json:"updatedAt"`
}

type stageResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	DurationMs int64  `json:"durationMs"`
	Status     string `json:"status"`
}

type progressResponse struct {
	Stages  []stageResponse `json:"stages"`
	Percent float64         `json:"percent"`
	Done    bool            `json:"done"`
}

type resultSummaryResponse struct {
	ApplicantName string  `json:"applicantName"`
	CibilScore    int     `json:"cibilScore"`
	Decision      string  `json:"decision"`
	RiskLevel     string  `json:"riskLevel"`
	Confidence    float64 `json:"confidence"`
	Probability   float64 `json:"probability"`
}

type resultResponse struct {
	domain.AssessmentResult
	Summary resultSummaryResponse `json:"summary"`
}

func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toProfileResponse(p domain.Profile) profileResponse {
	resp := profileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		AssessmentDate: p.AssessmentDate.Format(domain.DateLayout),
		LoanAmount:     decimalNumber(p.LoanAmount),
		CreditScore:    p.CreditScore,
		RiskLevel:      string(p.RiskLevel),
		Decision:       string(p.Decision),
		Confidence:     p.Confidence,
	}
	if p.SubScores.Banking != nil || p.SubScores.SocialMedia != nil || p.SubScores.Document != nil {
		resp.SubScores = &subScoresResponse{
			Banking:     p.SubScores.Banking,
			SocialMedia: p.SubScores.SocialMedia,
			Document:    p.SubScores.Document,
		}
	}
	return resp
}

func toPaginationResponse(meta query.PageMeta) paginationResponse {
	return paginationResponse{
		Page:       meta.Page,
		PageSize:   meta.PageSize,
		TotalItems: meta.TotalItems,
		TotalPages: meta.TotalPages,
	}
}

func toSummaryResponse(s domain.Summary) summaryResponse {
	resp := summaryResponse{
		Total:              s.Total,
		ByDecision:         make(map[string]int, len(s.ByDecision)),
		ByRisk:             make(map[string]int, len(s.ByRisk)),
		AverageCreditScore: s.AverageCreditScore,
		AverageConfidence:  s.AverageConfidence,
		ApprovalRate:       s.ApprovalRate,
		TotalLoanAmount:    decimalNumber(s.TotalLoanAmount),
		AverageLoanAmount:  decimalNumber(s.AverageLoanAmount),
		LoanDistribution:   make([]loanBucketResponse, 0, len(s.LoanDistribution)),
	}
	for d, n := range s.ByDecision {
		resp.ByDecision[string(d)] = n
	}
	for r, n := range s.ByRisk {
		resp.ByRisk[string(r)] = n
	}
	for _, b := range s.LoanDistribution {
		bucket := loanBucketResponse{
			Label:      b.Label,
			Min:        decimalNumber(b.Min),
			Count:      b.Count,
			Percentage: b.Percentage,
		}
		if b.Max != nil {
			upper := decimalNumber(*b.Max)
			bucket.Max = &upper
		}
		resp.LoanDistribution = append(resp.LoanDistribution, bucket)
	}
	return resp
}

func toAssessmentResponse(v service.AssessmentView) assessmentResponse {
	missing := v.Missing
	if missing == nil {
		missing = []string{}
	}
	return assessmentResponse{
		ID: v.ID,
		Step: stepResponse{
			Number: int(v.Step),
			Title:  v.Step.Title(),
			Fields: v.Step.Fields(),
		},
		TotalSteps:      int(assessment.LastStep),
		Fields:          v.Fields,
		MissingRequired: missing,
		Loading:         v.Loading,
		Error:           v.Error,
		Submitted:       v.Submitted,
		CreatedAt:       formatTime(v.CreatedAt),
		UpdatedAt:       formatTime(v.UpdatedAt),
	}
}

func toProgressResponse(r assessment.ProgressReport) progressResponse {
	resp := progressResponse{
		Stages:  make([]stageResponse, 0, len(r.Stages)),
		Percent: r.Percent,
		Done:    r.Done,
	}
	for _, st := range r.Stages {
		resp.Stages = append(resp.Stages, stageResponse{
			ID:         st.ID,
			Title:      st.Title,
			DurationMs: st.Duration.Milliseconds(),
			Status:     string(st.Status),
		})
	}
	return resp
}

func toResultResponse(o service.AssessmentOutcome) resultResponse {
	return resultResponse{
		AssessmentResult: o.Result,
		Summary: resultSummaryResponse{
			ApplicantName: o.View.ApplicantName,
			CibilScore:    o.View.CibilScore,
			Decision:      string(o.View.Decision),
			RiskLevel:     string(o.View.RiskLevel),
			Confidence:    o.View.Confidence,
			Probability:   o.View.Probability,
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
