package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/graph"
)

// GraphStore persists profiles as (:Profile) nodes and loads them back in sequence order.
type GraphStore struct {
	client graph.Client
}

// NewGraphStore wraps a graph client.
func NewGraphStore(client graph.Client) *GraphStore {
	return &GraphStore{client: client}
}

// UpsertProfile merges a profile node. seq fixes its position in the record store.
func (g *GraphStore) UpsertProfile(ctx context.Context, p domain.Profile, seq int) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	if err := domain.ValidateProfile(p); err != nil {
		return err
	}

	params := map[string]any{
		"profileId": p.ID,
		"props":     profileProperties(p, seq),
	}
	if _, err := g.client.ExecuteWrite(ctx, upsertProfileCypher, params); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// LoadProfiles reads every profile node in sequence order.
func (g *GraphStore) LoadProfiles(ctx context.Context) ([]domain.Profile, error) {
	res, err := g.client.ExecuteRead(ctx, listProfilesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list profiles query: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(res.Records))
	for _, record := range res.Records {
		p, err := profileFromRecord(record)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Snapshot loads the graph once and freezes it into an immutable record store.
func (g *GraphStore) Snapshot(ctx context.Context) (*FixtureSource, error) {
	profiles, err := g.LoadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return NewFixtureSource(profiles)
}

func profileProperties(p domain.Profile, seq int) map[string]any {
	props := map[string]any{
		"seq":            seq,
		"name":           p.Name,
		"email":          p.Email,
		"phone":          p.Phone,
		"assessmentDate": p.AssessmentDate.Format(domain.DateLayout),
		"loanAmount":     p.LoanAmount.String(),
		"creditScore":    p.CreditScore,
		"riskLevel":      string(p.RiskLevel),
		"decision":       string(p.Decision),
		"confidence":     p.Confidence,
	}
	if p.SubScores.Banking != nil {
		props["bankingScore"] = *p.SubScores.Banking
	}
	if p.SubScores.SocialMedia != nil {
		props["socialMediaScore"] = *p.SubScores.SocialMedia
	}
	if p.SubScores.Document != nil {
		props["documentScore"] = *p.SubScores.Document
	}
	return props
}

func profileFromRecord(record graph.Record) (domain.Profile, error) {
	id := toString(record["profileId"])
	assessed, err := time.Parse(domain.DateLayout, toString(record["assessmentDate"]))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: invalid assessment date: %w", id, err)
	}
	loan, err := toDecimal(record["loanAmount"])
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: invalid loan amount: %w", id, err)
	}

	return domain.Profile{
		ID:             id,
		Name:           toString(record["name"]),
		Email:          toString(record["email"]),
		Phone:          toString(record["phone"]),
		AssessmentDate: assessed,
		LoanAmount:     loan,
		CreditScore:    int(toInt64(record["creditScore"])),
		RiskLevel:      domain.RiskLevel(toString(record["riskLevel"])),
		Decision:       domain.Decision(toString(record["decision"])),
		Confidence:     toFloat64(record["confidence"]),
		SubScores: domain.SubScores{
			Banking:     toFloatPtr(record["bankingScore"]),
			SocialMedia: toFloatPtr(record["socialMediaScore"]),
			Document:    toFloatPtr(record["documentScore"]),
		},
	}, nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toFloatPtr(val any) *float64 {
	if val == nil {
		return nil
	}
	f := toFloat64(val)
	return &f
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func toDecimal(val any) (decimal.Decimal, error) {
	switch v := val.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported type %T", val)
	}
}

const upsertProfileCypher = `
MERGE (p:Profile {profileId: $profileId})
SET p += $props
`

const listProfilesCypher = `
MATCH (p:Profile)
RETURN p.profileId AS profileId,
       p.name AS name,
       p.email AS email,
       p.phone AS phone,
       p.assessmentDate AS assessmentDate,
       p.loanAmount AS loanAmount,
       p.creditScore AS creditScore,
       p.riskLevel AS riskLevel,
       p.decision AS decision,
       p.confidence AS confidence,
       p.bankingScore AS bankingScore,
       p.socialMediaScore AS socialMediaScore,
       p.documentScore AS documentScore
ORDER BY coalesce(p.seq, 0) ASC, p.profileId ASC
`
