package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// ProfileRecord is the on-disk representation of a profile in fixture files.
type ProfileRecord struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Email            string   `yaml:"email" json:"email"`
	Phone            string   `yaml:"phone" json:"phone"`
	AssessmentDate   string   `yaml:"assessment_date" json:"assessmentDate"`
	LoanAmount       string   `yaml:"loan_amount" json:"loanAmount"`
	CreditScore      int      `yaml:"credit_score" json:"creditScore"`
	RiskLevel        string   `yaml:"risk_level" json:"riskLevel"`
	Decision         string   `yaml:"decision" json:"decision"`
	Confidence       float64  `yaml:"confidence" json:"confidence"`
	BankingScore     *float64 `yaml:"banking_score,omitempty" json:"bankingScore,omitempty"`
	SocialMediaScore *float64 `yaml:"social_media_score,omitempty" json:"socialMediaScore,omitempty"`
	DocumentScore    *float64 `yaml:"document_score,omitempty" json:"documentScore,omitempty"`
}

// ToDomain parses the record into a domain profile.
func (r ProfileRecord) ToDomain() (domain.Profile, error) {
	assessed, err := time.Parse(domain.DateLayout, strings.TrimSpace(r.AssessmentDate))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: invalid assessment date %q", r.ID, r.AssessmentDate)
	}
	loan, err := decimal.NewFromString(strings.TrimSpace(r.LoanAmount))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: invalid loan amount %q", r.ID, r.LoanAmount)
	}
	risk, err := domain.ParseRiskLevel(r.RiskLevel)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", r.ID, err)
	}
	decision, err := domain.ParseDecision(r.Decision)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", r.ID, err)
	}

	return domain.Profile{
		ID:             strings.TrimSpace(r.ID),
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		AssessmentDate: assessed,
		LoanAmount:     loan,
		CreditScore:    r.CreditScore,
		RiskLevel:      risk,
		Decision:       decision,
		Confidence:     r.Confidence,
		SubScores: domain.SubScores{
			Banking:     r.BankingScore,
			SocialMedia: r.SocialMediaScore,
			Document:    r.DocumentScore,
		},
	}, nil
}

// RecordFromDomain converts a profile into its fixture file form.
func RecordFromDomain(p domain.Profile) ProfileRecord {
	return ProfileRecord{
		ID:               p.ID,
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		AssessmentDate:   p.AssessmentDate.Format(domain.DateLayout),
		LoanAmount:       p.LoanAmount.String(),
		CreditScore:      p.CreditScore,
		RiskLevel:        string(p.RiskLevel),
		Decision:         string(p.Decision),
		Confidence:       p.Confidence,
		BankingScore:     p.SubScores.Banking,
		SocialMediaScore: p.SubScores.SocialMedia,
		DocumentScore:    p.SubScores.Document,
	}
}

// ReadProfiles decodes a YAML or JSON fixture file (by extension; YAML otherwise).
func ReadProfiles(path string) ([]domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	var records []ProfileRecord
	if isJSON(path) {
		err = json.Unmarshal(data, &records)
	} else {
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}

	profiles := make([]domain.Profile, 0, len(records))
	for _, rec := range records {
		p, err := rec.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("fixtures %s: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadFixtureFile reads a fixture file and freezes it into a FixtureSource.
func LoadFixtureFile(path string) (*FixtureSource, error) {
	profiles, err := ReadProfiles(path)
	if err != nil {
		return nil, err
	}
	return NewFixtureSource(profiles)
}

// WriteProfiles serializes profiles to path, creating parent directories.
func WriteProfiles(path string, profiles []domain.Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	records := make([]ProfileRecord, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, RecordFromDomain(p))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if isJSON(path) {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	} else {
		enc := yaml.NewEncoder(file)
		enc.SetIndent(2)
		err = enc.Encode(records)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("encode fixtures for %s: %w", path, err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
