package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// Generator produces synthetic applicant profiles for the record store.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	emails        map[string]int
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumProfiles <= 0 {
		cfg.NumProfiles = def.NumProfiles
	}
	if cfg.PendingChance < 0 || cfg.PendingChance > 1 {
		cfg.PendingChance = def.PendingChance
	}
	if cfg.LatestDate.IsZero() {
		cfg.LatestDate = def.LatestDate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
		emails:        make(map[string]int),
	}
}

// Generate synthesises profiles in assessment-date order, newest first.
// It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Profile, error) {
	profiles := make([]domain.Profile, 0, g.cfg.NumProfiles)
	day := g.cfg.LatestDate.UTC().Truncate(24 * time.Hour)

	for i := 0; i < g.cfg.NumProfiles; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := g.randomFullName()
		credit := g.randomCreditScore()
		risk := riskForScore(credit)
		banking := g.subScore(credit)
		social := g.subScore(credit)
		document := g.subScore(credit)

		profiles = append(profiles, domain.Profile{
			ID:             fmt.Sprintf("CR%03d", i+1),
			Name:           name,
			Email:          g.uniqueEmail(name),
			Phone:          g.randomPhone(),
			AssessmentDate: day,
			LoanAmount:     g.randomLoanAmount(),
			CreditScore:    credit,
			RiskLevel:      risk,
			Decision:       g.decisionFor(risk),
			Confidence:     round1(60 + g.rand.Float64()*38),
			SubScores: domain.SubScores{
				Banking:     &banking,
				SocialMedia: &social,
				Document:    &document,
			},
		})

		if g.rand.Float64() < 0.6 {
			day = day.AddDate(0, 0, -1)
		}
	}
	return profiles, nil
}

// randomCreditScore draws from a bell around 690 clamped to the bureau range.
func (g *Generator) randomCreditScore() int {
	score := int(math.Round(690 + g.rand.NormFloat64()*70))
	return max(domain.MinCreditScore, min(domain.MaxCreditScore, score))
}

func riskForScore(score int) domain.RiskLevel {
	switch {
	case score >= 720:
		return domain.RiskLow
	case score >= 650:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func (g *Generator) decisionFor(risk domain.RiskLevel) domain.Decision {
	switch risk {
	case domain.RiskLow:
		if g.rand.Float64() < 0.9 {
			return domain.DecisionApproved
		}
		return domain.DecisionPending
	case domain.RiskMedium:
		roll := g.rand.Float64()
		switch {
		case roll < g.cfg.PendingChance:
			return domain.DecisionPending
		case roll < g.cfg.PendingChance+(1-g.cfg.PendingChance)/2:
			return domain.DecisionApproved
		default:
			return domain.DecisionRejected
		}
	default:
		if g.rand.Float64() < 0.85 {
			return domain.DecisionRejected
		}
		return domain.DecisionPending
	}
}

// subScore tracks the credit score with some noise, on a 0-100 scale.
func (g *Generator) subScore(credit int) float64 {
	base := float64(credit-domain.MinCreditScore) / float64(domain.MaxCreditScore-domain.MinCreditScore) * 100
	return math.Max(0, math.Min(100, math.Round(base+g.rand.NormFloat64()*8)))
}

// randomLoanAmount returns a multiple of 10,000 between 50,000 and 15 lakh.
func (g *Generator) randomLoanAmount() decimal.Decimal {
	steps := 5 + g.rand.Intn(146)
	return decimal.NewFromInt(int64(steps) * 10000)
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.first[g.rand.Intn(len(g.nameFragments.first))],
		g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))])
}

func (g *Generator) uniqueEmail(name string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	domainName := g.nameFragments.domains[g.rand.Intn(len(g.nameFragments.domains))]
	key := local + "@" + domainName
	g.emails[key]++
	if n := g.emails[key]; n > 1 {
		return fmt.Sprintf("%s%d@%s", local, n, domainName)
	}
	return key
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+91 %d%04d %05d", 6+g.rand.Intn(4), g.rand.Intn(10000), g.rand.Intn(100000))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type nameFragments struct {
	first   []string
	last    []string
	domains []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first: []string{"Rajesh", "Priya", "Amit", "Sneha", "Vikram", "Anita", "Arjun", "Kavya", "Rohan", "Meera",
			"Sanjay", "Pooja", "Karthik", "Divya", "Manish", "Lakshmi", "Nikhil", "Isha", "Suresh", "Ananya"},
		last: []string{"Kumar", "Sharma", "Patel", "Reddy", "Singh", "Gupta", "Mehta", "Nair", "Iyer", "Das",
			"Joshi", "Rao", "Bose", "Menon", "Verma", "Chopra"},
		domains: []string{"email.com", "mail.in", "inbox.co.in"},
	}
}
