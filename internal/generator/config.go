package generator

import "time"

// Config drives the synthetic profile generator.
type Config struct {
	NumProfiles int
	// PendingChance is the share of medium-risk applicants left undecided.
	PendingChance float64
	// LatestDate is the assessment date of the first profile; later profiles step back in time.
	LatestDate time.Time
	Seed       int64
}

// DefaultConfig returns settings sized for a demo dashboard.
func DefaultConfig() Config {
	return Config{
		NumProfiles:   500,
		PendingChance: 0.3,
		LatestDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Seed:          42,
	}
}
