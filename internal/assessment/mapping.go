package assessment

import (
	"math"
	"strconv"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

const defaultMovement = 0.3

var movementScores = map[string]float64{
	"frequent":   0.9,
	"occasional": 0.6,
	"local":      0.3,
	"stationary": 0.1,
}

// MovementScore maps a travel pattern to the model's geographical movement feature.
func MovementScore(pattern string) float64 {
	if v, ok := movementScores[strings.ToLower(strings.TrimSpace(pattern))]; ok {
		return v
	}
	return defaultMovement
}

// BuildScoringRequest derives the model payload from the form fields.
// Unparseable or missing numbers become zero.
func BuildScoringRequest(fields map[string]domain.FieldValue) domain.ScoringRequest {
	text := func(name string) string {
		return strings.TrimSpace(fields[name].String())
	}
	return domain.ScoringRequest{
		BankTransactionAverage: floatOrZero(text("averageBalance")),
		SocialMediaScreentime:  floatOrZero(text("socialMediaScreentime")),
		EcommerceScreenTime:    floatOrZero(text("ecommerceScreenTime")),
		CibilScore:             intOrZero(text("cibilScore")),
		GeographicalMovement:   MovementScore(text("travelPattern")),
		SocialMediaReach:       intOrZero(text("socialMediaScore")) * 100,
	}
}

// floatOrZero reads the leading decimal number of s, so "25000 INR" gives
// 25000. Words such as "NaN" or "Inf" are not numbers and give 0.
func floatOrZero(s string) float64 {
	end := signLen(s)
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		exp += signLen(s[exp:])
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// intOrZero reads the leading integer of s, so "750.8" and "750 pts" both give 750.
func intOrZero(s string) int {
	end := signLen(s)
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

func signLen(s string) int {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
