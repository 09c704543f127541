package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldKind tells whether a form field holds text or a checkbox value.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldBool
)

func (k FieldKind) String() string {
	if k == FieldBool {
		return "bool"
	}
	return "text"
}

// FieldValue is a single intake form value. Numeric inputs are kept as text.
type FieldValue struct {
	Kind FieldKind
	Text string
	Flag bool
}

// Text builds a text field value.
func Text(s string) FieldValue { return FieldValue{Kind: FieldText, Text: s} }

// Flag builds a checkbox field value.
func Flag(b bool) FieldValue { return FieldValue{Kind: FieldBool, Flag: b} }

// String renders the value the way the form would display it.
func (v FieldValue) String() string {
	if v.Kind == FieldBool {
		return strconv.FormatBool(v.Flag)
	}
	return v.Text
}

// MarshalJSON encodes text as a JSON string and flags as a JSON bool.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Kind == FieldBool {
		return json.Marshal(v.Flag)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a JSON string, bool or number. Numbers are kept as their literal text.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Flag(data[0] == 't')
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Text(n.String())
	default:
		return fmt.Errorf("unsupported form value %s", data)
	}
	return nil
}

// ScoringRequest is the fixed-shape feature payload sent to the prediction endpoint.
type ScoringRequest struct {
	BankTransactionAverage float64 `json:"bank_transaction_average"`
	SocialMediaScreentime  float64 `json:"social_media_screentime"`
	EcommerceScreenTime    float64 `json:"ecommerce_screen_time"`
	CibilScore             int     `json:"cibil_score"`
	GeographicalMovement   float64 `json:"geographical_movement"`
	SocialMediaReach       int     `json:"social_media_reach"`
}

// ScoringResponse is the prediction endpoint's answer.
type ScoringResponse struct {
	Prediction          int     `json:"prediction"`
	ApprovalProbability float64 `json:"approval_probability"`
}

// AssessmentResult is the input/response pair handed from the submit step to the results view.
type AssessmentResult struct {
	SessionID string                `json:"sessionId"`
	Fields    map[string]FieldValue `json:"formData"`
	Request   ScoringRequest        `json:"modelInput"`
	Response  ScoringResponse       `json:"apiResponse"`
}

// ResultView is the summary rendered by the results page.
type ResultView struct {
	SessionID     string
	ApplicantName string
	CibilScore    int
	Decision      Decision
	RiskLevel     RiskLevel
	Confidence    float64
	Probability   float64
}
