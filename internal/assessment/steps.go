// Package assessment implements the six-step applicant intake form: its step
// table, the per-session state machine, the scoring payload mapping and the
// registry that hosts sessions for the HTTP API.
package assessment

import (
	"fmt"
	"strings"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// Step is a position in the intake form.
type Step int

const (
	StepPersonal Step = iota + 1
	StepBanking
	StepCreditBureau
	StepDeviceSIM
	StepGeolocation
	StepSocialDocs
)

const (
	FirstStep = StepPersonal
	LastStep  = StepSocialDocs
)

type stepDef struct {
	title  string
	fields []string
}

var stepTable = map[Step]stepDef{
	StepPersonal: {
		title:  "Personal Info",
		fields: []string{"fullName", "dateOfBirth", "panNumber", "aadharNumber", "phoneNumber", "email", "address"},
	},
	StepBanking: {
		title:  "Banking Data",
		fields: []string{"bankName", "accountType", "monthlyIncome", "averageBalance", "transactionFrequency"},
	},
	StepCreditBureau: {
		title:  "Credit Bureau",
		fields: []string{"cibilScore", "creditHistory", "existingLoans", "loanAmount"},
	},
	StepDeviceSIM: {
		title:  "Device/SIM",
		fields: []string{"deviceType", "simAge", "networkProvider", "appUsagePattern", "socialMediaScreentime", "ecommerceScreenTime"},
	},
	StepGeolocation: {
		title:  "Geolocation",
		fields: []string{"homeLocation", "workLocation", "travelPattern", "locationStability"},
	},
	StepSocialDocs: {
		title:  "Social/Docs",
		fields: []string{"linkedinVerified", "facebookProfile", "instagramProfile", "socialMediaScore", "panAadharMatch", "dobMatch", "addressMatch", "documentScore"},
	},
}

var boolFields = map[string]bool{
	"linkedinVerified": true,
	"facebookProfile":  true,
	"instagramProfile": true,
	"panAadharMatch":   true,
	"dobMatch":         true,
	"addressMatch":     true,
}

// RequiredFields are marked on the form but never block navigation.
var RequiredFields = []string{"fullName", "dateOfBirth", "panNumber", "aadharNumber", "phoneNumber", "email", "cibilScore"}

// fieldSteps is the reverse index of stepTable.
var fieldSteps = buildFieldSteps()

func buildFieldSteps() map[string]Step {
	out := make(map[string]Step)
	for step, def := range stepTable {
		for _, f := range def.fields {
			if prev, dup := out[f]; dup {
				panic(fmt.Sprintf("field %q listed in steps %d and %d", f, prev, step))
			}
			out[f] = step
		}
	}
	return out
}

// Valid reports whether s is one of the six form steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Title is the label shown in the step indicator.
func (s Step) Title() string {
	if def, ok := stepTable[s]; ok {
		return def.title
	}
	return fmt.Sprintf("Step %d", int(s))
}

// Fields lists the inputs rendered on this step.
func (s Step) Fields() []string {
	def, ok := stepTable[s]
	if !ok {
		return nil
	}
	return append([]string(nil), def.fields...)
}

func (s Step) String() string {
	return strings.ToLower(strings.ReplaceAll(s.Title(), "/", "-"))
}

// Steps returns the form steps in order.
func Steps() []Step {
	out := make([]Step, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, s)
	}
	return out
}

// KindOf returns the value kind of a form field and whether the field exists.
func KindOf(field string) (domain.FieldKind, bool) {
	if _, ok := fieldSteps[field]; !ok {
		return domain.FieldText, false
	}
	if boolFields[field] {
		return domain.FieldBool, true
	}
	return domain.FieldText, true
}

// StepOf returns the step that renders field.
func StepOf(field string) (Step, bool) {
	s, ok := fieldSteps[field]
	return s, ok
}

// IsRequired reports whether field carries the required marker.
func IsRequired(field string) bool {
	for _, f := range RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

// blankFields returns the initial value of every field: empty text or false.
func blankFields() map[string]domain.FieldValue {
	out := make(map[string]domain.FieldValue, len(fieldSteps))
	for f := range fieldSteps {
		if boolFields[f] {
			out[f] = domain.Flag(false)
		} else {
			out[f] = domain.Text("")
		}
	}
	return out
}
