package core

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Profession tags. Unknown tags resolve to General.
const (
	ProfessionGeneral     = "general"
	ProfessionMedical     = "medical"
	ProfessionLegal       = "legal"
	ProfessionAccounting  = "accounting"
	ProfessionEngineering = "engineering"
)

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
)

// FieldRule validates one profession-specific line item attribute.
type FieldRule struct {
	Name      string
	Label     string
	Type      FieldType
	Required  bool
	MinLength int
	Pattern   *regexp.Regexp
	Min       *decimal.Decimal
	Max       *decimal.Decimal
}

// FieldSchema is the extended line-item shape for one profession: which extra
// attributes exist, how each is validated, and which of them feed the
// profession's cost formula. The registry is pure lookup data and never
// computes totals.
type FieldSchema struct {
	Profession string
	Fields     []FieldRule
	// CostInputs names the numeric attributes consumed by DeriveUnitPrice.
	// Empty means the profession uses the entered unit price as-is.
	CostInputs []string
}

var (
	zero = decimal.Zero

	patternAlnumRef = regexp.MustCompile(`^[A-Za-z0-9/-]+$`)
	patternICD10    = regexp.MustCompile(`^[A-TV-Z][0-9][0-9A-Z](\.[0-9A-Z]{1,4})?$`)
	patternAccCode  = regexp.MustCompile(`^[0-9]{3,6}$`)
	patternPeriod   = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

var professionSchemas = map[string]FieldSchema{
	ProfessionGeneral: {
		Profession: ProfessionGeneral,
	},
	ProfessionMedical: {
		Profession: ProfessionMedical,
		Fields: []FieldRule{
			{Name: "patient_name", Label: "Patient Name", Type: FieldTypeText, Required: true, MinLength: 2},
			{Name: "patient_id", Label: "Patient ID", Type: FieldTypeText, Pattern: patternAlnumRef},
			{Name: "medical_aid_number", Label: "Medical Aid Number", Type: FieldTypeText, Pattern: patternAlnumRef},
			{Name: "icd10_code", Label: "ICD-10 Code", Type: FieldTypeText, Pattern: patternICD10},
		},
	},
	ProfessionLegal: {
		Profession: ProfessionLegal,
		Fields: []FieldRule{
			{Name: "case_number", Label: "Case Number", Type: FieldTypeText, Required: true, Pattern: patternAlnumRef},
			{Name: "court", Label: "Court", Type: FieldTypeText},
			{Name: "matter_description", Label: "Matter Description", Type: FieldTypeText, MinLength: 5},
		},
	},
	ProfessionAccounting: {
		Profession: ProfessionAccounting,
		Fields: []FieldRule{
			{Name: "account_code", Label: "Account Code", Type: FieldTypeText, Required: true, Pattern: patternAccCode},
			{Name: "period", Label: "Period", Type: FieldTypeText, Pattern: patternPeriod},
			{Name: "hours", Label: "Hours", Type: FieldTypeNumber, Min: &zero},
			{Name: "hourly_rate", Label: "Hourly Rate", Type: FieldTypeNumber, Min: &zero},
			{Name: "disbursements", Label: "Disbursements", Type: FieldTypeNumber, Min: &zero},
		},
		CostInputs: []string{"hours", "hourly_rate", "disbursements"},
	},
	ProfessionEngineering: {
		Profession: ProfessionEngineering,
		Fields: []FieldRule{
			{Name: "project_code", Label: "Project Code", Type: FieldTypeText, Required: true, Pattern: patternAlnumRef},
			{Name: "labor_hours", Label: "Labour Hours", Type: FieldTypeNumber, Min: &zero},
			{Name: "labor_rate", Label: "Labour Rate", Type: FieldTypeNumber, Min: &zero},
			{Name: "material_cost", Label: "Material Cost", Type: FieldTypeNumber, Min: &zero},
			{Name: "equipment_cost", Label: "Equipment Cost", Type: FieldTypeNumber, Min: &zero},
		},
		CostInputs: []string{"labor_hours", "labor_rate", "material_cost", "equipment_cost"},
	},
}

// GetSchema returns the field schema for a profession tag. Unknown tags fall
// back to the General schema so basic line-item entry is never blocked.
func GetSchema(profession string) FieldSchema {
	if s, ok := professionSchemas[profession]; ok {
		return s
	}
	return professionSchemas[ProfessionGeneral]
}

// Professions lists the registered profession tags.
func Professions() []string {
	return []string{
		ProfessionGeneral,
		ProfessionMedical,
		ProfessionLegal,
		ProfessionAccounting,
		ProfessionEngineering,
	}
}

// ValidateAttributes checks an item's attribute map against the schema's
// rules. It only guards the extra fields — a document remains computable with
// incomplete optional attributes, and totals are never affected here.
func (s FieldSchema) ValidateAttributes(attrs map[string]string) error {
	for _, rule := range s.Fields {
		value, ok := attrs[rule.Name]
		if !ok || value == "" {
			if rule.Required {
				return &ValidationError{Field: rule.Name, Message: "is required"}
			}
			continue
		}

		if rule.MinLength > 0 && len(value) < rule.MinLength {
			return &ValidationError{Field: rule.Name, Message: fmt.Sprintf("must be at least %d characters", rule.MinLength)}
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			return &ValidationError{Field: rule.Name, Message: "has an invalid format"}
		}

		if rule.Type == FieldTypeNumber {
			d, err := decimal.NewFromString(value)
			if err != nil {
				return &ValidationError{Field: rule.Name, Message: "must be a number"}
			}
			if rule.Min != nil && d.LessThan(*rule.Min) {
				return &ValidationError{Field: rule.Name, Message: fmt.Sprintf("must be at least %s", rule.Min)}
			}
			if rule.Max != nil && d.GreaterThan(*rule.Max) {
				return &ValidationError{Field: rule.Name, Message: fmt.Sprintf("must be at most %s", rule.Max)}
			}
		}
	}
	return nil
}
