// Package model defines the core domain types shared across the application.
package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical field names recognized on a SAR record. Records arrive from the
// search store as loose key/value maps; any subset of these may be present.
const (
	FieldInstitutionName    = "financial_institution_name"
	FieldInstitutionEIN     = "financial_institution_ein"
	FieldInstitutionAddress = "financial_institution_address"
	FieldInstitutionCity    = "financial_institution_city"
	FieldInstitutionState   = "financial_institution_state"
	FieldInstitutionZip     = "financial_institution_zip"

	FieldBranchAddress = "branch_address"
	FieldBranchCity    = "branch_city"
	FieldBranchState   = "branch_state"
	FieldBranchZip     = "branch_zip"

	FieldAccountNumber = "account_number"

	FieldSuspectLastName   = "suspect_last_name"
	FieldSuspectFirstName  = "suspect_first_name"
	FieldSuspectEntityName = "suspect_entity_name"
	FieldSuspectAddress    = "suspect_address"
	FieldSuspectCity       = "suspect_city"
	FieldSuspectState      = "suspect_state"
	FieldSuspectZip        = "suspect_zip"
	FieldSuspectPhone      = "suspect_phone"

	FieldActivityDate        = "suspicious_activity_date"
	FieldActivityStartDate   = "suspicious_activity_start_date"
	FieldActivityEndDate     = "suspicious_activity_end_date"
	FieldTotalAmount         = "total_dollar_amount"
	FieldActivityDescription = "activity_description"
)

// SARRecord is a suspicious activity report as stored in the record store.
// Fields is a loose mapping; no key is guaranteed present and values may be
// strings, numbers, or json.Number depending on how the record was indexed.
type SARRecord struct {
	Fields map[string]any
	ID     string
}

// Str returns the trimmed string value of a field, or "" when the field is
// absent or not a scalar.
func (r *SARRecord) Str(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return decimal.NewFromFloat(val).String()
	case int:
		return decimal.NewFromInt(int64(val)).String()
	case int64:
		return decimal.NewFromInt(val).String()
	default:
		return ""
	}
}

// Amount returns the decimal value of a numeric field. The second return is
// false when the field is absent or cannot be coerced to a number.
func (r *SARRecord) Amount(key string) (decimal.Decimal, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return decimal.Zero, false
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(val, "$"), ",", ""))
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// Has reports whether a field is present with a non-empty scalar value.
func (r *SARRecord) Has(key string) bool {
	if r.Str(key) != "" {
		return true
	}
	_, ok := r.Amount(key)
	return ok
}
