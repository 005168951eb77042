package pdfgen

import (
	"strings"

	"github.com/fincomply/sarforge/internal/normalize"
)

// fieldTarget maps one semantic value to the template field name patterns
// that may hold it. Matching is a heuristic, not a contract with the
// template provider: a field matches when its lowercased name contains, or
// is contained by, one of the patterns.
type fieldTarget struct {
	value    func(rec normalize.Record) string
	name     string
	patterns []string
}

// fillTargets is evaluated in declared order, and within a target the
// patterns are tried in declared order; the first matching text field wins
// and the target stops searching. Keeping this an ordered slice makes ties
// deterministic.
var fillTargets = []fieldTarget{
	{
		name:     "institution_name",
		patterns: []string{"name", "institution", "bank"},
		value:    func(r normalize.Record) string { return r.InstitutionName },
	},
	{
		name:     "institution_ein",
		patterns: []string{"ein", "tin", "taxpayer"},
		value:    func(r normalize.Record) string { return r.InstitutionEIN },
	},
	{
		name:     "institution_address",
		patterns: []string{"address", "street"},
		value:    func(r normalize.Record) string { return r.InstitutionStreet },
	},
	{
		name:     "institution_city",
		patterns: []string{"city"},
		value:    func(r normalize.Record) string { return r.InstitutionCity },
	},
	{
		name:     "institution_state",
		patterns: []string{"state"},
		value:    func(r normalize.Record) string { return r.InstitutionState },
	},
	{
		name:     "institution_zip",
		patterns: []string{"zip", "postal"},
		value:    func(r normalize.Record) string { return r.InstitutionZip },
	},
	{
		name:     "account_number",
		patterns: []string{"account"},
		value:    func(r normalize.Record) string { return r.AccountNumber },
	},
	{
		name:     "suspect_name",
		patterns: []string{"suspect", "last"},
		value:    func(r normalize.Record) string { return r.DisplayName },
	},
	{
		name:     "suspect_first_name",
		patterns: []string{"first"},
		value:    func(r normalize.Record) string { return r.SuspectFirstName },
	},
	{
		name:     "suspect_phone",
		patterns: []string{"phone", "telephone"},
		value:    func(r normalize.Record) string { return r.SuspectPhone },
	},
	{
		name:     "total_amount",
		patterns: []string{"amount", "total"},
		value:    func(r normalize.Record) string { return r.DisplayAmount() },
	},
	{
		name:     "activity_date",
		patterns: []string{"date"},
		value:    func(r normalize.Record) string { return r.ActivityDateLocale },
	},
	{
		name:     "activity_description",
		patterns: []string{"description", "narrative", "activity"},
		value:    func(r normalize.Record) string { return r.ActivityDescription },
	},
}

// templateField is one named field discovered in a template.
type templateField struct {
	Name   string
	IsText bool
}

// fieldFill pairs a template field name with the value to write into it.
type fieldFill struct {
	Field string
	Value string
}

// matchTargets resolves the fill targets against the template's fields.
// Targets with empty values are skipped, as are non-text fields. Each
// template field is claimed by at most one target; a later target cannot
// overwrite a field an earlier one already filled.
func matchTargets(rec normalize.Record, fields []templateField) []fieldFill {
	fills := make([]fieldFill, 0, len(fillTargets))
	claimed := make(map[string]bool, len(fillTargets))

	for _, target := range fillTargets {
		value := cleanFieldValue(target.value(rec))
		if value == "" {
			continue
		}

		if name, ok := findField(fields, target.patterns, claimed); ok {
			claimed[name] = true
			fills = append(fills, fieldFill{Field: name, Value: value})
		}
	}

	return fills
}

// findField returns the first unclaimed text field matching any pattern,
// scanning patterns in declared order.
func findField(fields []templateField, patterns []string, claimed map[string]bool) (string, bool) {
	for _, pattern := range patterns {
		for _, f := range fields {
			if !f.IsText || claimed[f.Name] {
				continue
			}
			name := strings.ToLower(strings.TrimSpace(f.Name))
			if name == "" {
				continue
			}
			if strings.Contains(name, pattern) || strings.Contains(pattern, name) {
				return f.Name, true
			}
		}
	}
	return "", false
}
