// Package normalize converts loosely-typed SAR records into the fully
// defaulted form the document builders consume. Normalization is total:
// every derived field has a defined fallback, so the builders never see a
// missing value.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincomply/sarforge/internal/model"
)

// UnknownName is the display name used when no suspect name is present.
const UnknownName = "Unknown"

// missingValue is the placeholder shown for absent composed fields.
const missingValue = "N/A"

// thresholdDefault is the synthetic amount substituted into Form 8300
// filings when the record has no total. Form 8300 only applies to cash
// transactions over $10,000, so the default has to clear that bar.
var thresholdDefault = decimal.NewFromInt(10001)

// Record is the normalized view of a SAR record. It is derived per request
// and never stored.
type Record struct {
	ID string

	DisplayName string

	InstitutionName        string
	InstitutionEIN         string
	InstitutionStreet      string
	InstitutionCity        string
	InstitutionState       string
	InstitutionZip         string
	InstitutionAddressLine string

	BranchStreet string
	BranchCity   string
	BranchState  string
	BranchZip    string

	AccountNumber string

	SuspectLastName    string
	SuspectFirstName   string
	SuspectEntityName  string
	SuspectStreet      string
	SuspectCity        string
	SuspectState       string
	SuspectZip         string
	SuspectPhone       string
	SuspectAddressLine string

	ActivityDescription string
	ActivityDate        string

	// FilingDateStamp and TransactionDateStamp are YYYYMMDD strings.
	// ActivityDateLocale is the same activity date as MM/DD/YYYY.
	FilingDateStamp      string
	TransactionDateStamp string
	ActivityDateLocale   string

	TotalAmount decimal.Decimal
	HasAmount   bool
}

// Normalize derives a Record from a raw SAR record. now supplies the filing
// date so callers can hold output stable across calls.
func Normalize(rec *model.SARRecord, now time.Time) Record {
	r := Record{
		ID: rec.ID,

		InstitutionName:   rec.Str(model.FieldInstitutionName),
		InstitutionEIN:    rec.Str(model.FieldInstitutionEIN),
		InstitutionStreet: rec.Str(model.FieldInstitutionAddress),
		InstitutionCity:   rec.Str(model.FieldInstitutionCity),
		InstitutionState:  rec.Str(model.FieldInstitutionState),
		InstitutionZip:    rec.Str(model.FieldInstitutionZip),

		BranchStreet: rec.Str(model.FieldBranchAddress),
		BranchCity:   rec.Str(model.FieldBranchCity),
		BranchState:  rec.Str(model.FieldBranchState),
		BranchZip:    rec.Str(model.FieldBranchZip),

		AccountNumber: rec.Str(model.FieldAccountNumber),

		SuspectLastName:   rec.Str(model.FieldSuspectLastName),
		SuspectFirstName:  rec.Str(model.FieldSuspectFirstName),
		SuspectEntityName: rec.Str(model.FieldSuspectEntityName),
		SuspectStreet:     rec.Str(model.FieldSuspectAddress),
		SuspectCity:       rec.Str(model.FieldSuspectCity),
		SuspectState:      rec.Str(model.FieldSuspectState),
		SuspectZip:        rec.Str(model.FieldSuspectZip),
		SuspectPhone:      rec.Str(model.FieldSuspectPhone),

		ActivityDescription: rec.Str(model.FieldActivityDescription),
		ActivityDate:        rec.Str(model.FieldActivityDate),
	}

	r.DisplayName = displayName(r.SuspectEntityName, r.SuspectFirstName, r.SuspectLastName)
	r.InstitutionAddressLine = AddressLine(r.InstitutionStreet, r.InstitutionCity, r.InstitutionState, r.InstitutionZip)
	r.SuspectAddressLine = AddressLine(r.SuspectStreet, r.SuspectCity, r.SuspectState, r.SuspectZip)

	r.TotalAmount, r.HasAmount = rec.Amount(model.FieldTotalAmount)

	activityDate := r.ActivityDate
	if activityDate == "" {
		activityDate = rec.Str(model.FieldActivityStartDate)
	}
	if activityDate == "" {
		activityDate = rec.Str(model.FieldActivityEndDate)
	}

	r.FilingDateStamp = now.Format("20060102")
	if activityDate == "" {
		r.TransactionDateStamp = now.Format("20060102")
		r.ActivityDateLocale = now.Format("01/02/2006")
	} else {
		r.TransactionDateStamp = DateStamp(activityDate)
		r.ActivityDateLocale = DateLocale(activityDate)
	}

	return r
}

// FilingAmount is the amount used in Form 8300 output. An absent total
// falls back to the threshold-satisfying default. The PDF summary shows
// "N/A" instead; the two policies are intentionally different.
func (r Record) FilingAmount() decimal.Decimal {
	if !r.HasAmount {
		return thresholdDefault
	}
	return r.TotalAmount
}

// FilingAmountText renders FilingAmount as the whole-dollar text the batch
// schema expects.
func (r Record) FilingAmountText() string {
	return r.FilingAmount().Round(0).String()
}

// DisplayAmount renders the total for human review, or "N/A" when absent.
func (r Record) DisplayAmount() string {
	if !r.HasAmount {
		return missingValue
	}
	return "$" + r.TotalAmount.StringFixed(2)
}

// HasBranch reports whether the record carries any branch address data.
func (r Record) HasBranch() bool {
	return r.BranchStreet != ""
}

// BranchAddressLine composes the branch address, or "N/A" when no branch
// component is present.
func (r Record) BranchAddressLine() string {
	return AddressLine(r.BranchStreet, r.BranchCity, r.BranchState, r.BranchZip)
}

func displayName(entity, first, last string) string {
	if entity != "" {
		return entity
	}
	name := strings.TrimSpace(first + " " + last)
	if name != "" {
		return name
	}
	return UnknownName
}

// AddressLine joins the non-empty address components with ", ". When every
// component is empty it returns "N/A".
func AddressLine(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			joined = append(joined, p)
		}
	}
	if len(joined) == 0 {
		return missingValue
	}
	return strings.Join(joined, ", ")
}

// dateLayouts are tried in order when parsing record dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"20060102",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateStamp converts a record date to YYYYMMDD. Unparsable input passes
// through verbatim rather than failing.
func DateStamp(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("20060102")
	}
	return s
}

// DateLocale converts a record date to MM/DD/YYYY. Unparsable input passes
// through verbatim.
func DateLocale(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format("01/02/2006")
	}
	return s
}
