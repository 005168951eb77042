package fincen

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/normalize"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func buildRecord(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	rec := &model.SARRecord{ID: "R1", Fields: fields}
	out, err := NewBuilder().Build(normalize.Normalize(rec, fixedNow), rec.ID)
	require.NoError(t, err)
	return out
}

func requireWellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err, "document is not well-formed XML")
	}
}

var seqNumRe = regexp.MustCompile(`SeqNum="(\d+)"`)

func seqNums(doc []byte) []int {
	matches := seqNumRe.FindAllSubmatch(doc, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, _ := strconv.Atoi(string(m[1]))
		nums = append(nums, n)
	}
	return nums
}

func TestBuild_EmptyRecord(t *testing.T) {
	out := buildRecord(t, map[string]any{})
	requireWellFormed(t, out)

	doc := string(out)
	assert.Equal(t, 4, strings.Count(doc, "<Party "), "always exactly four parties")
	assert.Contains(t, doc, `PartyCount="4"`)
	assert.Contains(t, doc, `ActivityCount="1"`)
	assert.Contains(t, doc, `TotalAmount="10001"`, "absent amount uses the threshold default")
	assert.Contains(t, doc, `xmlns="www.fincen.gov/base"`)
	assert.Contains(t, doc, "<RawPartyFullName>Financial Institution</RawPartyFullName>")
	assert.Contains(t, doc, "<RawEntityIndividualLastName>Unknown</RawEntityIndividualLastName>")
}

func TestBuild_SequenceNumbers(t *testing.T) {
	tests := []struct {
		fields map[string]any
		name   string
	}{
		{name: "empty record", fields: map[string]any{}},
		{
			name: "full record",
			fields: map[string]any{
				model.FieldInstitutionName:     "First National Bank",
				model.FieldInstitutionEIN:      "12-3456789",
				model.FieldInstitutionAddress:  "1 Bank Plaza",
				model.FieldInstitutionCity:     "Chicago",
				model.FieldInstitutionState:    "IL",
				model.FieldInstitutionZip:      "60601",
				model.FieldSuspectLastName:     "Smith",
				model.FieldSuspectFirstName:    "John",
				model.FieldSuspectAddress:      "2 Oak St",
				model.FieldSuspectPhone:        "5551234567",
				model.FieldTotalAmount:         float64(15000),
				model.FieldActivityDate:        "2024-01-10",
				model.FieldActivityDescription: "Structured cash deposits",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := buildRecord(t, tt.fields)
			nums := seqNums(out)

			require.NotEmpty(t, nums)
			for i, n := range nums {
				require.Equal(t, i+1, n, "sequence numbers must increase by one with no gaps")
			}
		})
	}
}

func TestBuild_EscapesFreeText(t *testing.T) {
	out := buildRecord(t, map[string]any{
		model.FieldInstitutionName:     `Bank <of> Smith & Sons`,
		model.FieldActivityDescription: "wired <funds> & fled — très vite",
	})
	requireWellFormed(t, out)

	doc := string(out)
	assert.NotContains(t, doc, "<of>")
	assert.NotContains(t, doc, "<funds>")
	assert.Contains(t, doc, "Smith &amp; Sons")
	assert.NotContains(t, doc, "très", "non-ASCII must be stripped")
}

func TestBuild_EndToEndScenario(t *testing.T) {
	out := buildRecord(t, map[string]any{
		model.FieldInstitutionName:  "First National Bank",
		model.FieldSuspectLastName:  "Smith",
		model.FieldSuspectFirstName: "John",
		model.FieldTotalAmount:      float64(15000),
		model.FieldActivityDate:     "2024-01-10",
	})
	requireWellFormed(t, out)

	var batch Batch
	require.NoError(t, xml.Unmarshal(out, &batch))

	assert.Equal(t, "15000", batch.TotalAmount)
	assert.Equal(t, "20240110", batch.Activity.CurrencyActivity.TransactionDateText)
	assert.Equal(t, "20240315", batch.Activity.FilingDateText)
	assert.Equal(t, "Y", batch.Activity.SuspiciousTransactionIndicator)

	require.Len(t, batch.Activity.Parties, 4)
	var provider *Party
	for i := range batch.Activity.Parties {
		if batch.Activity.Parties[i].ActivityPartyTypeCode == PartyTypeCashProvider {
			provider = &batch.Activity.Parties[i]
		}
	}
	require.NotNil(t, provider, "cash provider party missing")
	assert.Equal(t, "Smith", provider.Name.RawEntityIndividualLastName.Value)
	assert.Equal(t, "John", provider.Name.RawIndividualFirstName.Value)
}

func TestBuild_PartyOrderAndTypes(t *testing.T) {
	out := buildRecord(t, map[string]any{})

	var batch Batch
	require.NoError(t, xml.Unmarshal(out, &batch))
	require.Len(t, batch.Activity.Parties, 4)

	codes := make([]string, 0, 4)
	for _, p := range batch.Activity.Parties {
		codes = append(codes, p.ActivityPartyTypeCode)
	}
	assert.Equal(t, []string{
		PartyTypeReceivingBusiness,
		PartyTypeCashProvider,
		PartyTypeTransmitter,
		PartyTypeContact,
	}, codes)

	contact := batch.Activity.Parties[3]
	require.NotNil(t, contact.Name.RawPartyFullName)
	assert.Equal(t, "Compliance Officer", contact.Name.RawPartyFullName.Value)
}

func TestBuild_NeverEmitsSSN(t *testing.T) {
	out := buildRecord(t, map[string]any{model.FieldSuspectLastName: "Smith"})

	var batch Batch
	require.NoError(t, xml.Unmarshal(out, &batch))

	provider := batch.Activity.Parties[1]
	require.NotNil(t, provider.Identification)
	assert.Equal(t, "1", provider.Identification.PartyIdentificationTypeCode)
	assert.Empty(t, provider.Identification.PartyIdentificationNumberText.Value)
}

func TestBuild_CurrencyActivityDetails(t *testing.T) {
	out := buildRecord(t, map[string]any{
		model.FieldTotalAmount:         float64(15000),
		model.FieldActivityDescription: "Cash exchange",
	})

	var batch Batch
	require.NoError(t, xml.Unmarshal(out, &batch))

	details := batch.Activity.CurrencyActivity.Details
	require.Len(t, details, 2, "schema requires a minimum of two detail entries")
	assert.Equal(t, "15000", details[0].DetailTransactionAmountText)
	assert.Equal(t, "0", details[1].DetailTransactionAmountText)
}

func TestBuild_NarrativeCapped(t *testing.T) {
	out := buildRecord(t, map[string]any{
		model.FieldActivityDescription: strings.Repeat("suspicious ", 200),
	})

	var batch Batch
	require.NoError(t, xml.Unmarshal(out, &batch))

	narrative := batch.Activity.Narrative.ActivityNarrativeText.Value
	assert.LessOrEqual(t, len(narrative), 750)
	assert.Contains(t, narrative, "R1")
}

func TestBuild_Idempotent(t *testing.T) {
	rec := &model.SARRecord{ID: "R1", Fields: map[string]any{
		model.FieldInstitutionName: "First National Bank",
		model.FieldTotalAmount:     float64(15000),
		model.FieldActivityDate:    "2024-01-10",
	}}
	norm := normalize.Normalize(rec, fixedNow)

	b := NewBuilder()
	first, err := b.Build(norm, rec.ID)
	require.NoError(t, err)
	second, err := b.Build(norm, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same record and clock must yield identical bytes")
}
