package pdfgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincomply/sarforge/internal/model"
)

func sectionTitles(sections []summarySection) []string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func TestSummarySections_BranchOmittedWhenAbsent(t *testing.T) {
	rec := normalized(map[string]any{
		model.FieldSuspectFirstName: "John",
		model.FieldTotalAmount:      float64(15000),
	})

	titles := sectionTitles(summarySections(rec))

	assert.Equal(t, []string{"Financial Institution", "Account", "Suspect", "Activity"}, titles)
}

func TestSummarySections_BranchIncludedWhenPresent(t *testing.T) {
	rec := normalized(map[string]any{
		model.FieldBranchAddress: "99 Side St",
		model.FieldBranchCity:    "Peoria",
	})

	titles := sectionTitles(summarySections(rec))

	assert.Equal(t, []string{"Financial Institution", "Branch", "Account", "Suspect", "Activity"}, titles)
}

func TestSummarySections_AmountPolicy(t *testing.T) {
	// The summary shows N/A for an absent amount; it must never inherit
	// the XML builder's synthetic threshold default.
	rec := normalized(map[string]any{})

	sections := summarySections(rec)
	activity := sections[len(sections)-1]
	require.Equal(t, "Activity", activity.Title)

	var amount string
	for _, row := range activity.Rows {
		if row.Label == "Total Dollar Amount" {
			amount = row.Value
		}
	}
	assert.Equal(t, "N/A", amount)
}

func TestRenderSummary(t *testing.T) {
	rec := normalized(map[string]any{
		model.FieldSuspectFirstName: "John",
		model.FieldTotalAmount:      float64(15000),
	})

	out, err := renderSummary(rec, "R1")
	require.NoError(t, err)

	assert.True(t, len(out) > 500, "summary document suspiciously small")
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestRenderSummary_EmptyRecord(t *testing.T) {
	out, err := renderSummary(normalized(map[string]any{}), "R1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestRenderSummary_LongDescriptionPaginates(t *testing.T) {
	long := ""
	for i := 0; i < 400; i++ {
		long += "structured deposits below the reporting threshold "
	}
	rec := normalized(map[string]any{model.FieldActivityDescription: long})

	out, err := renderSummary(rec, "R1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestRenderSummary_Idempotent(t *testing.T) {
	rec := normalized(map[string]any{
		model.FieldInstitutionName: "First National Bank",
		model.FieldTotalAmount:     float64(15000),
	})

	first, err := renderSummary(rec, "R1")
	require.NoError(t, err)

	// Resource dictionaries are emitted from maps; repeated renders catch
	// any ordering that escapes the catalog sort.
	for i := 0; i < 25; i++ {
		out, err := renderSummary(rec, "R1")
		require.NoError(t, err)
		require.Equal(t, first, out, "same record must yield identical bytes")
	}
}

func TestSplitWords(t *testing.T) {
	out := splitWords("one  two\tthree\nfour")
	assert.Equal(t, []string{"one", "two", "three", "four"}, out)
}
