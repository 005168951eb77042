package pdfgen

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/normalize"
)

// Summary page layout, letter size in points (612 x 792).
const (
	pageLeft   = 54.0
	pageRight  = 558.0
	pageTop    = 60.0
	pageBottom = 710.0

	labelX = 54.0
	valueX = 210.0

	lineHeight    = 16.0
	sectionGap    = 14.0
	bodyFontSize  = 10.0
	titleFontSize = 16.0
)

var disclaimerLines = [2]string{
	"This summary was generated automatically from a stored Suspicious Activity Report record.",
	"It is intended for manual compliance review and is not an official regulatory filing.",
}

// summaryRow is one label/value line. Rows with empty values are skipped at
// render time.
type summaryRow struct {
	Label string
	Value string
}

// summarySection is a titled group of rows.
type summarySection struct {
	Title string
	Rows  []summaryRow
}

// summarySections lays out the record as the ordered sections of the
// fallback document. The Branch section only appears when the record has
// branch address data.
func summarySections(rec normalize.Record) []summarySection {
	sections := []summarySection{
		{
			Title: "Financial Institution",
			Rows: []summaryRow{
				{Label: "Institution Name", Value: rec.InstitutionName},
				{Label: "EIN", Value: rec.InstitutionEIN},
				{Label: "Address", Value: rec.InstitutionStreet},
				{Label: "City", Value: rec.InstitutionCity},
				{Label: "State", Value: rec.InstitutionState},
				{Label: "ZIP Code", Value: rec.InstitutionZip},
			},
		},
	}

	if rec.HasBranch() {
		sections = append(sections, summarySection{
			Title: "Branch",
			Rows: []summaryRow{
				{Label: "Branch Address", Value: rec.BranchStreet},
				{Label: "City", Value: rec.BranchCity},
				{Label: "State", Value: rec.BranchState},
				{Label: "ZIP Code", Value: rec.BranchZip},
			},
		})
	}

	sections = append(sections,
		summarySection{
			Title: "Account",
			Rows: []summaryRow{
				{Label: "Account Number", Value: rec.AccountNumber},
			},
		},
		summarySection{
			Title: "Suspect",
			Rows: []summaryRow{
				{Label: "Name", Value: rec.DisplayName},
				{Label: "Address", Value: rec.SuspectAddressLine},
				{Label: "Phone", Value: rec.SuspectPhone},
			},
		},
		summarySection{
			Title: "Activity",
			Rows: []summaryRow{
				{Label: "Activity Date", Value: rec.ActivityDateLocale},
				{Label: "Total Dollar Amount", Value: rec.DisplayAmount()},
				{Label: "Description", Value: rec.ActivityDescription},
			},
		},
	)

	return sections
}

// renderSummary draws the fallback document. It cannot fail on missing
// record data; every row with an empty value is skipped.
func renderSummary(rec normalize.Record, recordID string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	// Sorted catalog writes plus a pinned metadata clock keep identical
	// inputs yielding identical bytes. Without the sort, font resource
	// dictionaries come out in map iteration order.
	pdf.SetCatalogSort(true)
	creation := time.Unix(0, 0).UTC()
	if t, err := time.Parse("20060102", rec.FilingDateStamp); err == nil {
		creation = t
	}
	pdf.SetCreationDate(creation)
	pdf.SetModificationDate(creation)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	y := pageTop

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.Text(pageLeft, y, "Suspicious Activity Report Summary")
	y += lineHeight * 1.5

	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.Text(pageLeft, y, fmt.Sprintf("Record ID: %s", cleanFieldValue(recordID)))
	y += lineHeight * 2

	for _, section := range summarySections(rec) {
		y = ensureRoom(pdf, y, lineHeight*2)

		pdf.SetFont("Helvetica", "B", bodyFontSize+2)
		pdf.Text(pageLeft, y, section.Title)
		y += lineHeight

		pdf.SetFont("Helvetica", "", bodyFontSize)
		for _, row := range section.Rows {
			value := cleanFieldValue(row.Value)
			if value == "" {
				continue
			}
			// Composed address lines use "N/A" as their absent marker.
			// The amount row is the one "N/A" that must stay visible.
			if value == "N/A" && row.Label != "Total Dollar Amount" {
				continue
			}

			lines := wrapText(pdf, value, pageRight-valueX)
			y = ensureRoom(pdf, y, lineHeight*float64(len(lines)))

			pdf.Text(labelX, y, row.Label+":")
			for i, line := range lines {
				if i > 0 {
					y += lineHeight
					y = ensureRoom(pdf, y, lineHeight)
				}
				pdf.Text(valueX, y, line)
			}
			y += lineHeight
		}

		y += sectionGap
	}

	y = ensureRoom(pdf, y, lineHeight*3)
	y += lineHeight
	pdf.SetFont("Helvetica", "I", bodyFontSize-1)
	for _, line := range disclaimerLines {
		pdf.Text(pageLeft, y, line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}
	return buf.Bytes(), nil
}

// ensureRoom starts a new page when the next block would run past the
// bottom margin.
func ensureRoom(pdf *gofpdf.Fpdf, y, needed float64) float64 {
	if y+needed <= pageBottom {
		return y
	}
	pdf.AddPage()
	return pageTop
}

// wrapText splits a value into lines that fit the given width at the
// current font, measuring real string widths rather than counting runes.
func wrapText(pdf *gofpdf.Fpdf, s string, width float64) []string {
	if pdf.GetStringWidth(s) <= width {
		return []string{s}
	}

	var lines []string
	var current string
	for _, word := range splitWords(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if pdf.GetStringWidth(candidate) <= width || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
