// Package pdfgen renders SAR records as PDF documents. It tries to fill a
// provided fillable template first and falls back to rendering a summary
// page; the summary only needs the record itself, so generation always
// produces a document.
package pdfgen

import (
	"log/slog"

	"github.com/fincomply/sarforge/internal/normalize"
)

// fillOutcome is the result of the template-fill strategy.
type fillOutcome int

const (
	filled fillOutcome = iota
	fallbackNeeded
	loadFailed
)

// Generator produces SAR PDFs. It holds no per-request state; concurrent
// Generate calls are independent.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a PDF generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate renders one record. template holds the raw bytes of a fillable
// template, or nil when none is available. Any template problem degrades to
// the summary renderer rather than surfacing an error; the returned error
// covers internal rendering faults only.
func (g *Generator) Generate(rec normalize.Record, recordID string, template []byte) ([]byte, error) {
	if len(template) > 0 {
		out, outcome := tryTemplateFill(rec, template, g.logger)
		switch outcome {
		case filled:
			return out, nil
		case loadFailed:
			g.logger.Info("template unreadable, rendering summary", "record_id", recordID)
		case fallbackNeeded:
			g.logger.Info("template fill produced no fields, rendering summary", "record_id", recordID)
		}
	}

	return renderSummary(rec, recordID)
}
