package pdfgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fincomply/sarforge/internal/normalize"
)

// templateConf returns a pdfcpu configuration tolerant of the slightly
// malformed and encrypted-but-readable templates agencies distribute.
func templateConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// listTemplateFields enumerates the named form fields of a template.
func listTemplateFields(template []byte) ([]templateField, error) {
	fields, err := api.FormFields(bytes.NewReader(template), templateConf())
	if err != nil {
		return nil, fmt.Errorf("listing form fields: %w", err)
	}

	out := make([]templateField, 0, len(fields))
	for _, f := range fields {
		out = append(out, templateField{
			Name:   f.Name,
			IsText: f.Typ == form.FTText,
		})
	}
	return out, nil
}

// textFieldEntry is one entry of the pdfcpu form-fill JSON payload.
type textFieldEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// fillTemplate writes the resolved values into the template and locks the
// form afterwards so the output is no longer editable. Locking is best
// effort: a failure is logged and the unlocked document returned.
func fillTemplate(template []byte, fills []fieldFill, logger *slog.Logger) ([]byte, error) {
	entries := make([]textFieldEntry, 0, len(fills))
	for _, fill := range fills {
		entries = append(entries, textFieldEntry{Name: fill.Field, Value: fill.Value})
	}

	payload, err := json.Marshal(map[string]any{
		"forms": []any{
			map[string]any{"textfield": entries},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding fill payload: %w", err)
	}

	var filled bytes.Buffer
	if err := api.FillForm(bytes.NewReader(template), bytes.NewReader(payload), &filled, templateConf()); err != nil {
		return nil, fmt.Errorf("filling form: %w", err)
	}

	var locked bytes.Buffer
	if err := api.LockFormFields(bytes.NewReader(filled.Bytes()), &locked, nil, templateConf()); err != nil {
		logger.Warn("failed to lock filled form, returning editable document", "error", err)
		return filled.Bytes(), nil
	}
	return locked.Bytes(), nil
}

// tryTemplateFill runs the whole template strategy: discover fields, match
// targets, fill. The returned fillOutcome tells the dispatcher whether to
// fall back.
func tryTemplateFill(rec normalize.Record, template []byte, logger *slog.Logger) ([]byte, fillOutcome) {
	fields, err := listTemplateFields(template)
	if err != nil {
		logger.Warn("template form not accessible", "error", err)
		return nil, loadFailed
	}

	fills := matchTargets(rec, fields)
	if len(fills) == 0 {
		logger.Debug("template has no usable fields for this record",
			"template_fields", len(fields))
		return nil, fallbackNeeded
	}

	out, err := fillTemplate(template, fills, logger)
	if err != nil {
		logger.Warn("template fill failed", "error", err)
		return nil, fallbackNeeded
	}

	logger.Debug("template filled", "fields_filled", len(fills))
	return out, filled
}
