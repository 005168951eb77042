package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/fincen"
	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/normalize"
	"github.com/fincomply/sarforge/internal/pdfgen"
	"github.com/fincomply/sarforge/internal/service"
)

// exportPageSize is how many records are pulled per store query in bulk
// mode.
const exportPageSize = 100

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [record-id]",
		Short: "Export a record's PDF and Form 8300 XML to disk",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	}

	cmd.Flags().Bool("all", false, "export every record in the store")
	cmd.Flags().String("out", "", "output directory (default current directory)")
	cmd.Flags().String("template", "", "path to a fillable PDF template")
	_ = viper.BindPFlag("export.dir", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("pdf.template", cmd.Flags().Lookup("template"))

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("either a record id or --all is required")
	}

	store, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	if err := os.MkdirAll(cfg.ExportDir, 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	exporter := &exporter{
		xmlGen:   fincen.NewBuilder(),
		pdfGen:   pdfgen.NewGenerator(logger),
		template: loadTemplate(cfg, logger),
		outDir:   cfg.ExportDir,
	}

	if !all {
		rec, err := store.GetRecord(ctx, args[0])
		if err != nil {
			return err
		}
		if err := exporter.export(rec); err != nil {
			return err
		}
		fmt.Printf("Exported record %s to %s\n", rec.ID, cfg.ExportDir)
		return nil
	}

	total, err := store.CountRecords(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("No records to export")
		return nil
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Exporting records..."),
	)

	exported := 0
	for offset := 0; offset < total; offset += exportPageSize {
		page, err := store.SearchRecords(ctx, service.RecordFilter{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return err
		}
		for i := range page.Records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := exporter.export(&page.Records[i]); err != nil {
				common.LogError(err, "failed to export record", common.Fields{"record_id": page.Records[i].ID})
				continue
			}
			exported++
			_ = bar.Add(1)
		}
	}
	fmt.Fprintln(os.Stderr)
	fmt.Printf("Exported %d of %d records to %s\n", exported, total, cfg.ExportDir)

	return nil
}

type exporter struct {
	xmlGen   service.XMLGenerator
	pdfGen   service.PDFGenerator
	template []byte
	outDir   string
}

// export writes both document formats for one record.
func (e *exporter) export(rec *model.SARRecord) error {
	now := time.Now()
	norm := normalize.Normalize(rec, now)
	stamp := now.Format("20060102")

	xmlOut, err := e.xmlGen.Build(norm, rec.ID)
	if err != nil {
		return err
	}
	xmlPath := filepath.Join(e.outDir, fmt.Sprintf("fincen8300_%s_%s.xml", rec.ID, stamp))
	if err := os.WriteFile(xmlPath, xmlOut, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", xmlPath, err)
	}

	pdfOut, err := e.pdfGen.Generate(norm, rec.ID, e.template)
	if err != nil {
		return err
	}
	pdfPath := filepath.Join(e.outDir, fmt.Sprintf("sar_%s_%s.pdf", rec.ID, stamp))
	if err := os.WriteFile(pdfPath, pdfOut, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", pdfPath, err)
	}

	return nil
}
