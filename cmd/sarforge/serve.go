package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincomply/sarforge/internal/fincen"
	"github.com/fincomply/sarforge/internal/pdfgen"
	"github.com/fincomply/sarforge/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SAR record web server",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8085)")
	cmd.Flags().String("template", "", "path to a fillable PDF template")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("pdf.template", cmd.Flags().Lookup("template"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	store, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	srv := server.NewServer(server.Options{
		Store:    store,
		XMLGen:   fincen.NewBuilder(),
		PDFGen:   pdfgen.NewGenerator(logger),
		Logger:   logger,
		Template: loadTemplate(cfg, logger),
		Debug:    cfg.Debug,
	})

	return srv.Run(cfg.ListenAddr)
}
