package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/service"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Import SAR records from a JSON file into the store",
		Long: `Reads a JSON array of records and saves each one. Every element is an
object of field name to value; an optional "id" key fixes the record id,
otherwise one is assigned.`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return common.NewUserError("seed file must be a JSON array of objects", err)
	}

	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	saved := 0
	for i, fields := range raw {
		rec := &model.SARRecord{Fields: fields}
		if id, ok := fields["id"].(string); ok {
			rec.ID = id
			delete(fields, "id")
		}

		// SQLite can report busy under WAL when another process holds
		// the database; retry briefly instead of aborting the import.
		err := common.WithRetry(ctx, func() error {
			return store.SaveRecord(ctx, rec)
		}, service.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return fmt.Errorf("failed to save record %d: %w", i, err)
		}
		saved++
	}

	fmt.Printf("Imported %d records\n", saved)
	return nil
}
