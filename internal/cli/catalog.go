package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"globetrotter/internal/config"
	"globetrotter/internal/domain"
	"globetrotter/internal/metrics"
)

// NewValidateCmd checks a destination dataset without touching any store.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a JSON destination dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destinations, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			report := domain.ValidateCatalog(destinations)
			printReport(cmd.OutOrStdout(), report)
			if !report.Valid() {
				return fmt.Errorf("%d validation errors", len(report.Errors))
			}
			return nil
		},
	}
}

// NewImportCmd loads a destination dataset into the configured store.
func NewImportCmd(configPath *string) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON destination dataset into mongo or postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destinations, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			report := domain.ValidateCatalog(destinations)
			printReport(cmd.OutOrStdout(), report)
			if !report.Valid() {
				return fmt.Errorf("refusing to import: %d validation errors", len(report.Errors))
			}
			if failed := checkRecords(cmd.OutOrStdout(), destinations); failed > 0 {
				return fmt.Errorf("refusing to import: %d destinations fail record checks", failed)
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			if cfg.Postgres.URL != "" {
				if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
					return err
				}
			}
			b, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()
			if b.destinationDriver == config.StoreMemory {
				return errors.New("import needs a persistent destination store: set store.driver=mongo or postgres.url")
			}

			prepareForImport(destinations, time.Now().UTC())

			start := time.Now()
			n, err := b.destinations.ImportDestinations(ctx, destinations, replace)
			metrics.RecordStoreOperation("import_destinations", b.destinationDriver, start)
			if err != nil {
				return err
			}
			if inv, ok := b.catalog.(interface{ Invalidate(ctx context.Context) error }); ok {
				if err := inv.Invalidate(ctx); err != nil {
					logger.Warn("invalidating destination cache", "error", err)
				}
			}
			logger.Info("destinations imported", "count", n, "store", b.destinationDriver, "replace", replace)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing destinations before importing")
	return cmd
}

func readCatalog(path string) ([]domain.Destination, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var destinations []domain.Destination
	if err := json.Unmarshal(data, &destinations); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return destinations, nil
}

// prepareForImport assigns ids and timestamps to destinations that lack them.
func prepareForImport(destinations []domain.Destination, now time.Time) {
	for i := range destinations {
		if destinations[i].ID == "" {
			destinations[i].ID = uuid.NewString()
		}
		if destinations[i].DateAdded.IsZero() {
			destinations[i].DateAdded = now
		}
	}
}

func printReport(w io.Writer, r domain.CatalogReport) {
	fmt.Fprintf(w, "destinations: %d\n", r.Total)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	fmt.Fprintf(w, "errors: %d, warnings: %d, duplicates: %d\n", len(r.Errors), len(r.Warnings), r.Duplicates)
}

// checkRecords runs the per-record destination rules over every record and
// prints each failure. It returns the number of failing records.
func checkRecords(w io.Writer, destinations []domain.Destination) int {
	failed := 0
	for i, d := range destinations {
		if err := domain.ValidateDestination(d); err != nil {
			failed++
			fmt.Fprintf(w, "rejected: #%d %s: %v\n", i, d.City, err)
		}
	}
	return failed
}
