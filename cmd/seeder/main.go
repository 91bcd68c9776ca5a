// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ammerola/voucher-ledger/internal/adapters/memstore"
	"github.com/ammerola/voucher-ledger/internal/app"
	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
	"github.com/ammerola/voucher-ledger/internal/core/services"
	"github.com/ammerola/voucher-ledger/internal/importer"
	"github.com/ammerola/voucher-ledger/internal/pkg/config"
	"github.com/ammerola/voucher-ledger/internal/pkg/logger"
)

// seederState tracks which files were already imported so reruns skip them.
type seederState struct {
	ProcessedFiles []string  `json:"processed_files"`
	LastUpdate     time.Time `json:"last_update"`
}

func main() {
	var (
		dir       = flag.String("dir", "./seed", "Directory containing .xlsx and .pdf stock files")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview the import without writing to the store")
		force     = flag.Bool("force", false, "Reimport every file")
	)
	flag.Parse()

	slogger := logger.SetupLogger(logger.LogConfig{Level: *logLevel, Format: "json", Output: "stdout"})
	log := slogger.Logger

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	sm, err := config.NewSecretsManager(ctx, cfg, log)
	if err == nil {
		err = config.ApplySecrets(ctx, cfg, sm)
	}
	if err != nil {
		log.Error("failed to resolve secrets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	backend, err := app.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	store := backend.Store
	if *dryRun {
		// Work on a private copy so nothing reaches the real store.
		if store, err = copyToMemory(ctx, backend.Store); err != nil {
			log.Error("failed to copy ledger", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	svc := services.NewInventoryService(store, log)
	if err := svc.Load(ctx); err != nil {
		log.Error("failed to load ledger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var state seederState
	if !*force {
		if data, err := os.ReadFile(*stateFile); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				log.Warn("ignoring unreadable state file", slog.String("error", err.Error()))
			}
		}
	}

	files, err := stockFiles(*dir)
	if err != nil {
		log.Error("failed to list stock files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	readers := map[string]struct {
		source domain.ImportSource
		reader ports.RowReader
	}{
		".xlsx": {domain.ImportSourceExcel, importer.NewXLSXReader(log)},
		".pdf":  {domain.ImportSourcePDF, importer.NewPDFReader(log)},
	}

	var (
		totalApplied int
		totalErrors  int
		failed       []string
		succeeded    = map[string]*domain.ImportResult{}
	)

	for i, path := range files {
		name := filepath.Base(path)
		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(files), name)

		if slices.Contains(state.ProcessedFiles, name) {
			log.Info("skipping already imported file", slog.String("file", name))
			continue
		}

		r := readers[strings.ToLower(filepath.Ext(path))]
		data, err := os.ReadFile(path)
		if err != nil {
			failed = append(failed, name)
			fmt.Printf("ERROR: Failed to read %s - %v\n", name, err)
			continue
		}

		rows, err := r.reader.ReadRows(ctx, data)
		if err != nil {
			failed = append(failed, name)
			fmt.Printf("ERROR: Failed to parse %s - %v\n", name, err)
			continue
		}

		result, err := svc.ImportRows(ctx, r.source, rows)
		if err != nil {
			failed = append(failed, name)
			fmt.Printf("ERROR: Nothing imported from %s - %v\n", name, err)
			if result != nil {
				totalErrors += len(result.Errors)
			}
			continue
		}

		fmt.Printf("SUCCESS: %s - %d applied, %d rejected\n", name, result.Applied, len(result.Errors))
		succeeded[name] = result
		totalApplied += result.Applied
		totalErrors += len(result.Errors)

		state.ProcessedFiles = append(state.ProcessedFiles, name)
		state.LastUpdate = time.Now()
	}

	if !*dryRun {
		if err := svc.Persist(ctx); err != nil {
			log.Error("failed to persist ledger", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if data, err := json.MarshalIndent(state, "", "  "); err == nil {
			if err := os.WriteFile(*stateFile, data, 0o644); err != nil {
				log.Warn("failed to write state file", slog.String("error", err.Error()))
			}
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Files imported: %d\n", len(succeeded))
	fmt.Printf("Rows applied:   %d\n", totalApplied)
	fmt.Printf("Rows rejected:  %d\n", totalErrors)

	for name, result := range succeeded {
		fmt.Printf("  - %s: %d created, %d updated\n", name, result.Created, result.Updated)
		for _, p := range result.CreatedProviders {
			fmt.Printf("      new provider %d (%s)\n", p.ID, p.Name)
		}
	}
	if len(failed) > 0 {
		fmt.Printf("\nFailed files (%d):\n", len(failed))
		for _, name := range failed {
			fmt.Printf("  - %s\n", name)
		}
	}

	log.Info("seed operation completed",
		slog.Int("files_imported", len(succeeded)),
		slog.Int("rows_applied", totalApplied),
		slog.Int("failed_files", len(failed)))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were written to the store")
	}
}

// stockFiles lists the importable files of dir in name order.
func stockFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".pdf":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func copyToMemory(ctx context.Context, src ports.Store) (*memstore.Store, error) {
	dst := memstore.New()
	for _, key := range ports.StoreKeys() {
		var raw json.RawMessage
		found, err := src.Load(ctx, key, &raw)
		if err != nil {
			return nil, err
		}
		if found {
			dst.Put(key, raw)
		}
	}
	return dst, nil
}
