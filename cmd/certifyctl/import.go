package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/db"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import certificates from a backup file",
	Long: `Import certificates from a JSON backup file.

Certificates whose code already exists in the registry are skipped, so
importing the same backup twice is safe.

Example:
  certifyctl import certificates-backup-2026-01-15.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := runImport(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d certificates, skipped %d existing\n", result.Imported, result.Skipped)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(path string) (*backup.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	importer := backup.NewImporter(gormstore.NewCertificatesStore(database))
	return importer.Import(f)
}
