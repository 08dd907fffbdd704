package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/db"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the certificate registry as a backup file",
	Long: `Export every certificate in the registry to a JSON backup file.

The backup is written to the output directory with a timestamped filename.
The file can be restored on this or another instance with 'certifyctl import'.

Example:
  certifyctl export
  certifyctl export --out-dir /backup`,
	Run: func(cmd *cobra.Command, args []string) {
		outDir, _ := cmd.Flags().GetString("out-dir")

		path, count, err := runExport(outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d certificates to %s\n", count, path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out-dir", "o", ".", "Directory to write the backup file to")
}

func runExport(outDir string) (string, int, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", 0, err
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return "", 0, err
	}

	certs := gormstore.NewCertificatesStore(database)
	exporter := backup.NewExporter(certs, backup.NewState(cfg.StateDir))

	path := filepath.Join(outDir, backup.Filename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	count, err := exporter.Export(f)
	if err != nil {
		return "", 0, err
	}

	return path, count, nil
}
