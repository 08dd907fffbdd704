package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/alnpaa/certify/pkg/backup"
	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/db"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and import backup files dropped into it",
	Long: `Watch a directory and import any backup file dropped into it.

Files ending in .json are imported as they appear. Import is idempotent,
so re-delivering a backup file is safe. This is intended for restore
pipelines that deposit backup documents into a drop directory.

Example:
  certifyctl watch /run/certify/restore`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchImportDir(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch directory: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchImportDir(dir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for backup files\n", dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				fmt.Printf("[%s] Importing %s...\n", time.Now().Format(time.RFC3339), filepath.Base(event.Name))

				if result, err := importBackupFile(database, event.Name); err != nil {
					fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", filepath.Base(event.Name), err)
				} else {
					fmt.Printf("Imported %d certificates, skipped %d existing\n", result.Imported, result.Skipped)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func importBackupFile(database *gorm.DB, path string) (*backup.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() { _ = f.Close() }()

	importer := backup.NewImporter(gormstore.NewCertificatesStore(database))
	return importer.Import(f)
}
