package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/db"
	"github.com/alnpaa/certify/pkg/pagination"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List certificates in the registry",
	Long: `List certificates in the registry, newest first.

Output is paginated with the configured page size. Use --page to select a
page; requesting a page past the end returns the last page.

Example:
  certifyctl list
  certifyctl list --page 3`,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")

		if err := listCertificates(page); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list certificates: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("page", "P", 1, "Page number to display")
}

func listCertificates(page int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}

	certs := gormstore.NewCertificatesStore(database)
	pages := pagination.NewController(certs, cfg.PageSize)

	result, err := pages.GoToPage(page)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tPROGRAM\tISSUED")
	for _, cert := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cert.Code, cert.Name, cert.Program, cert.CreatedAt.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nPage %d of %d (%d certificates)\n", result.Number, result.TotalPages, result.TotalCount)
	return nil
}
