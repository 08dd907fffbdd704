package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "certifyctl",
	Short: "Certify certificate registry server and admin tool",
	Long: `certifyctl runs and administers the Certify certificate registry.

It starts the HTTP server, manages the database schema, creates admin
users, and imports or exports registry backups.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
