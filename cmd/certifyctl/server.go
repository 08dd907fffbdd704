package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/config"
	"github.com/alnpaa/certify/pkg/db"
	"github.com/alnpaa/certify/pkg/logging"
	"github.com/alnpaa/certify/pkg/server"
	"github.com/alnpaa/certify/pkg/server/endpoints"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Certify application server",
	Long: `Run the Certify application server.

Requires DATABASE_URL and CERTIFY_SESSION_SECRET.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}

		// Flags override config
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Fail fast on missing secrets
		if cfg.DatabaseURL == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}
		if cfg.SessionSecret == "" {
			fmt.Fprintln(os.Stderr, "CERTIFY_SESSION_SECRET environment variable is required")
			os.Exit(1)
		}

		logging.Init(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		log := logging.WithComponent("server")

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Info("Running database migrations...")
			if err := runMigrations(); err != nil {
				log.WithError(err).Error("Migration failed")
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.WithError(err).Error("Unable to connect to database")
			os.Exit(1)
		}

		s := server.NewServer(
			cfg,
			database,
			gormstore.NewCertificatesStore(database),
			gormstore.NewAdminsStore(database),
			gormstore.NewHealthStore(database),
		)
		endpoints.RegisterAll(s)

		log.Infof("Running server at http://%s...", cfg.ListenAddress())
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 8080, "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
