package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/db"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// adminCreateCmd represents the admin create command
var adminCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create an administrator account",
	Long: `Create an administrator account.

The password is taken from the --password flag, the CERTIFY_ADMIN_PASSWORD
environment variable, or read from stdin when neither is set. Passwords must
be at least 8 characters long and are stored as bcrypt hashes.

Example:
  certifyctl admin create ops@example.org
  CERTIFY_ADMIN_PASSWORD=secret certifyctl admin create ops@example.org`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")

		if err := createAdmin(email, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create admin %s: %v\n", email, err)
			os.Exit(1)
		}
		fmt.Printf("Created admin '%s'\n", email)
	},
}

func init() {
	adminCmd.AddCommand(adminCreateCmd)
	adminCreateCmd.Flags().StringP("password", "p", "", "Password for the new admin (prefer CERTIFY_ADMIN_PASSWORD or stdin)")
}

// resolvePassword picks the password from flag, environment, or stdin.
func resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envValue, ok := os.LookupEnv("CERTIFY_ADMIN_PASSWORD"); ok && envValue != "" {
		return envValue, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func createAdmin(email, password string) error {
	password, err := resolvePassword(password)
	if err != nil {
		return err
	}

	hash, err := authn.HashPassword(password)
	if err != nil {
		return err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	admins := gormstore.NewAdminsStore(database)
	return admins.UpsertAdmin(email, hash)
}
