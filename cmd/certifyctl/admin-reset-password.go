package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnpaa/certify/pkg/authn"
	"github.com/alnpaa/certify/pkg/db"
	gormstore "github.com/alnpaa/certify/pkg/server/store/gorm"
)

// adminResetPasswordCmd represents the admin reset-password command
var adminResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset an administrator's password",
	Long: `Reset the password for an existing administrator account.

The new password is taken from the --password flag, the CERTIFY_ADMIN_PASSWORD
environment variable, or read from stdin when neither is set.

Example:
  certifyctl admin reset-password ops@example.org`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")

		if err := resetAdminPassword(email, password); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", email, err)
			os.Exit(1)
		}
		fmt.Printf("Password updated for admin '%s'\n", email)
	},
}

func init() {
	adminCmd.AddCommand(adminResetPasswordCmd)
	adminResetPasswordCmd.Flags().StringP("password", "p", "", "New password (prefer CERTIFY_ADMIN_PASSWORD or stdin)")
}

func resetAdminPassword(email, password string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	admins := gormstore.NewAdminsStore(database)
	if _, err := admins.FetchAdmin(email); err != nil {
		return fmt.Errorf("admin not found: %s", email)
	}

	password, err = resolvePassword(password)
	if err != nil {
		return err
	}

	hash, err := authn.HashPassword(password)
	if err != nil {
		return err
	}

	return admins.UpsertAdmin(email, hash)
}
