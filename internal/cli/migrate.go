package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"onionpay-api/internal/dal"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dal.InitDB(); err != nil {
			return err
		}
		if err := dal.AutoMigrate(dal.DB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
		return nil
	},
}
