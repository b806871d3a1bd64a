package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"onionpay-api/internal/config"
	"onionpay-api/internal/logger"
)

var (
	env     string
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "onionpay",
		Short: "OnionPay - manual-verification UPI payment gateway",
		Long: `OnionPay creates UPI checkout sessions for merchants, collects payer UTR references
and lets an administrator approve or reject each payment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(env); err != nil {
				return err
			}
			logger.Setup(config.C.Log.Dir, config.C.Log.Level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&env, "env", "dev", "config environment (config/config.<env>.yaml)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(apikeyCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
