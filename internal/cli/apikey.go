package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"onionpay-api/internal/config"
	"onionpay-api/internal/dal"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/service"
)

var (
	keyOwner string
	keyName  string
	keyType  string
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage merchant API keys",
}

var apikeyIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a new API key and print it once",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := service.ParseTier(keyType)
		if err != nil {
			return err
		}
		if err := dal.InitDB(); err != nil {
			return err
		}
		svc := service.NewApiKeyService(dao.NewApiKeyDao(dal.DB), config.C.Security.BcryptCost)
		plain, rec, err := svc.Issue(cmd.Context(), keyOwner, keyName, tier)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:   %d\n", rec.ID)
		fmt.Fprintf(out, "type: %s\n", tier)
		fmt.Fprintf(out, "key:  %s\n", plain)
		fmt.Fprintln(out, "Store this key now, it will not be shown again.")
		return nil
	},
}

func init() {
	apikeyIssueCmd.Flags().StringVar(&keyOwner, "owner", "", "owner user id")
	apikeyIssueCmd.Flags().StringVar(&keyName, "name", "", "key label")
	apikeyIssueCmd.Flags().StringVar(&keyType, "type", "secret", "publishable or secret")
	_ = apikeyIssueCmd.MarkFlagRequired("owner")
	apikeyCmd.AddCommand(apikeyIssueCmd)
}
