package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/tonplace"
)

var assumeYes bool

var dialogsCmd = &cobra.Command{
	Use:   "dialogs",
	Short: "List conversations",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetDialogs(ctx)
	}),
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "List notifications",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetNotify(ctx)
	}),
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List groups owned by the account",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetOwnedGroups(ctx)
	}),
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.GetBalance(ctx)
	}),
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <address> <amount>",
	Short: "Send TON from the wallet to an external address",
	Long: `Send TON from the TonPlace wallet to an external address.

The request is not idempotent: when a retry policy is configured, a transfer
that timed out on the client may be sent again.`,
	Args: cobra.ExactArgs(2),
	RunE: runWithdraw,
}

func init() {
	rootCmd.AddCommand(dialogsCmd, notifyCmd, groupsCmd, balanceCmd, withdrawCmd)

	dialogsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	notifyCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	withdrawCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	address := strings.TrimSpace(args[0])
	if address == "" {
		return fmt.Errorf("address is required")
	}

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid amount %q", args[1])
	}

	if !assumeYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Send %s TON to %s? [y/N]: ", args[1], address)
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Msg("Withdrawal cancelled")
			return nil
		}
	}

	return runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		return api.SendTON(ctx, address, amount)
	})(cmd, args)
}
