package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/auth"
)

var printToken bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through Telegram and cache the session",
	Long: `Log in with the configured phone number. Telegram sends a confirmation
prompt to the account; once it is accepted the TonPlace token is stored in the
configured session backend.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached session for the configured phone number",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().BoolVar(&printToken, "print-token", false, "print the access token")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if cfg.Account.Phone == "" {
		return fmt.Errorf("account.phone must be set to log in")
	}

	acquirer, err := newAcquirer(cmd.Context())
	if err != nil {
		return err
	}

	req := tokenRequest()
	req.SaveSession = true

	tok, err := acquirer.GetToken(cmd.Context(), req)
	if err != nil {
		return err
	}

	if printToken {
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", auth.NormalizePhone(cfg.Account.Phone))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if cfg.Account.Phone == "" {
		return fmt.Errorf("account.phone must be set to log out")
	}

	acquirer, err := newAcquirer(cmd.Context())
	if err != nil {
		return err
	}

	if err := acquirer.Logout(cmd.Context(), cfg.Account.Phone); err != nil {
		return err
	}

	logger.Info().Str("phone", auth.NormalizePhone(cfg.Account.Phone)).Msg("Session removed")
	return nil
}
