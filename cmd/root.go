package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/gymdesk_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/gymdesk_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gymdesk",
	Short: "Gymdesk back office: receipts, members, staff and sales commissions.",
	Long: `Gymdesk runs the back office of a single gym. Front desk staff record
receipts, renewals earn the selling staff member a bonus, and at month end
the top sellers are awarded and the month is approved for payout.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
