package cmd

import (
	"fmt"

	"github.com/mj1618/botlite/internal/output"
	"github.com/mj1618/botlite/internal/telegram"
	"github.com/spf13/cobra"
)

var (
	updatesOffset  int64
	updatesLimit   int
	updatesTimeout int
	updatesPolls   int
)

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Poll the bot for new updates",
	Long: `Call getUpdates and print the returned updates.

Without --offset the poll starts one past the highest update id seen earlier
in the same run, so --polls 2 never prints an update twice. The server
treats updates below the offset as confirmed and drops them.`,
	Example: `  # Short poll once
  botlite updates --timeout 0

  # Long poll twice, printing JSON
  botlite updates --polls 2 -o json

  # Re-read from a specific update id
  botlite updates --offset 1234`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if updatesPolls < 1 {
			return fmt.Errorf("invalid --polls %d: must be at least 1", updatesPolls)
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		opts := appConfig.PollOptions()
		if cmd.Flags().Changed("limit") {
			opts.Limit = updatesLimit
		}
		if cmd.Flags().Changed("timeout") {
			opts.Timeout = updatesTimeout
		}
		if err := checkPollTimeout(opts.Timeout); err != nil {
			return err
		}

		status := statusFor(cmd)
		for i := 0; i < updatesPolls; i++ {
			pollOpts := opts
			// An explicit offset only applies to the first poll.
			if i == 0 && cmd.Flags().Changed("offset") {
				pollOpts.Offset = telegram.Offset(updatesOffset)
			}

			updates, err := client.GetUpdates(cmd.Context(), pollOpts)
			if err != nil {
				return err
			}
			if err := output.Render(cmd.OutOrStdout(), appConfig.Format, updates); err != nil {
				return err
			}
			status.Infof("received %d update(s), next offset %d", len(updates), client.NextOffset())
		}
		return nil
	},
}

func init() {
	updatesCmd.Flags().Int64Var(&updatesOffset, "offset", 0, "First update id to return (default: last seen + 1)")
	updatesCmd.Flags().IntVarP(&updatesLimit, "limit", "l", telegram.DefaultLimit, "Maximum number of updates per poll")
	updatesCmd.Flags().IntVarP(&updatesTimeout, "timeout", "t", telegram.DefaultTimeout, "Long-poll timeout in seconds (0 for short polling)")
	updatesCmd.Flags().IntVarP(&updatesPolls, "polls", "n", 1, "Number of consecutive polls")
}
