package cmd

import (
	"fmt"

	"github.com/mj1618/botlite/internal/output"
	"github.com/mj1618/botlite/internal/telegram"
	"github.com/spf13/cobra"
)

var (
	demoChat string
	demoText string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Send a test message and poll twice",
	Long: `Run a short end-to-end check against the Bot API: send a message to
the configured chat, then short-poll twice. The second poll starts after the
first one's highest update id, so it only shows updates that arrived in
between.`,
	Example: `  botlite demo --chat 123456`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, err := resolveChat(demoChat)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		status := statusFor(cmd)
		out := cmd.OutOrStdout()

		msg, err := client.SendMessage(ctx, chat, demoText)
		if err != nil {
			return err
		}
		if err := output.Render(out, appConfig.Format, msg); err != nil {
			return err
		}

		opts := telegram.GetUpdatesOptions{Limit: appConfig.Poll.Limit, Timeout: 0}
		for i := 1; i <= 2; i++ {
			updates, err := client.GetUpdates(ctx, opts)
			if err != nil {
				return fmt.Errorf("poll %d: %w", i, err)
			}
			status.Infof("poll %d: %d update(s), next offset %d", i, len(updates), client.NextOffset())
			if err := output.Render(out, appConfig.Format, updates); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoChat, "chat", "c", "", "Target chat id or @username")
	demoCmd.RegisterFlagCompletionFunc("chat", completeChat)
	demoCmd.Flags().StringVar(&demoText, "text", "test", "Text of the test message")
}
