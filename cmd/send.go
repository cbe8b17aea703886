package cmd

import (
	"fmt"
	"strings"

	"github.com/mj1618/botlite/internal/output"
	"github.com/spf13/cobra"
)

var sendChat string

var sendCmd = &cobra.Command{
	Use:   "send [flags] <text...>",
	Short: "Send a text message",
	Long: `Send a text message to a chat with sendMessage.

The arguments are joined with single spaces. The chat comes from --chat,
TELEGRAM_CHAT_ID (or CHAT_ID), or chat_id in the config file. A chat may be
a numeric id or a public @username.`,
	Example: `  # Send to the default chat
  botlite send hello world

  # Send to a channel by username
  botlite send --chat @mychannel "release is out"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, err := resolveChat(sendChat)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("message text is empty")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		msg, err := client.SendMessage(cmd.Context(), chat, text)
		if err != nil {
			return err
		}
		return output.Render(cmd.OutOrStdout(), appConfig.Format, msg)
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendChat, "chat", "c", "", "Target chat id or @username")
	sendCmd.RegisterFlagCompletionFunc("chat", completeChat)
}
