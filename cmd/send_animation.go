package cmd

import (
	"github.com/mj1618/botlite/internal/output"
	"github.com/spf13/cobra"
)

var (
	sendAnimationChat    string
	sendAnimationCaption string
)

var sendAnimationCmd = &cobra.Command{
	Use:   "send-animation [flags] <url-or-file-id>",
	Short: "Send a GIF or silent video",
	Long: `Send an animation with sendAnimation.

The argument is either an HTTP URL that Telegram downloads itself, or the
file_id of an animation that already exists on Telegram's servers. Local
file uploads are not supported.`,
	Example: `  # Send a GIF by URL
  botlite send-animation https://example.com/cat.gif

  # Resend a previously received animation with a caption
  botlite send-animation --caption "again" CgACAgQAAxkBAAIB`,
	Aliases: []string{"gif"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, err := resolveChat(sendAnimationChat)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		msg, err := client.SendAnimation(cmd.Context(), chat, args[0], sendAnimationCaption)
		if err != nil {
			return err
		}
		return output.Render(cmd.OutOrStdout(), appConfig.Format, msg)
	},
}

func init() {
	sendAnimationCmd.Flags().StringVarP(&sendAnimationChat, "chat", "c", "", "Target chat id or @username")
	sendAnimationCmd.RegisterFlagCompletionFunc("chat", completeChat)
	sendAnimationCmd.Flags().StringVar(&sendAnimationCaption, "caption", "", "Caption shown under the animation")
}
