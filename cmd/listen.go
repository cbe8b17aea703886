package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/botlite/internal/output"
	"github.com/mj1618/botlite/internal/telegram"
	"github.com/spf13/cobra"
)

var (
	listenChats      []int64
	listenLabelWidth int
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print incoming messages until interrupted",
	Long: `Long-poll the bot and print every incoming message, one line per
message, prefixed with a colored chat label.

Each poll continues from the last seen update id, so every update is printed
once. Poll failures stop the command; there is no retry. poll.timeout must
be at least 1 so the loop long-polls. Press Ctrl+C to stop.`,
	Example: `  # Print everything
  botlite listen

  # Only messages from two chats
  botlite listen --chat-filter 123456 --chat-filter -100987654`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		opts := appConfig.PollOptions()
		if opts.Timeout < 1 {
			return fmt.Errorf("listen needs a long-poll timeout of at least 1s (poll.timeout is %d)", opts.Timeout)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		status := statusFor(cmd)
		bot, err := client.GetMe(ctx)
		if err != nil {
			return err
		}
		status.Infof("Bot @%s listening (timeout %ds, limit %d)", bot.Username, appConfig.Poll.Timeout, appConfig.Poll.Limit)

		writers := output.NewChatWriters(cmd.OutOrStdout(), listenLabelWidth)
		defer writers.FlushAll()

		listener, err := telegram.NewListener(telegram.ListenerConfig{
			Poller:       client,
			Limit:        opts.Limit,
			Timeout:      opts.Timeout,
			AllowedChats: listenChats,
			Handler: func(ctx context.Context, u telegram.Update) error {
				if msg := u.EffectiveMessage(); msg != nil {
					writers.WriteMessage(msg)
				}
				return nil
			},
		})
		if err != nil {
			return err
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		errChan := make(chan error, 1)
		go func() {
			errChan <- listener.Run(ctx)
		}()

		select {
		case sig := <-sigChan:
			status.Infof("Received %v, shutting down (next offset %d)", sig, client.NextOffset())
			cancel()
			return <-errChan
		case err := <-errChan:
			return err
		}
	},
}

func init() {
	listenCmd.Flags().Int64SliceVar(&listenChats, "chat-filter", nil, "Only print messages from these chat ids (repeatable)")
	listenCmd.Flags().IntVar(&listenLabelWidth, "label-width", 0, "Pad or truncate chat labels to this width (0 to disable)")
}
