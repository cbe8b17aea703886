package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/botlite/internal/config"
	"github.com/mj1618/botlite/internal/output"
	"github.com/mj1618/botlite/internal/telegram"
	"github.com/spf13/cobra"
)

// appConfig holds the loaded configuration (files, environment and flags merged)
var appConfig *config.Config

var (
	flagToken      string
	flagConfigPath string
	flagFormat     string
)

var rootCmd = &cobra.Command{
	Use:   "botlite",
	Short: "botlite - minimal Telegram Bot API client",
	Long: `botlite polls a Telegram bot for updates and sends text messages and
animations through the Bot API.

Each poll starts one past the highest update id seen so far in the process,
so consecutive polls never return the same update twice.

The bot token is taken from --token, TELEGRAM_BOT_TOKEN (or TOKEN), a .env
file, the config files, or the system keychain, in that order.`,
	Example: `  # Fetch pending updates once
  botlite updates --timeout 0

  # Send a message to the default chat
  botlite send "hello"

  # Send a GIF with a caption
  botlite send-animation --chat 123456 --caption "nice" https://example.com/cat.gif

  # Print incoming messages until Ctrl+C
  botlite listen`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version and completion never need configuration
		if cmd.Name() == "version" || cmd.Name() == "help" || isCompletionCmd(cmd) {
			return nil
		}

		cfg, err := config.Load(config.LoadOptions{ConfigPath: flagConfigPath})
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagToken != "" {
			cfg.Token = flagToken
			cfg.TokenSource = "flag"
		}
		if flagFormat != "" {
			cfg.Format = strings.ToLower(flagFormat)
		}
		appConfig = cfg
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bot token (overrides environment, config and keychain)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file to use instead of ./.botlite.toml")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "o", "", "Output format: text, json or yaml")
	rootCmd.RegisterFlagCompletionFunc("format", completeFormat)

	rootCmd.AddCommand(updatesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(sendAnimationCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

func isCompletionCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" || c.Name() == cobra.ShellCompRequestCmd {
			return true
		}
	}
	return false
}

// newClient validates the loaded configuration and builds an API client.
func newClient() (*telegram.Client, error) {
	if err := appConfig.Validate(); err != nil {
		return nil, err
	}
	return telegram.NewClientWithConfig(appConfig.ClientConfig()), nil
}

// checkPollTimeout rejects a long-poll timeout that the HTTP client would cut
// short. Flag overrides bypass Config.Validate, so commands call this with
// the effective value.
func checkPollTimeout(timeout int) error {
	d, err := appConfig.RequestTimeoutDuration()
	if err != nil {
		return err
	}
	if time.Duration(timeout)*time.Second >= d {
		return fmt.Errorf("timeout %ds must be shorter than request_timeout %s", timeout, d)
	}
	return nil
}

// resolveChat picks the chat from the --chat flag or the configured default.
func resolveChat(flagValue string) (telegram.ChatID, error) {
	raw := flagValue
	if raw == "" {
		raw = appConfig.ChatID
	}
	if raw == "" {
		return telegram.ChatID{}, fmt.Errorf("chat required: use --chat, set %s, or chat_id in the config", config.EnvChat)
	}
	return telegram.ParseChatID(raw)
}

// statusFor returns a status writer on the command's stderr.
func statusFor(cmd *cobra.Command) *output.Status {
	return output.NewStatus(cmd.ErrOrStderr(), "botlite")
}
