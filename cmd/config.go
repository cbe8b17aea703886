package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mj1618/botlite/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage botlite configuration",
	Long:  `View configuration files and manage the bot token stored in the system keychain.`,
	Example: `  # Show current configuration
  botlite config show

  # Store the bot token in the keychain
  botlite config set-token`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the merged configuration",
	Long: `Display the effective configuration after merging config files, .env,
environment variables and the keychain. The token is always redacted.`,
	Example: `  # Show effective configuration
  botlite config show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "# Effective configuration (merged from all sources)")
		fmt.Fprintln(out)
		fmt.Fprint(out, appConfig.ToTOML())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file locations",
	Long:  `Display the paths to the global config, project config and .env files.`,
	Example: `  # Show config file paths
  botlite config path`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		globalPath, err := config.GlobalConfigPath()
		if err != nil {
			globalPath = fmt.Sprintf("<error: %v>", err)
		}
		projectPath := config.ProjectConfigPath()
		if flagConfigPath != "" {
			projectPath = flagConfigPath
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration file locations:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Global:  %s (%s)\n", globalPath, existence(globalPath))
		fmt.Fprintf(out, "  Project: %s (%s)\n", projectPath, existence(projectPath))
		fmt.Fprintf(out, "  Dotenv:  %s (%s)\n", config.DotEnvPath(), existence(config.DotEnvPath()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Priority: --token flag > environment > .env > project config > global config > keychain")
		return nil
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the bot token in the system keychain",
	Long: `Store the bot token in the system keychain so it does not have to live
in a config file or the environment.

The token is read from the argument, or from standard input when no
argument is given. On a terminal you are prompted for it.`,
	Example: `  # Prompt for the token
  botlite config set-token

  # Pipe it in
  echo "$TOKEN" | botlite config set-token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			if f, ok := cmd.InOrStdin().(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
				fmt.Fprint(cmd.ErrOrStderr(), "Bot token: ")
			}
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = line
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("token is empty")
		}
		if err := config.SetToken(token); err != nil {
			return fmt.Errorf("failed to store token in keychain: %w", err)
		}
		statusFor(cmd).Infof("Token stored in keychain")
		return nil
	},
}

var configDeleteTokenCmd = &cobra.Command{
	Use:     "delete-token",
	Short:   "Remove the bot token from the system keychain",
	Example: `  botlite config delete-token`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DeleteToken(); err != nil {
			return err
		}
		statusFor(cmd).Infof("Token removed from keychain")
		return nil
	},
}

func existence(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "exists"
	}
	return "not found"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configDeleteTokenCmd)

	rootCmd.AddCommand(configCmd)
}
