package cmd

import (
	"github.com/mj1618/botlite/internal/config"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for botlite.

To load completions:

Bash:
  $ source <(botlite completion bash)

Zsh:
  $ botlite completion zsh > "${fpath[1]}/_botlite"

Fish:
  $ botlite completion fish | source

PowerShell:
  PS> botlite completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

// completeFormat offers the accepted --format values.
func completeFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return config.ValidFormats(), cobra.ShellCompDirectiveNoFileComp
}

// completeChat offers the configured default chat, if any.
func completeChat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: flagConfigPath, SkipKeychain: true})
	if err != nil || cfg.ChatID == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{cfg.ChatID}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
