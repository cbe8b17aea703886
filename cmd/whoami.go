package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mj1618/botlite/internal/config"
	"github.com/mj1618/botlite/internal/output"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the bot behind the token",
	Long: `Call getMe and print the bot's identity. This is the quickest way to
check that a token is valid.`,
	Example: `  botlite whoami
  botlite whoami -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		me, err := client.GetMe(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to validate bot token: %w", err)
		}

		if appConfig.Format != config.FormatText {
			return output.Render(cmd.OutOrStdout(), appConfig.Format, me)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", headerStyle.Render("@"+me.Username))
		fmt.Fprintf(&b, "Name:   %s\n", strings.TrimSpace(me.FirstName+" "+me.LastName))
		fmt.Fprintf(&b, "ID:     %d\n", me.ID)
		fmt.Fprintf(&b, "Token:  %s (%s)", appConfig.RedactedToken(), appConfig.TokenSource)
		fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(b.String()))
		return nil
	},
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)
