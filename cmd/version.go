package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/botlite/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version number, commit hash, build date, and runtime information for botlite.`,
	Example: `  # Show full version information
  botlite version

  # Show only version number
  botlite version --short

  # Output as JSON
  botlite version --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()
		out := cmd.OutOrStdout()

		if versionShort {
			fmt.Fprintln(out, info.Version)
			return nil
		}

		if strings.EqualFold(flagFormat, "json") {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print only the version number")
}
