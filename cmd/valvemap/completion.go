package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for valvemap.

To load completions:

Bash:
  $ source <(valvemap completion bash)
  # To load permanently:
  $ valvemap completion bash > /etc/bash_completion.d/valvemap

Zsh:
  $ valvemap completion zsh > "${fpath[1]}/_valvemap"
  $ compinit

Fish:
  $ valvemap completion fish | source
  # To load permanently:
  $ valvemap completion fish > ~/.config/fish/completions/valvemap.fish

PowerShell:
  PS> valvemap completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
