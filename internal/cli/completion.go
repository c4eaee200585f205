package cli

import (
	"github.com/spf13/cobra"
)

// matrixExtensions are the score matrix formats offered when completing a
// matrix argument.
var matrixExtensions = []string{"json", "csv", "asc"}

// completeMatrixFile completes the single matrix argument of search and
// inspect with files the readers understand.
func completeMatrixFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return matrixExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sitefinder.

Besides commands and flags, the scripts complete the matrix argument of
"sitefinder search" and "sitefinder inspect" with .json, .csv and .asc
files only.

Bash:
  $ source <(sitefinder completion bash)

  # Every session, on Linux:
  $ sitefinder completion bash > /etc/bash_completion.d/sitefinder

Zsh (with compinit enabled):
  $ sitefinder completion zsh > "${fpath[1]}/_sitefinder"

Fish:
  $ sitefinder completion fish > ~/.config/fish/completions/sitefinder.fish

PowerShell:
  PS> sitefinder completion powershell | Out-String | Invoke-Expression

Start a new shell for the completions to take effect.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
