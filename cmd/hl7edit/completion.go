package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for hl7edit.

To load completions:

Bash:
  $ source <(hl7edit completion bash)
  # To load permanently:
  $ hl7edit completion bash > /etc/bash_completion.d/hl7edit

Zsh:
  $ hl7edit completion zsh > "${fpath[1]}/_hl7edit"
  $ compinit

Fish:
  $ hl7edit completion fish | source
  # To load permanently:
  $ hl7edit completion fish > ~/.config/fish/completions/hl7edit.fish

PowerShell:
  PS> hl7edit completion powershell | Out-String | Invoke-Expression
  # To load permanently, add to your PowerShell profile
`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
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
				return rootCmd.GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
