package main

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for m.

To load completions:

Bash:
  $ source <(m completion bash)
  # To load completions for each session, execute once:
  $ m completion bash > /etc/bash_completion.d/m

Zsh:
  $ source <(m completion zsh)
  # To load completions for each session, execute once:
  $ m completion zsh > "${fpath[1]}/_m"

Fish:
  $ m completion fish | source
  # To load completions for each session, execute once:
  $ m completion fish > ~/.config/fish/completions/m.fish

PowerShell:
  PS> m completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
