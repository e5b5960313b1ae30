package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// knownFrameworks are the target framework monikers offered for --framework.
var knownFrameworks = []string{
	"net8.0", "net7.0", "net6.0", "net5.0",
	"netstandard2.1", "netstandard2.0", "netstandard1.3",
	"netcoreapp3.1", "net48", "net472", "net462", "net45",
	"any",
}

// registerConvertCompletions adds value completions to the conversion flags.
func registerConvertCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("framework", completeFrameworks)
	_ = cmd.MarkFlagFilename("rules", "toml")
	if cmd.Flags().Lookup("graph") != nil {
		_ = cmd.MarkFlagFilename("graph", "dot", "gv", "svg")
	}
}

// completeFrameworks completes the last entry of a comma separated
// framework list.
func completeFrameworks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	head, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		head, last = toComplete[:i+1], toComplete[i+1:]
	}
	var out []string
	for _, f := range knownFrameworks {
		if strings.HasPrefix(f, strings.ToLower(last)) {
			out = append(out, head+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for nugetnpm.

To load completions:

Bash:
  $ source <(nugetnpm completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ nugetnpm completion bash > /etc/bash_completion.d/nugetnpm
  # macOS:
  $ nugetnpm completion bash > $(brew --prefix)/etc/bash_completion.d/nugetnpm

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ nugetnpm completion zsh > "${fpath[1]}/_nugetnpm"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ nugetnpm completion fish | source

  # To load completions for each session, execute once:
  $ nugetnpm completion fish > ~/.config/fish/completions/nugetnpm.fish

PowerShell:
  PS> nugetnpm completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> nugetnpm completion powershell > nugetnpm.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
