package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildCompletionCommand creates the completion command for shell completions.
func buildCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for termsel.

To load completions:

Bash:
  $ source <(termsel completion bash)

Zsh:
  $ termsel completion zsh > "${fpath[1]}/_termsel"

Fish:
  $ termsel completion fish | source

PowerShell:
  PS> termsel completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}

	return cmd
}

// registerCompletions adds custom completions to commands.
func registerCompletions(root *cobra.Command) {
	modes := make([]string, 0, len(extractModes))
	for _, m := range extractModes {
		modes = append(modes, m.String())
	}

	_ = root.RegisterFlagCompletionFunc("log-level", fixedCompletions([]string{"debug", "info", "warn", "error", "off"}))

	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "extract":
			_ = cmd.RegisterFlagCompletionFunc("mode", fixedCompletions(modes))
			_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions([]string{formatText, formatHTML}))
		case "config":
			if set, _, err := cmd.Find([]string{"set"}); err == nil && set != cmd {
				set.ValidArgsFunction = settingKeyCompletions
			}
			continue
		case "view", "capture":
		default:
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc("width-method", fixedCompletions([]string{"grapheme", "wcwidth"}))
	}
}

func fixedCompletions(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
