package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print shell completions for dw",
	Long: `Print the shell tab-completion script for dw commands, flags, and task IDs.

Supported shells: bash, zsh, fish, powershell

  eval "$(dw completion bash)"
  eval "$(dw completion zsh)"
  dw completion fish | source
  dw completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	// Remove Cobra's default completion command and add ours.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	// Usage hints go to stderr so they don't interfere with piping.
	out := cmd.OutOrStdout()
	switch shell := args[0]; shell {
	case "bash":
		printHints(cmd, "# To load completions in your current session:", `#   eval "$(dw completion bash)"`, "#")
		return rootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		printHints(cmd, "# To load completions in your current session:", `#   eval "$(dw completion zsh)"`, "#")
		return rootCmd.GenZshCompletion(out)
	case "fish":
		printHints(cmd, "# To load completions in your current session:", "#   dw completion fish | source", "#")
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		printHints(cmd, "# To load completions in your current session:", "#   dw completion powershell | Out-String | Invoke-Expression", "#")
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}
}

// printHints writes usage hints to stderr.
func printHints(cmd *cobra.Command, lines ...string) {
	w := cmd.ErrOrStderr()
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}
