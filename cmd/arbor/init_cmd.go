package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/output"
)

// Shell wrapper functions. The binary only prints paths; the wrapper owns
// the directory-change side effect. A command that prints nothing leaves
// the shell where it is.
const bashWrapper = `arbor() {
    local out
    out="$(command arbor "$@")" || return $?
    if [ -n "$out" ]; then
        local dest="${out##*$'\n'}"
        if [ -d "$dest" ]; then
            cd "$dest" || return
        else
            printf '%s\n' "$out"
        fi
    fi
}
`

const fishWrapper = `function arbor
    set -l out (command arbor $argv)
    or return $status
    if test (count $out) -gt 0
        if test -d "$out[-1]"
            cd $out[-1]
        else
            printf '%s\n' $out
        end
    end
end
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "init <bash|zsh|fish>",
		Short:     "Print the shell wrapper function",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		Long: `Print a shell function that wraps arbor and changes directory to the
last path a command prints (new worktrees, relocation targets, cd).

Add to your shell config:
  eval "$(arbor init bash)"     # ~/.bashrc
  eval "$(arbor init zsh)"      # ~/.zshrc
  arbor init fish | source      # ~/.config/fish/config.fish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := output.FromContext(cmd.Context())
			switch args[0] {
			case "bash", "zsh":
				p.Printf("%s", bashWrapper)
			case "fish":
				p.Printf("%s", fishWrapper)
			default:
				return fmt.Errorf("unsupported shell %q (bash, zsh and fish are supported)", args[0])
			}
			return nil
		},
	}

	return cmd
}
