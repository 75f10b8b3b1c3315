package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/config"
	"github.com/arborcli/arbor/internal/git"
	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
	"github.com/arborcli/arbor/internal/worktree"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	rootFlag string

	// Shared state injected into commands
	cfg     config.Config
	workDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Git worktree manager with deterministic paths",
	Long: `arbor manages git worktrees of a repository under one configured root,
mapping each branch to a deterministic path derived from the repository's
remote: <root>/<host>/<owner>/<repo>/<branch>.

Printed paths are meant to be consumed by the shell wrapper installed with
'arbor init'; arbor itself never changes your directory.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are only parsed at this point, so the logger is built here
		// and not in Execute.
		cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))

		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" || cmd.Name() == "init" {
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}
		return git.CheckGit()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cfgPath, err := config.Path()
	if err == nil {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arbor: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Primary data (paths) goes on stdout; diagnostics are attached per
	// command once the flags are known.
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arbor:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to distinct exit codes so shell wrappers and
// scripts can react per failure kind.
func exitCode(err error) int {
	var partial *worktree.PartialPruneError
	switch {
	case errors.Is(err, config.ErrMissingRoot):
		return 2
	case errors.Is(err, git.ErrNotRepository):
		return 3
	case errors.Is(err, worktree.ErrAlreadyExists):
		return 4
	case errors.Is(err, worktree.ErrNotFound),
		errors.Is(err, worktree.ErrBranchNotFound),
		errors.Is(err, worktree.ErrDirectoryMissing):
		return 5
	case errors.Is(err, worktree.ErrNoDefaultBranch):
		return 6
	case errors.Is(err, worktree.ErrSelectionCancelled):
		return 7
	case errors.Is(err, worktree.ErrInvalidPR):
		return 8
	case errors.Is(err, worktree.ErrLookupFailed):
		return 9
	case errors.As(err, &partial):
		return 10
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Worktree root directory (overrides config)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newCdCmd())
	rootCmd.AddCommand(newPruneCmd())
	rootCmd.AddCommand(newPrCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInitCmd())
}
