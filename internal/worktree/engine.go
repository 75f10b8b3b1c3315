package worktree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arborcli/arbor/internal/git"
	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/project"
)

// Git is the VCS backend the engine drives. *git.Client implements it;
// tests use a fake. The engine never parses git output itself.
type Git interface {
	Worktrees(ctx context.Context) ([]git.Worktree, error)
	AddWorktree(ctx context.Context, path, branch string) error
	AddWorktreeTrack(ctx context.Context, path, branch, remoteBranch string) error
	AddWorktreeNewBranch(ctx context.Context, path, branch string) error
	RemoveWorktree(ctx context.Context, path string, force bool) error
	LocalBranches(ctx context.Context) ([]string, error)
	RemoteBranches(ctx context.Context) ([]string, error)
	BranchUpstream(ctx context.Context, branch string) string
	MergedBranches(ctx context.Context, into string) ([]string, error)
	Fetch(ctx context.Context, prune bool) error
	RemoteDefaultBranch(ctx context.Context) string
	RemoteURL(ctx context.Context) string
	MainWorktreeDir(ctx context.Context) (string, error)
	CurrentWorktreeDir(ctx context.Context) (string, error)
	SwitchBranch(ctx context.Context, dir, branch string) error
}

// SelectFunc presents candidates and returns the chosen one. ok is false
// when the user dismissed the selection; that is a valid outcome, not an
// error.
type SelectFunc func(ctx context.Context, prompt string, candidates []string) (choice string, ok bool, err error)

// Options configures an Engine.
type Options struct {
	// Root is the worktree root directory, already validated and
	// ~-expanded at the configuration boundary.
	Root string

	// WorkDir is the caller's current directory, used to decide whether a
	// removal needs to relocate the caller.
	WorkDir string

	Git Git

	// Select is consulted when an operation needs a branch and none was
	// supplied. Nil means selection is unavailable (not a terminal).
	Select SelectFunc

	// Lock guards the materialize/retire critical sections with a
	// per-branch advisory file lock. Off by default: concurrent
	// invocations racing between check and act is the documented baseline
	// behavior, and enabling the lock changes it.
	Lock bool
}

// Engine implements the worktree lifecycle policy.
type Engine struct {
	root    string
	workDir string
	git     Git
	selectF SelectFunc
	lock    bool
}

// NewEngine creates an engine. Options.Root and Options.Git are required.
func NewEngine(opts Options) *Engine {
	return &Engine{
		root:    opts.Root,
		workDir: opts.WorkDir,
		git:     opts.Git,
		selectF: opts.Select,
		lock:    opts.Lock,
	}
}

// Identity resolves the project identity for this repository. The fallback
// name is the basename of the primary checkout: worktree directories share
// the repository's remote configuration, so resolution must not depend on
// which worktree the caller happens to be in.
func (e *Engine) Identity(ctx context.Context) (project.Identity, error) {
	mainDir, err := e.git.MainWorktreeDir(ctx)
	if err != nil {
		return project.Identity{}, err
	}
	return project.Resolve(e.git.RemoteURL(ctx), filepath.Base(mainDir)), nil
}

// Add materializes a worktree for branch and returns its absolute path.
// With an empty branch, the selector is consulted over all known local and
// remote branches.
//
// Binding decision, in order: an existing local branch is bound directly; a
// branch existing on origin gets a local tracking branch; otherwise a
// brand-new branch with no upstream is created.
func (e *Engine) Add(ctx context.Context, branch string) (string, error) {
	l := log.FromContext(ctx)

	locals, err := e.git.LocalBranches(ctx)
	if err != nil {
		return "", err
	}
	remotes, err := e.git.RemoteBranches(ctx)
	if err != nil {
		return "", err
	}

	if branch == "" {
		branch, err = e.selectBranch(ctx, locals, remotes)
		if err != nil {
			return "", err
		}
	}

	id, err := e.Identity(ctx)
	if err != nil {
		return "", err
	}
	path := Path(e.root, id, branch)

	if e.lock {
		unlock, err := lockBranch(BasePath(e.root, id), branch)
		if err != nil {
			return "", fmt.Errorf("acquire lock: %w", err)
		}
		defer unlock()
	}

	// A stray directory that is not a registered worktree still blocks
	// creation; git would otherwise fail halfway or adopt unrelated files.
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create base directory: %w", err)
	}

	switch {
	case slices.Contains(locals, branch):
		l.Debug("add: binding existing local branch", "branch", branch)
		err = e.git.AddWorktree(ctx, path, branch)
	case slices.Contains(remotes, branch):
		l.Debug("add: tracking remote branch", "branch", branch)
		err = e.git.AddWorktreeTrack(ctx, path, branch, branch)
	default:
		l.Debug("add: creating new branch", "branch", branch)
		err = e.git.AddWorktreeNewBranch(ctx, path, branch)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// SelectBranch interactively picks a branch from all local and remote
// branches. Fails with ErrSelectionCancelled when selection is unavailable
// or dismissed.
func (e *Engine) SelectBranch(ctx context.Context) (string, error) {
	locals, err := e.git.LocalBranches(ctx)
	if err != nil {
		return "", err
	}
	remotes, err := e.git.RemoteBranches(ctx)
	if err != nil {
		return "", err
	}
	return e.selectBranch(ctx, locals, remotes)
}

// selectBranch runs interactive selection over local then remote branches.
func (e *Engine) selectBranch(ctx context.Context, locals, remotes []string) (string, error) {
	if e.selectF == nil {
		return "", fmt.Errorf("%w: no branch given and no terminal for selection", ErrSelectionCancelled)
	}
	candidates := slices.Clone(locals)
	for _, r := range remotes {
		if !slices.Contains(candidates, r) {
			candidates = append(candidates, r)
		}
	}
	choice, ok, err := e.selectF(ctx, "Select a branch", candidates)
	if err != nil {
		return "", err
	}
	if !ok || choice == "" {
		return "", ErrSelectionCancelled
	}
	return choice, nil
}

// Remove retires the worktree bound to branch. When the caller's working
// directory is inside the worktree being removed, the returned relocation
// path points at the default-branch worktree and is resolved before the
// removal is issued; it is empty when no relocation is needed.
func (e *Engine) Remove(ctx context.Context, branch string, force bool) (string, error) {
	id, err := e.Identity(ctx)
	if err != nil {
		return "", err
	}
	path := Path(e.root, id, branch)

	if e.lock {
		unlock, err := lockBranch(BasePath(e.root, id), branch)
		if err != nil {
			return "", fmt.Errorf("acquire lock: %w", err)
		}
		defer unlock()
	}

	wts, err := e.git.Worktrees(ctx)
	if err != nil {
		return "", err
	}
	if !registered(wts, path) {
		return "", fmt.Errorf("%w %q at %s", ErrNotFound, branch, path)
	}

	var relocation string
	if isWithin(e.workDir, path) {
		relocation = defaultBranchWorktree(wts, path)
		if relocation == "" {
			return "", fmt.Errorf("%w: cannot relocate out of %s, no main or master worktree exists", ErrNoDefaultBranch, path)
		}
	}

	if err := e.git.RemoveWorktree(ctx, path, force); err != nil {
		return "", err
	}
	return relocation, nil
}

// LocationKind distinguishes the two outcomes of Locate.
type LocationKind int

const (
	// NavigateTo means an existing worktree was found; the caller should
	// change directory to Path.
	NavigateTo LocationKind = iota

	// SwitchedInPlace means no worktree was bound to the branch, but the
	// branch existed, so the current worktree was switched to it. The
	// caller stays where it is.
	SwitchedInPlace
)

// Location is the result of Locate.
type Location struct {
	Kind LocationKind
	Path string
}

// Locate resolves a branch to a worktree. When a worktree is bound to the
// branch, its path is returned for navigation. When only the branch exists
// (locally or on origin), the current worktree is switched to it in place;
// that is deliberately a distinct outcome, not a relocation.
func (e *Engine) Locate(ctx context.Context, branch string) (Location, error) {
	wts, err := e.git.Worktrees(ctx)
	if err != nil {
		return Location{}, err
	}
	for _, wt := range wts {
		if wt.Branch != branch {
			continue
		}
		if _, err := os.Stat(wt.Path); err != nil {
			return Location{}, fmt.Errorf("%w: %s (run prune to clean the registry)", ErrDirectoryMissing, wt.Path)
		}
		return Location{Kind: NavigateTo, Path: wt.Path}, nil
	}

	locals, err := e.git.LocalBranches(ctx)
	if err != nil {
		return Location{}, err
	}
	remotes, err := e.git.RemoteBranches(ctx)
	if err != nil {
		return Location{}, err
	}
	if !slices.Contains(locals, branch) && !slices.Contains(remotes, branch) {
		return Location{}, fmt.Errorf("%w: %q has no worktree, local branch or remote branch", ErrBranchNotFound, branch)
	}

	dir, err := e.git.CurrentWorktreeDir(ctx)
	if err != nil {
		return Location{}, err
	}
	if err := e.git.SwitchBranch(ctx, dir, branch); err != nil {
		return Location{}, err
	}
	return Location{Kind: SwitchedInPlace, Path: dir}, nil
}

// registered reports whether path is in the worktree registry.
func registered(wts []git.Worktree, path string) bool {
	for _, wt := range wts {
		if filepath.Clean(wt.Path) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

// defaultBranchWorktree returns the path of the worktree bound to main,
// else master, first match in registry order, excluding the worktree at
// exclude. Empty when none exists.
func defaultBranchWorktree(wts []git.Worktree, exclude string) string {
	for _, name := range []string{"main", "master"} {
		for _, wt := range wts {
			if wt.Branch == name && filepath.Clean(wt.Path) != filepath.Clean(exclude) {
				return wt.Path
			}
		}
	}
	return ""
}

// isWithin reports whether dir equals target or is nested inside it.
func isWithin(dir, target string) bool {
	if dir == "" {
		return false
	}
	dir = filepath.Clean(dir)
	target = filepath.Clean(target)
	return dir == target || strings.HasPrefix(dir, target+string(filepath.Separator))
}
