// Package worktree is the lifecycle policy engine: it maps branches to
// deterministic filesystem locations under a configured root and decides how
// worktrees are materialized, retired, located and pruned. All repository
// state is read fresh through the Git interface on every operation; the
// engine keeps no state of its own.
package worktree

import (
	"path/filepath"

	"github.com/arborcli/arbor/internal/project"
)

// BasePath returns the directory all of a project's worktrees live under:
// root/host/owner/name. The empty owner of local identities is skipped by
// the join.
func BasePath(root string, id project.Identity) string {
	return filepath.Join(root, id.Host, id.Owner, id.Name)
}

// Path returns the worktree directory for a branch. Slashes in the branch
// name become nested directories, so distinct branches of the same project
// can never collide.
func Path(root string, id project.Identity, branch string) string {
	return filepath.Join(BasePath(root, id), filepath.FromSlash(branch))
}
