package worktree

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// lockBranch takes an exclusive flock scoped to one branch of one project,
// guarding the check-then-act window of materialize and retire against
// concurrent invocations. Blocks until acquired. The lock file lives under
// the project base directory and is left in place after unlock.
func lockBranch(baseDir, branch string) (unlock func(), err error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	name := ".arbor-lock-" + strings.ReplaceAll(branch, "/", "-")
	f, err := os.OpenFile(filepath.Join(baseDir, name), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}
