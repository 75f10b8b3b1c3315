package worktree

import (
	"path/filepath"
	"testing"

	"github.com/arborcli/arbor/internal/project"
)

func TestPathLayout(t *testing.T) {
	t.Parallel()

	id := project.Identity{Host: "github.com", Owner: "acme", Name: "widget"}

	tests := []struct {
		branch string
		want   string
	}{
		{"feature/x", "/r/github.com/acme/widget/feature/x"},
		{"main", "/r/github.com/acme/widget/main"},
		{"a/b/c", "/r/github.com/acme/widget/a/b/c"},
	}
	for _, tt := range tests {
		if got := Path("/r", id, tt.branch); got != filepath.FromSlash(tt.want) {
			t.Errorf("Path(/r, id, %q) = %q, want %q", tt.branch, got, tt.want)
		}
	}
}

func TestPathIsDeterministic(t *testing.T) {
	t.Parallel()

	id := project.Identity{Host: "github.com", Owner: "acme", Name: "widget"}
	a := Path("/r", id, "feature/x")
	b := Path("/r", id, "feature/x")
	if a != b {
		t.Errorf("same inputs yielded %q and %q", a, b)
	}
}

func TestPathDistinctBranchesNeverCollide(t *testing.T) {
	t.Parallel()

	id := project.Identity{Host: "github.com", Owner: "acme", Name: "widget"}
	branches := []string{"main", "feature/x", "feature/y", "featurex", "x", "feature"}

	seen := make(map[string]string)
	for _, b := range branches {
		p := Path("/r", id, b)
		if other, ok := seen[p]; ok {
			t.Errorf("branches %q and %q collide at %q", b, other, p)
		}
		seen[p] = b
	}
}

func TestBasePathLocalIdentitySkipsEmptyOwner(t *testing.T) {
	t.Parallel()

	id := project.Identity{Host: "local", Name: "widget"}
	if got, want := BasePath("/r", id), filepath.FromSlash("/r/local/widget"); got != want {
		t.Errorf("BasePath = %q, want %q", got, want)
	}
}
