package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorktreeRoot != "" {
		t.Errorf("WorktreeRoot = %q, want empty", cfg.WorktreeRoot)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `worktree_root = "~/worktrees"

[hooks]
post_add = "echo {branch}"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorktreeRoot != "~/worktrees" {
		t.Errorf("WorktreeRoot = %q", cfg.WorktreeRoot)
	}
	if cfg.Hooks.PostAdd != "echo {branch}" {
		t.Errorf("PostAdd = %q", cfg.Hooks.PostAdd)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("worktree_root = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		wantErr bool
		missing bool
	}{
		{name: "absolute", root: "/data/worktrees"},
		{name: "home relative", root: "~/worktrees"},
		{name: "missing is a hard error", root: "", wantErr: true, missing: true},
		{name: "relative rejected", root: "./worktrees", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{WorktreeRoot: tt.root}.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate accepted invalid config")
				}
				if tt.missing && !errors.Is(err, ErrMissingRoot) {
					t.Errorf("err = %v, want ErrMissingRoot", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/worktrees")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if want := filepath.Join(home, "worktrees"); got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	// Absolute paths pass through untouched.
	if got, _ := ExpandPath("/data/worktrees"); got != "/data/worktrees" {
		t.Errorf("ExpandPath = %q, want unchanged", got)
	}
}
