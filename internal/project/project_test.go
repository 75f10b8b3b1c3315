package project

import "testing"

func TestResolveNormalizesURLSyntaxes(t *testing.T) {
	t.Parallel()

	// All syntaxes denoting the same remote must yield the same identity.
	want := Identity{Host: "github.com", Owner: "acme", Name: "widget"}
	urls := []string{
		"git@github.com:acme/widget.git",
		"git@github.com:acme/widget",
		"https://github.com/acme/widget.git",
		"https://github.com/acme/widget",
		"http://github.com/acme/widget",
		"ssh://git@github.com/acme/widget.git",
		"https://user@github.com/acme/widget.git",
	}
	for _, url := range urls {
		if got := Resolve(url, "fallback"); got != want {
			t.Errorf("Resolve(%q) = %+v, want %+v", url, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		fallback string
		want     Identity
	}{
		{
			name: "gitlab subgroup keeps first and last segments",
			url:  "git@gitlab.com:group/subgroup/project.git",
			want: Identity{Host: "gitlab.com", Owner: "group", Name: "project"},
		},
		{
			name: "https with port",
			url:  "https://git.example.com:8443/team/repo.git",
			want: Identity{Host: "git.example.com", Owner: "team", Name: "repo"},
		},
		{
			name: "trailing slash",
			url:  "https://github.com/acme/widget/",
			want: Identity{Host: "github.com", Owner: "acme", Name: "widget"},
		},
		{
			name:     "empty url falls back",
			url:      "",
			fallback: "myrepo",
			want:     Identity{Host: "local", Name: "myrepo"},
		},
		{
			name:     "filesystem path falls back",
			url:      "/srv/git/repo.git",
			fallback: "repo",
			want:     Identity{Host: "local", Name: "repo"},
		},
		{
			name:     "single path segment falls back",
			url:      "https://github.com/justhost",
			fallback: "dir",
			want:     Identity{Host: "local", Name: "dir"},
		},
		{
			name:     "garbage falls back",
			url:      "not a url at all",
			fallback: "dir",
			want:     Identity{Host: "local", Name: "dir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tt.url, tt.fallback); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %+v, want %+v", tt.url, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	url := "git@github.com:acme/widget.git"
	first := Resolve(url, "x")
	for range 10 {
		if got := Resolve(url, "x"); got != first {
			t.Fatalf("Resolve is not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestIdentityString(t *testing.T) {
	t.Parallel()

	id := Identity{Host: "github.com", Owner: "acme", Name: "widget"}
	if got := id.String(); got != "github.com/acme/widget" {
		t.Errorf("String() = %q", got)
	}

	local := Identity{Host: "local", Name: "widget"}
	if got := local.String(); got != "local/widget" {
		t.Errorf("local String() = %q", got)
	}
	if !local.IsLocal() {
		t.Error("IsLocal() = false, want true")
	}
}
