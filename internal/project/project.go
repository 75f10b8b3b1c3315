// Package project derives a canonical project identity from a repository's
// remote URL.
package project

import (
	"path"
	"regexp"
	"strings"
)

// LocalHost is the synthetic host segment used when a repository has no
// parsable remote.
const LocalHost = "local"

// Identity is the canonical {host, owner, name} key of a project. Worktree
// storage paths are derived from it, so equal remotes must yield equal
// identities regardless of URL syntax.
type Identity struct {
	Host  string
	Owner string
	Name  string
}

var (
	// git@github.com:acme/widget.git
	sshPattern = regexp.MustCompile(`^[\w.+-]+@([\w.-]+):(.+)$`)
	// https://github.com/acme/widget.git, ssh://git@github.com/acme/widget
	urlPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://(?:[^@/]+@)?([\w.-]+)(?::\d+)?/(.+)$`)
)

// Resolve derives the identity from a remote URL. An absent or unparsable
// URL degrades to the local fallback {local, "", fallbackDirName}; it never
// fails. fallbackDirName should be the basename of the repository's main
// working directory.
func Resolve(remoteURL, fallbackDirName string) Identity {
	remoteURL = strings.TrimSpace(remoteURL)
	for _, re := range []*regexp.Regexp{sshPattern, urlPattern} {
		m := re.FindStringSubmatch(remoteURL)
		if m == nil {
			continue
		}
		if id, ok := splitRepoPath(m[1], m[2]); ok {
			return id
		}
	}
	return Identity{Host: LocalHost, Name: fallbackDirName}
}

// splitRepoPath turns the path part of a remote URL into owner and name.
// Nested group paths (gitlab subgroups) keep the first segment as owner and
// the last as name.
func splitRepoPath(host, repoPath string) (Identity, bool) {
	repoPath = strings.Trim(repoPath, "/")
	repoPath = strings.TrimSuffix(repoPath, ".git")
	parts := strings.Split(repoPath, "/")
	if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
		return Identity{}, false
	}
	return Identity{
		Host:  host,
		Owner: parts[0],
		Name:  parts[len(parts)-1],
	}, true
}

// IsLocal reports whether the identity is the no-remote fallback.
func (id Identity) IsLocal() bool {
	return id.Host == LocalHost && id.Owner == ""
}

// String returns the slash-joined identity, skipping the empty owner of
// local identities.
func (id Identity) String() string {
	return path.Join(id.Host, id.Owner, id.Name)
}
