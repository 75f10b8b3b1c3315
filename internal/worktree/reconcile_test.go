package worktree

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/arborcli/arbor/internal/git"
)

func candidateBranches(cs []Candidate) []string {
	branches := make([]string, len(cs))
	for i, c := range cs {
		branches[i] = c.Branch
	}
	return branches
}

func TestCandidatesClassification(t *testing.T) {
	t.Parallel()

	// Default branch main. old-feature is merged, wip's upstream is gone,
	// local-only never had an upstream. Candidates are exactly
	// old-feature and wip.
	fake := &fakeGit{
		locals:  []string{"main", "old-feature", "wip", "local-only"},
		remotes: []string{"main"},
		merged:  []string{"main", "old-feature"},
		upstreams: map[string]string{
			"main": "refs/heads/main",
			"wip":  "refs/heads/wip",
		},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/old-feature", Branch: "old-feature"},
			{Path: "/w/wip", Branch: "wip"},
			{Path: "/w/local-only", Branch: "local-only"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	candidates, defaultBranch, err := eng.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if defaultBranch != "main" {
		t.Errorf("defaultBranch = %q, want main", defaultBranch)
	}
	if want := []string{"old-feature", "wip"}; !slices.Equal(candidateBranches(candidates), want) {
		t.Errorf("candidates = %v, want %v", candidateBranches(candidates), want)
	}

	// The fetch must prune stale remote-tracking refs.
	if want := []bool{true}; !slices.Equal(fake.fetchCalls, want) {
		t.Errorf("fetchCalls = %v, want %v", fake.fetchCalls, want)
	}
}

func TestCandidatesNeverIncludeDefaultBranch(t *testing.T) {
	t.Parallel()

	// main is in its own merged set; it must still never be a candidate.
	fake := &fakeGit{
		locals:  []string{"main"},
		merged:  []string{"main"},
		remotes: []string{},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	candidates, _, err := eng.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %v, want none", candidateBranches(candidates))
	}
}

func TestCandidatesSpareLocalOnlyBranches(t *testing.T) {
	t.Parallel()

	// Unmerged, absent from the remote, but never had an upstream: left
	// alone, it may be deliberate local-only work.
	fake := &fakeGit{
		locals:  []string{"main", "scratch"},
		merged:  []string{"main"},
		remotes: []string{"main"},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/scratch", Branch: "scratch"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	candidates, _, err := eng.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %v, want none", candidateBranches(candidates))
	}
}

func TestCandidatesBothReasonsRecorded(t *testing.T) {
	t.Parallel()

	fake := &fakeGit{
		locals:    []string{"main", "done"},
		merged:    []string{"main", "done"},
		remotes:   []string{"main"},
		upstreams: map[string]string{"done": "refs/heads/done"},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/done", Branch: "done"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	candidates, _, err := eng.Candidates(context.Background())
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates = %v, want one", candidateBranches(candidates))
	}
	c := candidates[0]
	if !c.Merged || !c.UpstreamGone {
		t.Errorf("candidate = %+v, want both reasons set", c)
	}
	if c.Reason() != "merged, upstream gone" {
		t.Errorf("Reason() = %q", c.Reason())
	}
}

func TestDefaultBranchPreferenceOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		locals        []string
		remoteDefault string
		want          string
		wantErr       bool
	}{
		{name: "local main", locals: []string{"master", "main"}, want: "main"},
		{name: "local master", locals: []string{"dev", "master"}, want: "master"},
		{name: "remote advertised", locals: []string{"dev"}, remoteDefault: "trunk", want: "trunk"},
		{name: "nothing", locals: []string{"dev"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeGit{locals: tt.locals, remoteDefault: tt.remoteDefault}
			eng, _ := newTestEngine(t, fake)

			_, defaultBranch, err := eng.Candidates(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrNoDefaultBranch) {
					t.Fatalf("err = %v, want ErrNoDefaultBranch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Candidates failed: %v", err)
			}
			if defaultBranch != tt.want {
				t.Errorf("defaultBranch = %q, want %q", defaultBranch, tt.want)
			}
		})
	}
}

func TestReconcileDeclinedConfirmation(t *testing.T) {
	t.Parallel()

	fake := &fakeGit{
		locals:  []string{"main", "old"},
		merged:  []string{"main", "old"},
		remotes: []string{"main"},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/old", Branch: "old"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	removed, err := eng.Reconcile(context.Background(), func([]Candidate) bool { return false })
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(fake.removeCalls) != 0 {
		t.Errorf("removeCalls = %v, want none", fake.removeCalls)
	}
}

func TestReconcileRemovesConfirmedCandidates(t *testing.T) {
	t.Parallel()

	fake := &fakeGit{
		locals:  []string{"main", "a", "b"},
		merged:  []string{"main", "a", "b"},
		remotes: []string{"main"},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/a", Branch: "a"},
			{Path: "/w/b", Branch: "b"},
		},
	}
	eng, _ := newTestEngine(t, fake)

	removed, err := eng.Reconcile(context.Background(), func([]Candidate) bool { return true })
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestReconcilePartialFailure(t *testing.T) {
	t.Parallel()

	// Three candidates, one removal fails: the batch continues, two are
	// removed, and the failure count is reported, not raised mid-batch.
	fake := &fakeGit{
		locals:  []string{"main", "a", "b", "c"},
		merged:  []string{"main", "a", "b", "c"},
		remotes: []string{"main"},
		worktrees: []git.Worktree{
			{Path: "/w/main", Branch: "main"},
			{Path: "/w/a", Branch: "a"},
			{Path: "/w/b", Branch: "b"},
			{Path: "/w/c", Branch: "c"},
		},
		removeErr: map[string]error{"/w/b": errors.New("locked")},
	}
	eng, _ := newTestEngine(t, fake)

	removed, err := eng.Reconcile(context.Background(), func([]Candidate) bool { return true })
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	var partial *PartialPruneError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want *PartialPruneError", err)
	}
	if partial.Failed != 1 {
		t.Errorf("Failed = %d, want 1", partial.Failed)
	}
}
