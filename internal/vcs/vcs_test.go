package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initGitRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "suite.yaml"), []byte("version: \"1.0\"\n"), 0o644))
	_, err = wt.Add("suite.yaml")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "journeyman",
			Email: "journeyman@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestLookupFindsRepositoryFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir, commit := initGitRepo(t)
	sub := filepath.Join(dir, "suites", "smoke")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rev, err := Lookup(sub)
	require.NoError(t, err)
	require.Equal(t, commit, rev.Commit)
	require.Equal(t, "master", rev.Branch)
	require.False(t, rev.Dirty)
	require.Equal(t, "master@"+commit[:7], rev.String())
}

func TestLookupReportsDirtyWorktree(t *testing.T) {
	t.Parallel()

	dir, _ := initGitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "suite.yaml"), []byte("changed\n"), 0o644))

	rev, err := Lookup(dir)
	require.NoError(t, err)
	require.True(t, rev.Dirty)
	require.Contains(t, rev.String(), "+dirty")
}

func TestLookupOutsideRepository(t *testing.T) {
	t.Parallel()

	_, err := Lookup(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}
