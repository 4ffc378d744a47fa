// Package vcs describes the git revision a suite was run from.
package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no repository contains the path.
var ErrNotRepository = errors.New("not inside a git repository")

// Revision identifies the checked-out commit.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) > 7 {
		return r.Commit[:7]
	}
	return r.Commit
}

func (r Revision) String() string {
	s := r.Short()
	if r.Branch != "" {
		s = r.Branch + "@" + s
	}
	if r.Dirty {
		s += "+dirty"
	}
	return s
}

// Lookup opens the repository containing path, searching parent
// directories, and reports its HEAD.
func Lookup(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to be dirty.
		return rev, nil
	}
	status, err := wt.Status()
	if err != nil {
		return rev, fmt.Errorf("worktree status: %w", err)
	}
	rev.Dirty = !status.IsClean()
	return rev, nil
}
