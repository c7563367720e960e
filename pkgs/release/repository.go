// Package release builds releases of a hosted repository: it bumps a version
// constant in a PHP source file, writes a changelog from the commits since the
// previous release and publishes the release.
package release

//go:generate mockgen -package mockrelease -destination mock/repository.go github.com/aledsdavies/releasebuilder/pkgs/release Repository

import (
	"context"
	"time"
)

// Release is a published release of the repository
type Release struct {
	ID          int64
	Tag         string
	Name        string
	Draft       bool
	Prerelease  bool
	PublishedAt time.Time
	URL         string
}

// Commit is one commit on a branch
type Commit struct {
	SHA     string
	Message string
}

// File is the content of a file at a branch head. Revision identifies the
// content and must be passed back when updating the file.
type File struct {
	Content  string
	Revision string
}

// Committer is the identity recorded on commits the tool makes
type Committer struct {
	Name  string
	Email string
}

// IsZero reports whether no identity is set, in which case the remote
// defaults to the authenticated user
func (c Committer) IsZero() bool {
	return c.Name == "" && c.Email == ""
}

// FileUpdate replaces the content of a file with a commit on Branch.
// The update fails when Revision no longer matches the file.
type FileUpdate struct {
	Path      string
	Content   string
	Message   string
	Revision  string
	Branch    string
	Committer Committer
}

// ReleaseRequest describes a release to create
type ReleaseRequest struct {
	Tag        string
	Target     string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// Repository is the remote hosting the code being released
type Repository interface {
	// ListReleases returns the releases, newest first
	ListReleases(ctx context.Context) ([]Release, error)
	// ListCommits returns the commits on branch, newest first. A zero since
	// lists the whole history.
	ListCommits(ctx context.Context, branch string, since time.Time) ([]Commit, error)
	PullRequestTitle(ctx context.Context, number int) (string, error)
	ReadFile(ctx context.Context, path, branch string) (File, error)
	WriteFile(ctx context.Context, update FileUpdate) error
	CreateRelease(ctx context.Context, req ReleaseRequest) (Release, error)
}
