// Package github implements release.Repository on the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v66/github"

	"github.com/aledsdavies/releasebuilder/pkgs/invariant"
	"github.com/aledsdavies/releasebuilder/pkgs/release"
)

const perPage = 100

// Repository is one GitHub repository
type Repository struct {
	client *gogithub.Client
	owner  string
	name   string
}

var _ release.Repository = (*Repository)(nil)

// Opt configures a Repository
type Opt func(*config) error

type config struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(c *http.Client) Opt {
	return func(cfg *config) error {
		cfg.httpClient = c
		return nil
	}
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server
func WithBaseURL(raw string) Opt {
	return func(cfg *config) error {
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("invalid API URL %q: %w", raw, err)
		}
		cfg.baseURL = raw
		return nil
	}
}

// New returns the repository owner/name authenticated with token
func New(repo release.Repo, token string, opts ...Opt) (*Repository, error) {
	invariant.Precondition(repo.Owner != "" && repo.Name != "", "repository must be owner/name, got %q", repo.String())

	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	client := gogithub.NewClient(cfg.httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", cfg.baseURL, err)
		}
		client.BaseURL = u
	}

	return &Repository{client: client, owner: repo.Owner, name: repo.Name}, nil
}

func (r *Repository) String() string {
	return r.owner + "/" + r.name
}

// ListReleases returns every release, newest first
func (r *Repository) ListReleases(ctx context.Context) ([]release.Release, error) {
	var out []release.Release
	opts := &gogithub.ListOptions{PerPage: perPage}
	for {
		page, resp, err := r.client.Repositories.ListReleases(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("list releases of %s: %w", r, err)
		}
		for _, rel := range page {
			out = append(out, toRelease(rel))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListCommits returns the commits on branch since the given time, newest first
func (r *Repository) ListCommits(ctx context.Context, branch string, since time.Time) ([]release.Commit, error) {
	var out []release.Commit
	opts := &gogithub.CommitsListOptions{
		SHA:         branch,
		Since:       since,
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}
	for {
		page, resp, err := r.client.Repositories.ListCommits(ctx, r.owner, r.name, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits of %s@%s: %w", r, branch, err)
		}
		for _, c := range page {
			out = append(out, release.Commit{
				SHA:     c.GetSHA(),
				Message: c.GetCommit().GetMessage(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// PullRequestTitle returns the title of pull request number
func (r *Repository) PullRequestTitle(ctx context.Context, number int) (string, error) {
	pr, _, err := r.client.PullRequests.Get(ctx, r.owner, r.name, number)
	if err != nil {
		return "", fmt.Errorf("get pull request #%d of %s: %w", number, r, err)
	}
	return pr.GetTitle(), nil
}

// ReadFile returns the decoded content of path at branch and its blob SHA
func (r *Repository) ReadFile(ctx context.Context, path, branch string) (release.File, error) {
	file, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.name, path,
		&gogithub.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		return release.File{}, fmt.Errorf("get %s of %s@%s: %w", path, r, branch, err)
	}
	if file == nil {
		return release.File{}, fmt.Errorf("%s of %s is a directory", path, r)
	}

	content, err := file.GetContent()
	if err != nil {
		return release.File{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return release.File{Content: content, Revision: file.GetSHA()}, nil
}

// WriteFile commits new content for a file. The commit is rejected when the
// file's blob SHA is no longer update.Revision.
func (r *Repository) WriteFile(ctx context.Context, update release.FileUpdate) error {
	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(update.Message),
		Content: []byte(update.Content),
		SHA:     gogithub.Ptr(update.Revision),
		Branch:  gogithub.Ptr(update.Branch),
	}
	if !update.Committer.IsZero() {
		opts.Committer = &gogithub.CommitAuthor{
			Name:  gogithub.Ptr(update.Committer.Name),
			Email: gogithub.Ptr(update.Committer.Email),
		}
	}

	if _, _, err := r.client.Repositories.UpdateFile(ctx, r.owner, r.name, update.Path, opts); err != nil {
		return fmt.Errorf("update %s of %s@%s: %w", update.Path, r, update.Branch, err)
	}
	return nil
}

// CreateRelease publishes a release
func (r *Repository) CreateRelease(ctx context.Context, req release.ReleaseRequest) (release.Release, error) {
	created, _, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.name, &gogithub.RepositoryRelease{
		TagName:         gogithub.Ptr(req.Tag),
		TargetCommitish: gogithub.Ptr(req.Target),
		Name:            gogithub.Ptr(req.Name),
		Body:            gogithub.Ptr(req.Body),
		Draft:           gogithub.Ptr(req.Draft),
		Prerelease:      gogithub.Ptr(req.Prerelease),
	})
	if err != nil {
		return release.Release{}, fmt.Errorf("create release %s of %s: %w", req.Tag, r, err)
	}
	return toRelease(created), nil
}

func toRelease(rel *gogithub.RepositoryRelease) release.Release {
	return release.Release{
		ID:          rel.GetID(),
		Tag:         rel.GetTagName(),
		Name:        rel.GetName(),
		Draft:       rel.GetDraft(),
		Prerelease:  rel.GetPrerelease(),
		PublishedAt: rel.GetPublishedAt().Time,
		URL:         rel.GetHTMLURL(),
	}
}
