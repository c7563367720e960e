package release

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/invariant"
)

const (
	changelogHeader = "Changelog:\n\n"
	mergePrefix     = "Merge pull request #"
)

// Changelog writes release notes from the history of a branch
type Changelog struct {
	repo Repository
	opts options
}

// NewChangelog creates a changelog generator over repo
func NewChangelog(repo Repository, opts ...Option) *Changelog {
	invariant.NotNil(repo, "repo")
	return &Changelog{repo: repo, opts: newOptions(opts)}
}

// Generate returns the notes for a release on branch.
//
// The notes cover the commits since the newest release whose prerelease flag
// differs from stable, or the whole branch when there is none. When any of
// those commits merges a pull request the notes list the merged pull
// requests, otherwise every commit.
func (c *Changelog) Generate(ctx context.Context, branch string, stable bool) (string, error) {
	invariant.ContextNotBackground(ctx, "Changelog.Generate")
	log := c.opts.logger

	releases, err := c.repo.ListReleases(ctx)
	if err != nil {
		return "", errors.NewRemoteReadError("releases", err)
	}

	var since time.Time
	if baseline, ok := Baseline(releases, stable); ok {
		since = baseline.PublishedAt
		log.Debug("Changelog baseline",
			zap.String("tag", baseline.Tag),
			zap.Time("published_at", since))
	} else {
		log.Debug("No baseline release, using whole branch", zap.String("branch", branch))
	}

	commits, err := c.repo.ListCommits(ctx, branch, since)
	if err != nil {
		return "", errors.NewRemoteReadError("commits", err).WithContext("branch", branch)
	}

	prs := MergedPullRequests(commits)
	log.Debug("Collected history",
		zap.Int("commits", len(commits)),
		zap.Int("pull_requests", len(prs)))

	if len(prs) == 0 {
		return commitNotes(commits), nil
	}
	return c.pullRequestNotes(ctx, prs)
}

// Baseline returns the first release in releases whose prerelease flag
// differs from stable
func Baseline(releases []Release, stable bool) (Release, bool) {
	for _, r := range releases {
		if r.Prerelease != stable {
			return r, true
		}
	}
	return Release{}, false
}

// MergedPullRequests returns the pull request numbers of merge commits in
// commit order. A merge commit message starts with "Merge pull request #";
// its fourth word is the number.
func MergedPullRequests(commits []Commit) []int {
	var prs []int
	for _, commit := range commits {
		if !strings.HasPrefix(commit.Message, mergePrefix) {
			continue
		}
		words := strings.Split(commit.Message, " ")
		if len(words) < 4 {
			continue
		}
		n, err := strconv.Atoi(strings.Trim(words[3], "#"))
		if err != nil {
			continue
		}
		prs = append(prs, n)
	}
	return prs
}

func commitNotes(commits []Commit) string {
	var b strings.Builder
	b.WriteString(changelogHeader)
	for _, commit := range commits {
		fmt.Fprintf(&b, "* %s (%s)\n", commit.Message, commit.SHA)
	}
	return b.String()
}

func (c *Changelog) pullRequestNotes(ctx context.Context, prs []int) (string, error) {
	titles := make([]string, len(prs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.concurrency)
	for i, number := range prs {
		g.Go(func() error {
			title, err := c.repo.PullRequestTitle(gctx, number)
			if err != nil {
				return errors.NewRemoteReadError(fmt.Sprintf("pull request #%d", number), err)
			}
			titles[i] = title
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(changelogHeader)
	for i, number := range prs {
		fmt.Fprintf(&b, "* %s (#%d)\n", titles[i], number)
	}
	return b.String(), nil
}
