package release_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/release"
	mockrelease "github.com/aledsdavies/releasebuilder/pkgs/release/mock"
)

var (
	stablePublished     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prereleasePublished = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	releases = []release.Release{
		{ID: 3, Tag: "2.0.0-RC1", Prerelease: true, PublishedAt: prereleasePublished},
		{ID: 2, Tag: "1.1.0", PublishedAt: stablePublished},
		{ID: 1, Tag: "1.0.0", PublishedAt: stablePublished.AddDate(0, -1, 0)},
	}

	plainCommits = []release.Commit{
		{SHA: "c3", Message: "Fix typo"},
		{SHA: "c2", Message: "Add option"},
	}

	mergeCommits = []release.Commit{
		{SHA: "c5", Message: "Merge pull request #12 from acme/feature"},
		{SHA: "c4", Message: "Tweak"},
		{SHA: "c3", Message: "Merge pull request #9 from acme/fix"},
	}
)

func TestChangelogGenerate(t *testing.T) {
	testCases := []struct {
		name       string
		stable     bool
		buildStubs func(repo *mockrelease.MockRepository)
		expected   string
		errType    string
	}{
		{
			name:   "CommitsSinceStableRelease",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(releases, nil)
				repo.EXPECT().ListCommits(gomock.Any(), "master", stablePublished).Times(1).Return(plainCommits, nil)
			},
			expected: "Changelog:\n\n* Fix typo (c3)\n* Add option (c2)\n",
		},
		{
			name:   "CommitsSincePrerelease",
			stable: false,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(releases, nil)
				repo.EXPECT().ListCommits(gomock.Any(), "master", prereleasePublished).Times(1).Return(plainCommits, nil)
			},
			expected: "Changelog:\n\n* Fix typo (c3)\n* Add option (c2)\n",
		},
		{
			name:   "WholeBranchWithoutBaseline",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(nil, nil)
				repo.EXPECT().ListCommits(gomock.Any(), "master", time.Time{}).Times(1).Return(plainCommits, nil)
			},
			expected: "Changelog:\n\n* Fix typo (c3)\n* Add option (c2)\n",
		},
		{
			name:   "PullRequests",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(releases, nil)
				repo.EXPECT().ListCommits(gomock.Any(), "master", stablePublished).Times(1).Return(mergeCommits, nil)
				repo.EXPECT().PullRequestTitle(gomock.Any(), 12).Times(1).Return("Add feature", nil)
				repo.EXPECT().PullRequestTitle(gomock.Any(), 9).Times(1).Return("Fix bug", nil)
			},
			expected: "Changelog:\n\n* Add feature (#12)\n* Fix bug (#9)\n",
		},
		{
			name:   "EmptyHistory",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(nil, nil)
				repo.EXPECT().ListCommits(gomock.Any(), "master", gomock.Any()).Times(1).Return(nil, nil)
			},
			expected: "Changelog:\n\n",
		},
		{
			name:   "ListReleasesErr",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(nil, fmt.Errorf("boom"))
				repo.EXPECT().ListCommits(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			errType: errors.ErrRemoteRead,
		},
		{
			name:   "ListCommitsErr",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(nil, nil)
				repo.EXPECT().ListCommits(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(nil, fmt.Errorf("boom"))
			},
			errType: errors.ErrRemoteRead,
		},
		{
			name:   "PullRequestTitleErr",
			stable: true,
			buildStubs: func(repo *mockrelease.MockRepository) {
				repo.EXPECT().ListReleases(gomock.Any()).Times(1).Return(nil, nil)
				repo.EXPECT().ListCommits(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(mergeCommits, nil)
				repo.EXPECT().PullRequestTitle(gomock.Any(), gomock.Any()).AnyTimes().Return("", fmt.Errorf("boom"))
			},
			errType: errors.ErrRemoteRead,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mockrelease.NewMockRepository(ctrl)
			tc.buildStubs(repo)

			notes, err := release.NewChangelog(repo).Generate(t.Context(), "master", tc.stable)
			if tc.errType != "" {
				require.Error(t, err)
				require.True(t, errors.IsErrorType(err, tc.errType), "got %v", err)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, notes); diff != "" {
				t.Errorf("changelog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChangelogKeepsOrderUnderConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockrelease.NewMockRepository(ctrl)

	var commits []release.Commit
	expected := "Changelog:\n\n"
	for n := 1; n <= 20; n++ {
		commits = append(commits, release.Commit{
			SHA:     fmt.Sprintf("c%d", n),
			Message: fmt.Sprintf("Merge pull request #%d from acme/b%d", n, n),
		})
		expected += fmt.Sprintf("* PR %d (#%d)\n", n, n)
	}

	repo.EXPECT().ListReleases(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ListCommits(gomock.Any(), "main", gomock.Any()).Return(commits, nil)
	repo.EXPECT().PullRequestTitle(gomock.Any(), gomock.Any()).Times(20).
		DoAndReturn(func(_ context.Context, n int) (string, error) {
			// later pull requests answer first
			time.Sleep(time.Duration(20-n) * time.Millisecond)
			return fmt.Sprintf("PR %d", n), nil
		})

	notes, err := release.NewChangelog(repo, release.WithConcurrency(8)).Generate(t.Context(), "main", true)
	require.NoError(t, err)
	require.Equal(t, expected, notes)
}

func TestBaseline(t *testing.T) {
	got, ok := release.Baseline(releases, true)
	require.True(t, ok)
	require.Equal(t, "1.1.0", got.Tag)

	got, ok = release.Baseline(releases, false)
	require.True(t, ok)
	require.Equal(t, "2.0.0-RC1", got.Tag)

	_, ok = release.Baseline(releases[:1], true)
	require.False(t, ok)
}

func TestMergedPullRequests(t *testing.T) {
	commits := []release.Commit{
		{Message: "Merge pull request #12 from acme/feature"},
		{Message: "Merge branch 'master' into dev"},
		{Message: "Merge pull request #abc from acme/odd"},
		{Message: "Merge pull request #"},
		{Message: "Revert \"Merge pull request #3 from acme/x\""},
		{Message: "Merge pull request #7 from acme/fix\n\nFix the thing"},
	}

	require.Equal(t, []int{12, 7}, release.MergedPullRequests(commits))
	require.Nil(t, release.MergedPullRequests(plainCommits))
}
