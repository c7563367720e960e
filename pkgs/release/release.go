package release

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/invariant"
	"github.com/aledsdavies/releasebuilder/pkgs/modifier"
)

const (
	releaseMessage     = "Updated version number for release"
	developmentMessage = "Updated version number for development"
)

// Plan describes one release
type Plan struct {
	Version    string // tag to create, e.g. 1.0.0 or 1.0.0-RC1
	DevVersion string // version the branch carries after the release
	Branch     string

	// VersionFile and VersionConstant locate the constant that carries the
	// version. Both empty means no version is written.
	VersionFile     string
	VersionConstant string

	Committer Committer
	DryRun    bool
}

// Stable reports whether the version is a stable release. Any "-" marks a
// prerelease such as 1.0.0-RC1.
func (p Plan) Stable() bool {
	return !strings.Contains(p.Version, "-")
}

func (p Plan) bumpsVersion() bool {
	return p.VersionFile != ""
}

// Outcome reports what a release run did
type Outcome struct {
	Release     Release
	Changelog   string
	VersionBump modifier.Outcome // rewrite of the release version
	DevBump     modifier.Outcome // rewrite of the development version
}

// Releaser runs the release steps against a repository
type Releaser struct {
	repo      Repository
	changelog *Changelog
	opts      options
}

// NewReleaser creates a releaser for repo
func NewReleaser(repo Repository, opts ...Option) *Releaser {
	invariant.NotNil(repo, "repo")
	return &Releaser{
		repo:      repo,
		changelog: NewChangelog(repo, opts...),
		opts:      newOptions(opts),
	}
}

// Run sets the version constant to the release version, creates the release
// with a generated changelog and then sets the constant to the development
// version. The first failing step aborts the run.
func (r *Releaser) Run(ctx context.Context, plan Plan) (Outcome, error) {
	invariant.ContextNotBackground(ctx, "Releaser.Run")
	invariant.Precondition(plan.Version != "", "release version must not be empty")
	invariant.Precondition(!plan.bumpsVersion() || plan.VersionConstant != "",
		"version file %q set without a constant", plan.VersionFile)

	log := r.opts.logger.With(zap.String("version", plan.Version), zap.String("branch", plan.Branch))
	stable := plan.Stable()
	var out Outcome

	if plan.bumpsVersion() {
		outcome, err := r.setVersion(ctx, plan, plan.Version, releaseMessage)
		if err != nil {
			return out, err
		}
		out.VersionBump = outcome
	}

	notes, err := r.changelog.Generate(ctx, plan.Branch, stable)
	if err != nil {
		return out, err
	}
	out.Changelog = notes

	req := ReleaseRequest{
		Tag:        plan.Version,
		Target:     plan.Branch,
		Name:       "Release " + plan.Version,
		Body:       notes,
		Draft:      false,
		Prerelease: !stable,
	}
	if plan.DryRun {
		log.Info("Dry run, not creating release",
			zap.String("name", req.Name),
			zap.Bool("prerelease", req.Prerelease))
	} else {
		created, err := r.repo.CreateRelease(ctx, req)
		if err != nil {
			return out, errors.Wrap(errors.ErrReleaseCreate, "failed to create release "+plan.Version, err).
				WithContext("tag", plan.Version)
		}
		out.Release = created
		log.Info("Created release", zap.Int64("id", created.ID), zap.String("url", created.URL))
	}

	if plan.bumpsVersion() && plan.DevVersion != "" {
		outcome, err := r.setVersion(ctx, plan, plan.DevVersion, developmentMessage)
		if err != nil {
			return out, err
		}
		out.DevBump = outcome
	}

	return out, nil
}

// setVersion rewrites the version constant to version and commits the file
func (r *Releaser) setVersion(ctx context.Context, plan Plan, version, message string) (modifier.Outcome, error) {
	log := r.opts.logger.With(
		zap.String("file", plan.VersionFile),
		zap.String("constant", plan.VersionConstant),
		zap.String("value", version))

	file, err := r.repo.ReadFile(ctx, plan.VersionFile, plan.Branch)
	if err != nil {
		return modifier.OutcomeNotFound, errors.NewRemoteReadError(plan.VersionFile, err)
	}

	content, result, err := modifier.NewConstantModifier(file.Content).Modify(plan.VersionConstant, version)
	if err != nil {
		return modifier.OutcomeNotFound, err
	}

	switch result.Outcome {
	case modifier.OutcomeNotFound:
		log.Warn("Version constant not declared, file left as is")
		return result.Outcome, nil
	case modifier.OutcomeUnchanged:
		log.Info("Version constant already set")
		return result.Outcome, nil
	}

	if plan.DryRun {
		log.Info("Dry run, not writing version", zap.String("message", message))
		return result.Outcome, nil
	}

	err = r.repo.WriteFile(ctx, FileUpdate{
		Path:      plan.VersionFile,
		Content:   content,
		Message:   message,
		Revision:  file.Revision,
		Branch:    plan.Branch,
		Committer: plan.Committer,
	})
	if err != nil {
		return result.Outcome, errors.NewRemoteWriteError(plan.VersionFile, err)
	}
	log.Info("Updated version", zap.String("message", message))
	return result.Outcome, nil
}
