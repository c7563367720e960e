package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aledsdavies/releasebuilder/internal/committer"
	"github.com/aledsdavies/releasebuilder/internal/credentials"
	"github.com/aledsdavies/releasebuilder/internal/github"
	"github.com/aledsdavies/releasebuilder/pkgs/release"
)

func (a *app) buildCmd() *cobra.Command {
	var (
		versionConstant string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "build <owner/repository> <version> <development-version>",
		Short: "Create a GitHub release",
		Long: `Create a GitHub release of a repository.

With --version-constant the constant is set to <version> before the release
is tagged and to <development-version> afterwards, each with its own commit.
Versions containing a "-" (for example 1.0.0-RC1) are published as
prereleases.`,
		Example: "  releasebuilder build acme/console 1.0.0 1.1.0-dev --version-constant src/Application.php::VERSION",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := release.ParseRepository(args[0])
			if err != nil {
				return err
			}

			plan := release.Plan{
				Version:    args[1],
				DevVersion: args[2],
				Branch:     a.cfg.Branch,
				DryRun:     dryRun,
			}
			if versionConstant != "" {
				vc, err := release.ParseVersionConstant(versionConstant)
				if err != nil {
					return err
				}
				plan.VersionFile, plan.VersionConstant = vc.File, vc.Constant
			}

			token := a.cfg.Token
			if token == "" {
				prompter := credentials.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
				token, err = prompter.Resolve(credentials.NewStore(a.configDir()))
				if err != nil {
					return err
				}
			}

			plan.Committer, err = committer.Lookup(cmd.Context(), a.git)
			if err != nil {
				return err
			}

			var opts []github.Opt
			if a.cfg.APIURL != "" {
				opts = append(opts, github.WithBaseURL(a.cfg.APIURL))
			}
			remote, err := github.New(repo, token, opts...)
			if err != nil {
				return err
			}

			a.logger.Info("Building release",
				zap.Stringer("repository", repo),
				zap.String("version", plan.Version),
				zap.String("development_version", plan.DevVersion),
				zap.String("branch", plan.Branch),
				zap.Bool("dry_run", plan.DryRun))

			releaser := release.NewReleaser(remote,
				release.WithLogger(a.logger),
				release.WithConcurrency(a.cfg.Concurrency))
			out, err := releaser.Run(cmd.Context(), plan)
			if err != nil {
				return err
			}

			useColor := a.useColor()
			w := cmd.OutOrStdout()
			if plan.DryRun {
				fmt.Fprintf(w, "%s\n\n%s", Colorize("Dry run: release "+plan.Version+" not created", hintStyle, useColor), out.Changelog)
				return nil
			}
			fmt.Fprintf(w, "%s %s\n", Colorize("Created release "+out.Release.Tag, successStyle, useColor), out.Release.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&versionConstant, "version-constant", "", "Class file and constant to set the version in (for example src/Command/ReleaseCommand.php::VERSION)")
	cmd.Flags().String("branch", "master", "The branch to release")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changelog without writing anything")
	cmd.Flags().String("token", "", "GitHub token (default: stored token, asked for when missing)")
	cmd.Flags().String("api-url", "", "GitHub API URL, for GitHub Enterprise")
	cmd.Flags().Int("concurrency", 4, "Pull request titles fetched at once")

	return cmd
}
