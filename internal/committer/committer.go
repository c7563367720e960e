// Package committer reads the git identity used for release commits.
package committer

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/release"
)

// Runner runs a git subcommand and returns its standard output
type Runner func(ctx context.Context, args ...string) (string, error)

// Git runs the git binary on PATH. Without git on PATH it reports empty
// output, the same as an unset key.
func Git(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return "", nil
		}
		// git config exits 1 for an unset key
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			return "", nil
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Lookup returns user.name and user.email from git config. Unset values are
// empty, which lets the remote fall back to the token's owner.
func Lookup(ctx context.Context, run Runner) (release.Committer, error) {
	if run == nil {
		run = Git
	}

	name, err := run(ctx, "config", "user.name")
	if err != nil {
		return release.Committer{}, errors.Wrap(errors.ErrCommitter, "failed to read user.name", err)
	}
	email, err := run(ctx, "config", "user.email")
	if err != nil {
		return release.Committer{}, errors.Wrap(errors.ErrCommitter, "failed to read user.email", err)
	}

	return release.Committer{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}, nil
}
