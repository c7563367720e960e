package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
	"github.com/aledsdavies/releasebuilder/pkgs/modifier"
	"github.com/aledsdavies/releasebuilder/pkgs/release"
	"github.com/aledsdavies/releasebuilder/pkgs/tokens"
)

// stdinPath reads the source from standard input
const stdinPath = "-"

func (a *app) constantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constant",
		Short: "Read or change constants in a local PHP file",
	}
	cmd.AddCommand(a.constantSetCmd(), a.constantGetCmd())
	return cmd
}

func (a *app) constantSetCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "set <file>::<CONSTANT> <value>",
		Short: "Set a constant and print the resulting source",
		Long: `Set every declaration of a constant to a new value.

String values are written single-quoted, numeric values and array(...)
literals as given. The rest of the file is kept byte for byte. Use - as the
file to read standard input.`,
		Example: "  releasebuilder constant set src/Application.php::VERSION 1.0.0 --write",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := release.ParseVersionConstant(args[0])
			if err != nil {
				return err
			}
			if write && target.File == stdinPath {
				return errors.NewInvalidArgumentError("write", "--write needs a file, not standard input")
			}

			source, err := readSource(cmd.InOrStdin(), target.File)
			if err != nil {
				return err
			}

			c := a.collect(target.File, source)
			rewritten, result := modifier.Rewrite(c, target.Constant, args[1])
			if result.Outcome == modifier.OutcomeNotFound {
				suggestions := modifier.Suggest(target.Constant, modifier.Constants(c))
				return errors.NewConstantNotFoundError(target.Constant, suggestions).
					WithContext("file", target.File)
			}

			a.logger.Debug("Rewrote constant",
				zap.String("file", target.File),
				zap.String("constant", target.Constant),
				zap.Stringer("outcome", result.Outcome),
				zap.Int("matches", result.Matches),
				zap.Int("values", result.Values))

			if !write {
				_, err := io.WriteString(cmd.OutOrStdout(), rewritten.Assemble())
				return err
			}

			if result.Outcome == modifier.OutcomeUpdated {
				if err := writeSource(target.File, rewritten.Assemble()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", target.File, target.Constant,
				Colorize(result.Outcome.String(), successStyle, a.useColor()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file instead of printing it")
	return cmd
}

func (a *app) constantGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> [CONSTANT]",
		Short: "List the constants declared in a file, or print one constant's value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			constants := modifier.Constants(a.collect(args[0], source))
			w := cmd.OutOrStdout()

			if len(args) == 2 {
				name := args[1]
				for _, c := range constants {
					if c.Name == name {
						fmt.Fprintln(w, c.Value)
						return nil
					}
				}
				return errors.NewConstantNotFoundError(name, modifier.Suggest(name, constants)).
					WithContext("file", args[0])
			}

			useColor := a.useColor()
			for _, c := range constants {
				fmt.Fprintf(w, "%s = %s %s\n", c.Name, c.Value,
					Colorize(fmt.Sprintf("(line %d)", c.Position.Line), mutedStyle, useColor))
			}
			return nil
		},
	}
}

func readSource(stdin io.Reader, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.NewInputError("failed to read standard input", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &CLIError{
			Message: "failed to read " + path,
			Details: err.Error(),
			Hint:    "Use - as the file to read the source from standard input",
		}
	}
	return string(data), nil
}

// collect lexes source, logging how many tokens of each category it held
func (a *app) collect(path, source string) *tokens.Collection {
	opts := []lexer.Opt{lexer.WithTelemetry()}
	if !lexer.ContainsOpenTag(source) {
		opts = append(opts, lexer.WithPHPMode())
	}
	lx := lexer.New(source, opts...)
	c := tokens.FromTokens(lx.Tokens())

	if ce := a.logger.Check(zap.DebugLevel, "Lexed source"); ce != nil {
		fields := []zap.Field{zap.String("file", path), zap.Int("tokens", c.Len())}
		for category, count := range lx.Telemetry() {
			fields = append(fields, zap.Int(category.String(), count))
		}
		ce.Write(fields...)
	}
	return c
}

// writeSource replaces path's content, keeping its permissions
func writeSource(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrOutputWrite, "failed to stat "+path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return errors.Wrap(errors.ErrOutputWrite, "failed to write "+path, err)
	}
	return nil
}
