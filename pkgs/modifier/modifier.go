// Package modifier rewrites the value of PHP class constants while keeping
// every other byte of the source intact.
//
// Declarations are located structurally: every `const` keyword token starts
// a forward scan that looks for the constant's name and then rewrites each
// literal value token up to the statement terminator. Names inside strings,
// comments and heredocs are never touched because they are not identifier
// tokens.
package modifier

import (
	"fmt"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/tokens"
)

// Modifier changes something in PHP source and returns the updated source
type Modifier interface {
	Modify(name, value string) (string, Result, error)
}

// Outcome names what a rewrite did
type Outcome int

const (
	OutcomeNotFound  Outcome = iota // no const statement mentions the name; source returned as is
	OutcomeUnchanged                // declared, but every value already had the requested text
	OutcomeUpdated                  // at least one value token changed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not-found"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result summarizes a rewrite
type Result struct {
	Outcome Outcome
	Matches int // const statements in which the name appears as an identifier
	Values  int // value tokens rewritten, changed or not
}

// ConstantModifier changes the value of a named constant in its source
type ConstantModifier struct {
	source string
}

var _ Modifier = (*ConstantModifier)(nil)

// NewConstantModifier creates a modifier over source
func NewConstantModifier(source string) *ConstantModifier {
	return &ConstantModifier{source: source}
}

// Modify sets every declaration of constant name to value.
//
// String values are written single-quoted without escaping, numbers and
// array literals verbatim. A name that is not declared is not an error: the
// source comes back unchanged with OutcomeNotFound.
func (m *ConstantModifier) Modify(name, value string) (string, Result, error) {
	if name == "" {
		return m.source, Result{}, errors.NewInvalidArgumentError("name", "constant name must not be empty")
	}

	out, result := Rewrite(tokens.New(m.source), name, value)
	return out.Assemble(), result, nil
}

// Modify rewrites constant name in c and returns the assembled source.
// c itself is left unmodified.
func Modify(c *tokens.Collection, name, value string) string {
	out, _ := Rewrite(c, name, value)
	return out.Assemble()
}
