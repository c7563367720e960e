package modifier

import (
	"strings"

	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
	"github.com/aledsdavies/releasebuilder/pkgs/tokens"
)

// Constant is one `NAME = value` declarator of a const statement
type Constant struct {
	Name     string
	Value    string // literal source text of the value, trimmed
	Position lexer.Position
}

// Constants lists every constant declarator in c in source order.
// `const A = 1, B = 2;` yields two constants.
func Constants(c *tokens.Collection) []Constant {
	var out []Constant
	for decl := range tokens.FindAll(c, lexer.DeclarationKeyword) {
		out = append(out, declarators(c, decl.Index)...)
	}
	return out
}

// declarators collects the declarators of the const statement starting at
// start. The name of a declarator is the last identifier before its `=`,
// which skips a type in `const string NAME = ...`.
func declarators(c *tokens.Collection, start int) []Constant {
	var (
		out     []Constant
		name    lexer.Token
		named   bool
		current *Constant
		value   strings.Builder
		depth   int
	)

	flush := func() {
		if current != nil {
			current.Value = strings.TrimSpace(value.String())
			out = append(out, *current)
		}
		current = nil
		named = false
		value.Reset()
	}

	for i := start + 1; ; i++ {
		tok, ok := c.NextFrom(i)
		if !ok || tok.IsTerminator() {
			flush()
			return out
		}

		if current == nil {
			switch {
			case tok.Category == lexer.Identifier:
				name, named = tok, true
			case tok.Type == lexer.PUNCTUATION && tok.Text == "=" && named:
				current = &Constant{Name: name.Text, Position: name.Position}
			}
			continue
		}

		if tok.Type == lexer.PUNCTUATION {
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ",":
				if depth == 0 {
					flush()
					continue
				}
			}
		}
		value.WriteString(tok.Text)
	}
}
