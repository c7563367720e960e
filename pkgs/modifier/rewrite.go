package modifier

import (
	"github.com/aledsdavies/releasebuilder/pkgs/invariant"
	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
	"github.com/aledsdavies/releasebuilder/pkgs/tokens"
)

// scanState is the state of the forward scan over one declaration
type scanState int

const (
	stateScanning  scanState = iota // looking for the constant's name
	stateNameFound                  // rewriting every value token until the terminator
	stateDone                       // terminator reached
)

func (s scanState) String() string {
	switch s {
	case stateScanning:
		return "Scanning"
	case stateNameFound:
		return "NameFound"
	case stateDone:
		return "Done"
	default:
		return "unknown"
	}
}

// Rewrite returns a copy of c in which every declaration of constant name
// carries value. c is only read.
func Rewrite(c *tokens.Collection, name, value string) (*tokens.Collection, Result) {
	invariant.NotNil(c, "collection")

	out := c.Clone()
	var result Result
	changed := 0

	for decl := range tokens.FindAll(c, lexer.DeclarationKeyword) {
		s := &declScanner{src: c, dst: out, name: name, value: value}
		s.scan(decl.Index)

		if s.matched {
			result.Matches++
		}
		result.Values += s.values
		changed += s.changed
	}

	switch {
	case result.Matches == 0:
		result.Outcome = OutcomeNotFound
	case changed == 0:
		result.Outcome = OutcomeUnchanged
	default:
		result.Outcome = OutcomeUpdated
	}

	invariant.Postcondition(out.Len() == c.Len(), "rewrite must keep the token count: %d -> %d", c.Len(), out.Len())
	return out, result
}

// declScanner walks one declaration, reading src and writing dst.
// Both collections hold the same token indices.
type declScanner struct {
	src, dst    *tokens.Collection
	name, value string

	state   scanState
	matched bool
	values  int
	changed int
}

func (s *declScanner) scan(start int) {
	for i := start; s.state != stateDone; i++ {
		tok, ok := s.src.NextFrom(i)
		if !ok {
			return
		}
		next := s.step(tok)
		invariant.Invariant(next >= i, "scan must not move backwards: %d -> %d", i, next)
		i = next
	}
}

// step applies one transition and returns the index of the last token it
// consumed
func (s *declScanner) step(tok lexer.Token) int {
	if tok.IsTerminator() {
		s.state = stateDone
		return tok.Index
	}

	switch s.state {
	case stateScanning:
		if tok.Category == lexer.Identifier && tok.Text == s.name {
			s.state = stateNameFound
			s.matched = true
		}
	case stateNameFound:
		if tok.IsValueBearing() {
			return s.rewriteValue(tok)
		}
	}
	return tok.Index
}

// rewriteValue serializes the new value according to the literal kind it
// replaces
func (s *declScanner) rewriteValue(tok lexer.Token) int {
	switch tok.Category {
	case lexer.QuotedString:
		s.replace(tok.Index, tok.Index, "'"+s.value+"'")
	case lexer.NumericLiteral:
		s.replace(tok.Index, tok.Index, s.value)
	case lexer.ArrayKeyword:
		end := s.arrayEnd(tok.Index)
		s.replace(tok.Index, end, s.value)
		return end
	default:
		invariant.Invariant(false, "no value rule for category %s", tok.Category)
	}
	return tok.Index
}

// arrayEnd returns the index of the parenthesis closing the group that
// follows the array keyword at kw, or kw itself when there is no balanced
// group
func (s *declScanner) arrayEnd(kw int) int {
	i := kw + 1
	for {
		tok, ok := s.src.NextFrom(i)
		if !ok {
			return kw
		}
		if tok.Category == lexer.Trivia {
			i++
			continue
		}
		if tok.Type != lexer.PUNCTUATION || tok.Text != "(" {
			return kw
		}
		break
	}

	depth := 0
	for ; ; i++ {
		tok, ok := s.src.NextFrom(i)
		if !ok {
			return kw
		}
		if tok.Type == lexer.PUNCTUATION {
			switch tok.Text {
			case "(", "[":
				depth++
			case ")", "]":
				depth--
			}
		}
		if depth == 0 {
			return i
		}
	}
}

// replace writes text into token from and blanks tokens (from, to]
func (s *declScanner) replace(from, to int, text string) {
	invariant.InRange(from, 0, s.src.Len()-1, "replace start")
	invariant.InRange(to, from, s.src.Len()-1, "replace end")

	original := ""
	for i := from; i <= to; i++ {
		tok, err := s.src.ByIndex(i)
		invariant.Invariant(err == nil, "read token %d: %v", i, err)
		original += tok.Text

		next := ""
		if i == from {
			next = text
		}
		err = s.dst.Replace(i, next)
		invariant.Invariant(err == nil, "replace token %d: %v", i, err)
	}

	s.values++
	if original != text {
		s.changed++
	}
}
