// Package tokens holds the mutable token collection the rewriter works on
// and the structural queries that select tokens by lexical category.
package tokens

import (
	"iter"
	"strings"

	"github.com/aledsdavies/releasebuilder/pkgs/errors"
	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
)

// Collection is an ordered, randomly indexable token sequence built once
// from a source buffer. Tokens are never inserted or removed, so indices
// are stable for the collection's lifetime; only token text changes.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	tokens []lexer.Token
}

// New lexes source into a collection. Source without any PHP open tag is
// lexed as PHP code, so bare snippets such as `const A = 1;` work.
func New(source string) *Collection {
	var opts []lexer.Opt
	if !lexer.ContainsOpenTag(source) {
		opts = append(opts, lexer.WithPHPMode())
	}
	return FromTokens(lexer.Tokenize(source, opts...))
}

// FromTokens builds a collection over toks, renumbering their indices
func FromTokens(toks []lexer.Token) *Collection {
	c := &Collection{tokens: make([]lexer.Token, len(toks))}
	copy(c.tokens, toks)
	for i := range c.tokens {
		c.tokens[i].Index = i
	}
	return c
}

// Len returns the number of tokens
func (c *Collection) Len() int {
	return len(c.tokens)
}

// ByIndex returns the token at i, or an INDEX_OUT_OF_RANGE error
func (c *Collection) ByIndex(i int) (lexer.Token, error) {
	if i < 0 || i >= len(c.tokens) {
		return lexer.Token{}, errors.NewOutOfRangeError(i, len(c.tokens))
	}
	return c.tokens[i], nil
}

// NextFrom returns the token at i, or false once i is past the end.
// Forward scans call it with increasing i.
func (c *Collection) NextFrom(i int) (lexer.Token, bool) {
	if i < 0 || i >= len(c.tokens) {
		return lexer.Token{}, false
	}
	return c.tokens[i], true
}

// Replace sets the text of the token at i. No other token changes.
func (c *Collection) Replace(i int, text string) error {
	if i < 0 || i >= len(c.tokens) {
		return errors.NewOutOfRangeError(i, len(c.tokens))
	}
	c.tokens[i].Text = text
	return nil
}

// Assemble concatenates the current text of every token in index order
func (c *Collection) Assemble() string {
	size := 0
	for _, tok := range c.tokens {
		size += len(tok.Text)
	}

	var b strings.Builder
	b.Grow(size)
	for _, tok := range c.tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Clone returns an independent copy of the collection
func (c *Collection) Clone() *Collection {
	clone := &Collection{tokens: make([]lexer.Token, len(c.tokens))}
	copy(clone.tokens, c.tokens)
	return clone
}

// All yields every token in index order
func (c *Collection) All() iter.Seq[lexer.Token] {
	return func(yield func(lexer.Token) bool) {
		for _, tok := range c.tokens {
			if !yield(tok) {
				return
			}
		}
	}
}
