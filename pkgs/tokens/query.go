package tokens

import (
	"iter"

	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
)

// Query selects tokens matching every configured predicate.
// The zero Query matches all tokens.
type Query struct {
	predicates []func(lexer.Token) bool
}

// NewQuery creates an empty query
func NewQuery() *Query {
	return &Query{}
}

// CategoryIs restricts the query to tokens of any of the given categories
func (q *Query) CategoryIs(categories ...lexer.Category) *Query {
	q.predicates = append(q.predicates, func(tok lexer.Token) bool {
		for _, c := range categories {
			if tok.Category == c {
				return true
			}
		}
		return false
	})
	return q
}

// TypeIs restricts the query to tokens of any of the given types
func (q *Query) TypeIs(types ...lexer.TokenType) *Query {
	q.predicates = append(q.predicates, func(tok lexer.Token) bool {
		for _, t := range types {
			if tok.Type == t {
				return true
			}
		}
		return false
	})
	return q
}

// TextIs restricts the query to tokens whose text equals any of values
func (q *Query) TextIs(values ...string) *Query {
	q.predicates = append(q.predicates, func(tok lexer.Token) bool {
		for _, v := range values {
			if tok.Text == v {
				return true
			}
		}
		return false
	})
	return q
}

// Matches reports whether tok satisfies every predicate
func (q *Query) Matches(tok lexer.Token) bool {
	for _, p := range q.predicates {
		if !p(tok) {
			return false
		}
	}
	return true
}

// Find lazily yields the tokens matching q in ascending index order.
// Tokens are read when yielded, so text replaced mid-iteration is visible.
func (c *Collection) Find(q *Query) iter.Seq[lexer.Token] {
	return func(yield func(lexer.Token) bool) {
		for i := 0; i < len(c.tokens); i++ {
			if q.Matches(c.tokens[i]) && !yield(c.tokens[i]) {
				return
			}
		}
	}
}

// FindAll lazily yields every token of category in ascending index order
func FindAll(c *Collection, category lexer.Category) iter.Seq[lexer.Token] {
	return c.Find(NewQuery().CategoryIs(category))
}
