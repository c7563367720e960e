package tokens

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
)

func collect(seq func(func(lexer.Token) bool)) []string {
	var out []string
	for tok := range seq {
		out = append(out, tok.Text)
	}
	return out
}

func indices(seq func(func(lexer.Token) bool)) []int {
	var out []int
	for tok := range seq {
		out = append(out, tok.Index)
	}
	return out
}

func TestFindAllDeclarationKeywords(t *testing.T) {
	src := `<?php
// const COMMENTED = 1;
class C {
    const A = 'const B = 2;';
    CONST B = 2;
    public function const() {}
}
`
	c := New(src)

	got := collect(FindAll(c, lexer.DeclarationKeyword))
	if diff := cmp.Diff([]string{"const", "CONST"}, got); diff != "" {
		t.Errorf("declaration keywords mismatch (-want +got):\n%s", diff)
	}

	idx := indices(FindAll(c, lexer.DeclarationKeyword))
	if len(idx) != 2 || idx[0] >= idx[1] {
		t.Errorf("expected two ascending indices, got %v", idx)
	}
}

func TestQueryCombinesPredicates(t *testing.T) {
	c := New("<?php const A = 1, B = 'b'; const C = A;")

	q := NewQuery().CategoryIs(lexer.Identifier).TextIs("A")
	got := collect(c.Find(q))
	if diff := cmp.Diff([]string{"A", "A"}, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	values := collect(c.Find(NewQuery().CategoryIs(lexer.QuotedString, lexer.NumericLiteral)))
	if diff := cmp.Diff([]string{"1", "'b'"}, values); diff != "" {
		t.Errorf("value query mismatch (-want +got):\n%s", diff)
	}

	terminators := collect(c.Find(NewQuery().TypeIs(lexer.SEMICOLON)))
	if len(terminators) != 2 {
		t.Errorf("expected 2 semicolons, got %v", terminators)
	}
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	c := New("<?php const A = 1;")
	if got := len(collect(c.Find(NewQuery()))); got != c.Len() {
		t.Errorf("expected %d tokens, got %d", c.Len(), got)
	}
}

func TestFindIsLazy(t *testing.T) {
	c := New("<?php const A = 1; const B = 2;")

	var seen []string
	for tok := range FindAll(c, lexer.NumericLiteral) {
		seen = append(seen, tok.Text)
		// Rewriting a later token mid-iteration is observed by the query
		if tok.Index == 7 {
			if err := c.Replace(16, "9"); err != nil {
				t.Fatalf("replace: %v", err)
			}
		}
	}
	if diff := cmp.Diff([]string{"1", "9"}, seen); diff != "" {
		t.Errorf("lazy iteration mismatch (-want +got):\n%s", diff)
	}
}
