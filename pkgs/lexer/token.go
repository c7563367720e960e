package lexer

import "fmt"

// TokenType is the fine-grained PHP token type
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Mode switches
	INLINE_HTML        // anything outside <?php ... ?>
	OPEN_TAG           // <?php
	OPEN_TAG_WITH_ECHO // <?=
	CLOSE_TAG          // ?>

	// Trivia
	WHITESPACE
	COMMENT           // // or #
	MULTILINE_COMMENT // /* */
	DOC_COMMENT       // /** */

	// Words
	CONST      // const
	ARRAY      // array
	KEYWORD    // class, public, function, ...
	IDENTIFIER // VERSION, true, self, Foo
	VARIABLE   // $name

	// Literals
	STRING              // 'x' or "x" without interpolation
	INTERPOLATED_STRING // "x $y"
	BACKTICK            // `cmd`
	HEREDOC             // <<<EOT ... EOT
	NOWDOC              // <<<'EOT' ... EOT
	INTEGER             // 8080, 0x1F, 0b101, 0o17, 1_000
	FLOAT               // 1.5, .5, 1e3

	// Punctuation
	SEMICOLON   // ;
	ATTRIBUTE   // #[
	PUNCTUATION // operators and brackets
)

var tokenNames = [...]string{
	EOF:                 "EOF",
	ILLEGAL:             "ILLEGAL",
	INLINE_HTML:         "INLINE_HTML",
	OPEN_TAG:            "OPEN_TAG",
	OPEN_TAG_WITH_ECHO:  "OPEN_TAG_WITH_ECHO",
	CLOSE_TAG:           "CLOSE_TAG",
	WHITESPACE:          "WHITESPACE",
	COMMENT:             "COMMENT",
	MULTILINE_COMMENT:   "MULTILINE_COMMENT",
	DOC_COMMENT:         "DOC_COMMENT",
	CONST:               "CONST",
	ARRAY:               "ARRAY",
	KEYWORD:             "KEYWORD",
	IDENTIFIER:          "IDENTIFIER",
	VARIABLE:            "VARIABLE",
	STRING:              "STRING",
	INTERPOLATED_STRING: "INTERPOLATED_STRING",
	BACKTICK:            "BACKTICK",
	HEREDOC:             "HEREDOC",
	NOWDOC:              "NOWDOC",
	INTEGER:             "INTEGER",
	FLOAT:               "FLOAT",
	SEMICOLON:           "SEMICOLON",
	ATTRIBUTE:           "ATTRIBUTE",
	PUNCTUATION:         "PUNCTUATION",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Category is the coarse lexical class the rewriter works with.
// Every TokenType maps to exactly one Category.
type Category int

const (
	Other              Category = iota // inline HTML, tags, variables, keywords, non-constant strings
	DeclarationKeyword                 // const
	Identifier                         // names
	QuotedString                       // constant single- or double-quoted strings
	NumericLiteral                     // integers and floats
	ArrayKeyword                       // array
	Punctuation                        // ; operators brackets
	Trivia                             // whitespace and comments
)

var categoryNames = [...]string{
	Other:              "Other",
	DeclarationKeyword: "DeclarationKeyword",
	Identifier:         "Identifier",
	QuotedString:       "QuotedString",
	NumericLiteral:     "NumericLiteral",
	ArrayKeyword:       "ArrayKeyword",
	Punctuation:        "Punctuation",
	Trivia:             "Trivia",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) && int(c) >= 0 {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// CategoryOf maps a token type to its category
func CategoryOf(t TokenType) Category {
	switch t {
	case CONST:
		return DeclarationKeyword
	case IDENTIFIER:
		return Identifier
	case STRING:
		return QuotedString
	case INTEGER, FLOAT:
		return NumericLiteral
	case ARRAY:
		return ArrayKeyword
	case SEMICOLON, ATTRIBUTE, PUNCTUATION:
		return Punctuation
	case WHITESPACE, COMMENT, MULTILINE_COMMENT, DOC_COMMENT:
		return Trivia
	default:
		return Other
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, in runes
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token. Text is the exact source slice the token covers;
// concatenating Text over a token stream reproduces the input.
type Token struct {
	Type     TokenType
	Category Category
	Text     string
	Index    int // position in the owning token stream
	Position Position
}

// String returns the token text
func (t Token) String() string {
	return t.Text
}

// IsTerminator reports whether the token ends a PHP statement.
// A close tag implies a semicolon.
func (t Token) IsTerminator() bool {
	return t.Type == SEMICOLON || t.Type == CLOSE_TAG
}

// IsValueBearing reports whether the token holds a literal value the
// rewriter may replace
func (t Token) IsValueBearing() bool {
	switch t.Category {
	case QuotedString, NumericLiteral, ArrayKeyword:
		return true
	default:
		return false
	}
}

// keywords lists PHP reserved words, lowercased. true, false and null are
// plain names in PHP and therefore absent.
var keywords = map[string]TokenType{
	"const": CONST,
	"array": ARRAY,

	"abstract": KEYWORD, "and": KEYWORD, "as": KEYWORD, "break": KEYWORD,
	"callable": KEYWORD, "case": KEYWORD, "catch": KEYWORD, "class": KEYWORD,
	"clone": KEYWORD, "continue": KEYWORD, "declare": KEYWORD, "default": KEYWORD,
	"die": KEYWORD, "do": KEYWORD, "echo": KEYWORD, "else": KEYWORD,
	"elseif": KEYWORD, "empty": KEYWORD, "enddeclare": KEYWORD, "endfor": KEYWORD,
	"endforeach": KEYWORD, "endif": KEYWORD, "endswitch": KEYWORD, "endwhile": KEYWORD,
	"eval": KEYWORD, "exit": KEYWORD, "extends": KEYWORD, "final": KEYWORD,
	"finally": KEYWORD, "fn": KEYWORD, "for": KEYWORD, "foreach": KEYWORD,
	"function": KEYWORD, "global": KEYWORD, "goto": KEYWORD, "if": KEYWORD,
	"implements": KEYWORD, "include": KEYWORD, "include_once": KEYWORD, "instanceof": KEYWORD,
	"insteadof": KEYWORD, "interface": KEYWORD, "isset": KEYWORD, "list": KEYWORD,
	"match": KEYWORD, "namespace": KEYWORD, "new": KEYWORD, "or": KEYWORD,
	"print": KEYWORD, "private": KEYWORD, "protected": KEYWORD, "public": KEYWORD,
	"readonly": KEYWORD, "require": KEYWORD, "require_once": KEYWORD, "return": KEYWORD,
	"static": KEYWORD, "switch": KEYWORD, "throw": KEYWORD, "trait": KEYWORD,
	"try": KEYWORD, "unset": KEYWORD, "use": KEYWORD, "var": KEYWORD,
	"while": KEYWORD, "xor": KEYWORD, "yield": KEYWORD,
	"__class__": KEYWORD, "__dir__": KEYWORD, "__file__": KEYWORD, "__function__": KEYWORD,
	"__line__": KEYWORD, "__method__": KEYWORD, "__namespace__": KEYWORD, "__trait__": KEYWORD,
	"__halt_compiler": KEYWORD,
}
