package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/aledsdavies/releasebuilder/pkgs/invariant"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace [128]bool
	isDigit      [128]bool
	isHexDigit   [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		isDigit[i] = '0' <= ch && ch <= '9'
		isHexDigit[i] = isDigit[i] || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

// PHP names may contain any byte >= 0x80
func identStart(ch byte) bool { return ch >= 0x80 || isIdentStart[ch] }
func identPart(ch byte) bool  { return ch >= 0x80 || isIdentPart[ch] }
func digit(ch byte) bool      { return ch < 0x80 && isDigit[ch] }
func space(ch byte) bool      { return ch < 0x80 && isWhitespace[ch] }

// Operators, matched longest first
var (
	operators3 = []string{"<<=", ">>=", "**=", "...", "<=>", "===", "!==", "??=", "?->"}
	operators2 = []string{
		"::", "->", "=>", "++", "--", "==", "!=", "<>", "<=", ">=", "&&", "||", "??",
		"+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	}
)

const operators1 = "()[]{},.+-*/%=<>!?:&|^~@\\$"

// Opt represents a lexer configuration option
type Opt func(*Config)

// Config holds lexer configuration
type Config struct {
	telemetry bool
	phpMode   bool
}

// WithPHPMode starts lexing inside PHP code instead of inline HTML, for
// snippets that carry no open tag
func WithPHPMode() Opt {
	return func(c *Config) {
		c.phpMode = true
	}
}

// WithTelemetry enables per-category token counts
func WithTelemetry() Opt {
	return func(c *Config) {
		c.telemetry = true
	}
}

// Lexer splits PHP source into tokens without dropping a single byte.
// It starts outside PHP mode, so leading text before <?php is inline HTML.
type Lexer struct {
	input  string
	pos    int // byte offset of the next unread byte
	line   int
	column int
	index  int // index assigned to the next token

	inPHP bool
	prev  Token // last non-trivia token, drives context-sensitive names

	// const statement tracking: in the head of each `const [type] NAME`
	// declarator, words are never keywords
	inConst       bool
	constDepth    int
	constAssigned bool

	telemetry map[Category]int // nil unless WithTelemetry
}

// New creates a lexer over input
func New(input string, opts ...Opt) *Lexer {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	l := &Lexer{
		input:  input,
		line:   1,
		column: 1,
		inPHP:  config.phpMode,
	}
	if config.telemetry {
		l.telemetry = make(map[Category]int)
	}
	return l
}

// Tokenize lexes input and returns every token except the trailing EOF
func Tokenize(input string, opts ...Opt) []Token {
	return New(input, opts...).Tokens()
}

// ContainsOpenTag reports whether input switches into PHP mode anywhere
func ContainsOpenTag(input string) bool {
	return findOpenTag(input) >= 0
}

// Tokens drains the lexer, excluding the trailing EOF
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Telemetry returns a copy of the per-category token counts, or nil when
// telemetry is disabled
func (l *Lexer) Telemetry() map[Category]int {
	if l.telemetry == nil {
		return nil
	}
	result := make(map[Category]int, len(l.telemetry))
	for k, v := range l.telemetry {
		result[k] = v
	}
	return result
}

// NextToken returns the next token; EOF once the input is exhausted
func (l *Lexer) NextToken() Token {
	start := Position{Line: l.line, Column: l.column, Offset: l.pos}
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Category: Other, Index: l.index, Position: start}
	}

	typ := l.lexToken()
	invariant.Invariant(l.pos > start.Offset, "lexer must consume input at offset %d", start.Offset)

	tok := Token{
		Type:     typ,
		Category: CategoryOf(typ),
		Text:     l.input[start.Offset:l.pos],
		Index:    l.index,
		Position: start,
	}
	l.index++
	l.advancePosition(tok.Text)

	if tok.Category != Trivia {
		l.trackConst(tok)
		l.prev = tok
	}
	if l.telemetry != nil {
		l.telemetry[tok.Category]++
	}
	return tok
}

func (l *Lexer) advancePosition(text string) {
	for _, r := range text {
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.input) {
		return l.input[l.pos+n]
	}
	return 0
}

// lexToken consumes one token and returns its type
func (l *Lexer) lexToken() TokenType {
	if !l.inPHP {
		return l.lexInlineHTML()
	}

	ch := l.input[l.pos]
	switch {
	case space(ch):
		for l.pos < len(l.input) && space(l.input[l.pos]) {
			l.pos++
		}
		return WHITESPACE
	case ch == '#':
		if l.peek(1) == '[' {
			l.pos += 2
			return ATTRIBUTE
		}
		return l.lexLineComment()
	case ch == '/' && l.peek(1) == '/':
		return l.lexLineComment()
	case ch == '/' && l.peek(1) == '*':
		return l.lexBlockComment()
	case ch == '?' && l.peek(1) == '>':
		return l.lexCloseTag()
	case ch == '\'':
		return l.lexQuoted('\'', STRING)
	case ch == '`':
		return l.lexQuoted('`', BACKTICK)
	case ch == '"':
		return l.lexDoubleQuoted()
	case ch == '$' && identStart(l.peek(1)):
		l.pos++
		for l.pos < len(l.input) && identPart(l.input[l.pos]) {
			l.pos++
		}
		return VARIABLE
	case ch == '<' && strings.HasPrefix(l.input[l.pos:], "<<<"):
		if typ, ok := l.lexHeredoc(); ok {
			return typ
		}
		return l.lexOperator()
	case digit(ch), ch == '.' && digit(l.peek(1)):
		return l.lexNumber()
	case identStart(ch):
		return l.lexWord()
	case ch == ';':
		l.pos++
		return SEMICOLON
	default:
		return l.lexOperator()
	}
}

// lexInlineHTML consumes text up to the next open tag, or the open tag itself
func (l *Lexer) lexInlineHTML() TokenType {
	rest := l.input[l.pos:]
	at := findOpenTag(rest)
	switch {
	case at < 0:
		l.pos = len(l.input)
		return INLINE_HTML
	case at > 0:
		l.pos += at
		return INLINE_HTML
	}

	l.inPHP = true
	if strings.HasPrefix(rest, "<?=") {
		l.pos += 3
		return OPEN_TAG_WITH_ECHO
	}

	// A single whitespace character after <?php belongs to the tag
	l.pos += len("<?php")
	if strings.HasPrefix(l.input[l.pos:], "\r\n") {
		l.pos += 2
	} else if l.pos < len(l.input) && space(l.input[l.pos]) {
		l.pos++
	}
	return OPEN_TAG
}

// findOpenTag returns the offset of the first <?php or <?= in s, or -1
func findOpenTag(s string) int {
	from := 0
	for {
		i := strings.Index(s[from:], "<?")
		if i < 0 {
			return -1
		}
		at := from + i
		if strings.HasPrefix(s[at:], "<?=") {
			return at
		}
		end := at + len("<?php")
		if end <= len(s) && strings.EqualFold(s[at:end], "<?php") && (end == len(s) || space(s[end])) {
			return at
		}
		from = at + 2
	}
}

// lexLineComment consumes a // or # comment up to, not including, the
// newline or a close tag
func (l *Lexer) lexLineComment() TokenType {
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\n' || (ch == '?' && l.peek(1) == '>') {
			break
		}
		l.pos++
	}
	return COMMENT
}

func (l *Lexer) lexBlockComment() TokenType {
	rest := l.input[l.pos:]
	typ := MULTILINE_COMMENT
	if strings.HasPrefix(rest, "/**") && len(rest) > 3 && space(rest[3]) {
		typ = DOC_COMMENT
	}

	end := strings.Index(rest[2:], "*/")
	if end < 0 {
		l.pos = len(l.input)
		return typ
	}
	l.pos += 2 + end + 2
	return typ
}

// lexCloseTag consumes ?> and the single newline that PHP swallows with it
func (l *Lexer) lexCloseTag() TokenType {
	l.pos += 2
	if strings.HasPrefix(l.input[l.pos:], "\r\n") {
		l.pos += 2
	} else if l.peek(0) == '\n' {
		l.pos++
	}
	l.inPHP = false
	return CLOSE_TAG
}

// lexQuoted consumes a string closed by quote with backslash escapes.
// Unterminated strings run to end of input and are ILLEGAL.
func (l *Lexer) lexQuoted(quote byte, typ TokenType) TokenType {
	i := l.pos + 1
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case quote:
			l.pos = i + 1
			return typ
		}
		i++
	}
	l.pos = len(l.input)
	return ILLEGAL
}

// lexDoubleQuoted consumes "..." and reports whether it interpolates
func (l *Lexer) lexDoubleQuoted() TokenType {
	interpolated := false
	i := l.pos + 1
	for i < len(l.input) {
		ch := l.input[i]
		switch {
		case ch == '\\':
			i += 2
			continue
		case ch == '"':
			l.pos = i + 1
			if interpolated {
				return INTERPOLATED_STRING
			}
			return STRING
		case ch == '$' && i+1 < len(l.input) && (identStart(l.input[i+1]) || l.input[i+1] == '{'):
			interpolated = true
		case ch == '{' && i+1 < len(l.input) && l.input[i+1] == '$':
			interpolated = true
		}
		i++
	}
	l.pos = len(l.input)
	return ILLEGAL
}

// lexHeredoc consumes <<<LABEL, <<<"LABEL" or <<<'LABEL' through the closing
// label. The closing label may be indented. ok is false when the opener is
// not a well-formed heredoc start, in which case nothing is consumed.
func (l *Lexer) lexHeredoc() (TokenType, bool) {
	rest := l.input[l.pos:]
	i := len("<<<")
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}

	var quote byte
	if i < len(rest) && (rest[i] == '\'' || rest[i] == '"') {
		quote = rest[i]
		i++
	}
	if i >= len(rest) || !identStart(rest[i]) {
		return ILLEGAL, false
	}
	labelStart := i
	for i < len(rest) && identPart(rest[i]) {
		i++
	}
	label := rest[labelStart:i]
	if quote != 0 {
		if i >= len(rest) || rest[i] != quote {
			return ILLEGAL, false
		}
		i++
	}
	switch {
	case strings.HasPrefix(rest[i:], "\r\n"):
		i += 2
	case i < len(rest) && rest[i] == '\n':
		i++
	default:
		return ILLEGAL, false
	}

	typ := HEREDOC
	if quote == '\'' {
		typ = NOWDOC
	}

	for i < len(rest) {
		j := i
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
			j++
		}
		end := j + len(label)
		if strings.HasPrefix(rest[j:], label) && (end == len(rest) || !identPart(rest[end])) {
			l.pos += end
			return typ, true
		}
		nl := strings.IndexByte(rest[i:], '\n')
		if nl < 0 {
			break
		}
		i += nl + 1
	}
	l.pos += len(rest)
	return typ, true
}

// lexNumber consumes decimal, hex, binary and octal integers and floats
func (l *Lexer) lexNumber() TokenType {
	rest := l.input[l.pos:]

	if len(rest) > 2 && rest[0] == '0' {
		var pred func(byte) bool
		switch rest[1] {
		case 'x', 'X':
			pred = func(ch byte) bool { return ch < 0x80 && isHexDigit[ch] }
		case 'b', 'B':
			pred = func(ch byte) bool { return ch == '0' || ch == '1' }
		case 'o', 'O':
			pred = func(ch byte) bool { return '0' <= ch && ch <= '7' }
		}
		if pred != nil && pred(rest[2]) {
			l.pos += digitRun(rest, 2, pred)
			return INTEGER
		}
	}

	typ := INTEGER
	i := digitRun(rest, 0, digit)
	if i < len(rest) && rest[i] == '.' && !strings.HasPrefix(rest[i:], "...") {
		typ = FLOAT
		i = digitRun(rest, i+1, digit)
	}
	if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
		j := i + 1
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			j++
		}
		if j < len(rest) && digit(rest[j]) {
			typ = FLOAT
			i = digitRun(rest, j, digit)
		}
	}
	l.pos += i
	return typ
}

// digitRun returns the end of the run of pred bytes starting at i.
// Single underscores between digits are part of the run.
func digitRun(s string, i int, pred func(byte) bool) int {
	for i < len(s) {
		if pred(s[i]) {
			i++
			continue
		}
		if s[i] == '_' && i+1 < len(s) && pred(s[i+1]) && i > 0 && pred(s[i-1]) {
			i++
			continue
		}
		break
	}
	return i
}

// lexWord consumes a name and classifies it as keyword or identifier
func (l *Lexer) lexWord() TokenType {
	start := l.pos
	for l.pos < len(l.input) && identPart(l.input[l.pos]) {
		l.pos++
	}
	if l.inNameContext() {
		return IDENTIFIER
	}
	if typ, ok := keywords[strings.ToLower(l.input[start:l.pos])]; ok {
		return typ
	}
	return IDENTIFIER
}

// inNameContext reports whether the previous token forces the next word to
// be a plain name, as PHP does for semi-reserved words after const, ->, ::
// and function, and for constant names and types in a const statement
func (l *Lexer) inNameContext() bool {
	if l.inConst && l.constDepth == 0 && !l.constAssigned {
		switch l.prev.Type {
		case CONST, IDENTIFIER:
			return true
		case PUNCTUATION:
			if l.prev.Text == "," || l.prev.Text == "?" || l.prev.Text == "|" {
				return true
			}
		}
	}

	switch l.prev.Type {
	case PUNCTUATION:
		return l.prev.Text == "->" || l.prev.Text == "?->" || l.prev.Text == "::"
	case KEYWORD:
		return strings.EqualFold(l.prev.Text, "function")
	default:
		return false
	}
}

func (l *Lexer) trackConst(tok Token) {
	switch tok.Type {
	case CONST:
		l.inConst = true
		l.constDepth = 0
		l.constAssigned = false
	case SEMICOLON, CLOSE_TAG:
		l.inConst = false
	case PUNCTUATION:
		if !l.inConst {
			return
		}
		switch tok.Text {
		case "(", "[", "{":
			l.constDepth++
		case ")", "]", "}":
			l.constDepth--
		case "=":
			l.constAssigned = l.constAssigned || l.constDepth == 0
		case ",":
			if l.constDepth == 0 {
				l.constAssigned = false
			}
		}
	}
}

func (l *Lexer) lexOperator() TokenType {
	rest := l.input[l.pos:]
	for _, op := range operators3 {
		if strings.HasPrefix(rest, op) {
			l.pos += 3
			return PUNCTUATION
		}
	}
	for _, op := range operators2 {
		if strings.HasPrefix(rest, op) {
			l.pos += 2
			return PUNCTUATION
		}
	}
	if strings.IndexByte(operators1, rest[0]) >= 0 {
		l.pos++
		return PUNCTUATION
	}

	_, size := utf8.DecodeRuneInString(rest)
	l.pos += size
	return ILLEGAL
}
