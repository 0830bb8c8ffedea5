// lexer.go — byte-based scanner for sprachli source text.
//
// The lexer turns a source buffer into a flat token slice terminated by an
// explicit EOF token. Matching is maximal-munch; on equal length, keywords
// win over the generic identifier pattern. Whitespace and comments are
// discarded and never produce tokens. Token lexemes are slices of the
// original source buffer; STRING tokens additionally carry their decoded
// value in Literal.
package sprachli

import (
	"fmt"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	COMMA     // ","
	SEMICOLON // ";"
	COLON     // ":" (supertype lists)
	PATHSEP   // "::"

	// Operators
	ASSIGN     // "="
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	PERCENT    // "%"
	SHL        // "<<"
	SHR        // ">>"
	AMP        // "&"
	CARET      // "^"
	PIPE       // "|"
	BANG       // "!"

	// Literals & identifiers
	IDENT
	NUMBER
	STRING

	// Keywords
	USE
	PUB
	FN
	STRUCT
	MIXIN
	IMPL
	SUPER
	AS
	LET
	MUT
	IF
	ELSE
	LOOP
	RETURN
	BREAK
	CONTINUE
	TRUE
	FALSE
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	ILLEGAL:    "illegal",
	LPAREN:     "'('",
	RPAREN:     "')'",
	LBRACE:     "'{'",
	RBRACE:     "'}'",
	COMMA:      "','",
	SEMICOLON:  "';'",
	COLON:      "':'",
	PATHSEP:    "'::'",
	ASSIGN:     "'='",
	EQ:         "'=='",
	NEQ:        "'!='",
	LESS:       "'<'",
	LESS_EQ:    "'<='",
	GREATER:    "'>'",
	GREATER_EQ: "'>='",
	PLUS:       "'+'",
	MINUS:      "'-'",
	STAR:       "'*'",
	SLASH:      "'/'",
	PERCENT:    "'%'",
	SHL:        "'<<'",
	SHR:        "'>>'",
	AMP:        "'&'",
	CARET:      "'^'",
	PIPE:       "'|'",
	BANG:       "'!'",
	IDENT:      "identifier",
	NUMBER:     "number",
	STRING:     "string",
	USE:        "'use'",
	PUB:        "'pub'",
	FN:         "'fn'",
	STRUCT:     "'struct'",
	MIXIN:      "'mixin'",
	IMPL:       "'impl'",
	SUPER:      "'super'",
	AS:         "'as'",
	LET:        "'let'",
	MUT:        "'mut'",
	IF:         "'if'",
	ELSE:       "'else'",
	LOOP:       "'loop'",
	RETURN:     "'return'",
	BREAK:      "'break'",
	CONTINUE:   "'continue'",
	TRUE:       "'true'",
	FALSE:      "'false'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a lexical token. Lexeme references the source buffer; STRING
// tokens carry their decoded value in Literal.
type Token struct {
	Type      TokenType
	Lexeme    string
	Literal   interface{}
	StartByte int
	EndByte   int
	Line      int // 1-based
	Col       int // 0-based
}

// keywords map; consulted after the identifier pattern has matched, which
// gives keywords priority on exact matches only ("iffy" stays an identifier).
var keywords = map[string]TokenType{
	"use":      USE,
	"pub":      PUB,
	"fn":       FN,
	"struct":   STRUCT,
	"mixin":    MIXIN,
	"impl":     IMPL,
	"super":    SUPER,
	"as":       AS,
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"loop":     LOOP,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
}

// Lexer scans a sprachli source string into tokens.
type Lexer struct {
	src         string
	start       int // start index of current token
	cur         int // current index
	line        int // 1-based
	col         int // 0-based column within line
	tokens      []Token
	interactive bool

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// NewLexerInteractive creates a lexer whose end-of-input errors (unterminated
// strings and block comments) are flagged incomplete, for REPL probing.
func NewLexerInteractive(src string) *Lexer {
	l := NewLexer(src)
	l.interactive = true
	return l
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// matchByte consumes the next byte if it equals b.
func (l *Lexer) matchByte(b byte) bool {
	if ch, ok := l.peek(); ok && ch == b {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:      tt,
		Lexeme:    l.src[l.start:l.cur],
		Literal:   lit,
		StartByte: l.start,
		EndByte:   l.cur,
		Line:      l.tokStartLine,
		Col:       l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// errAt reports a lexical error at a recorded position. Errors caused by
// running off the end of input are flagged incomplete in interactive mode.
func (l *Lexer) errAt(offset, line, col int, msg string, atEOF bool) error {
	return &LexError{
		Offset:     offset,
		Line:       line,
		Col:        col,
		Msg:        msg,
		Incomplete: atEOF && l.interactive,
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// skipBlockComment consumes a '/* ... */' comment whose opener has been
// consumed already. Comments do not nest; a missing '*/' is a lexical error
// at the opening '/*'.
func (l *Lexer) skipBlockComment(openOffset, openLine, openCol int) error {
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '*' && l.matchByte('/') {
			return nil
		}
	}
	return l.errAt(openOffset, openLine, openCol, "block comment was not terminated", true)
}

// scanString decodes a double-quoted string literal whose opening quote has
// been consumed already. The escape set is fixed: \\ \n \r \t \".
// An unterminated string reports the opening quote's offset.
func (l *Lexer) scanString(openOffset, openLine, openCol int) (string, error) {
	var out strings.Builder
	for !l.isAtEnd() {
		ch, _ := l.advance()
		switch ch {
		case '"':
			return out.String(), nil
		case '\\':
			escOffset, escLine, escCol := l.cur-1, l.line, l.col-1
			esc, ok := l.advance()
			if !ok {
				return "", l.errAt(escOffset, escLine, escCol, "unfinished escape sequence", true)
			}
			switch esc {
			case '\\':
				out.WriteByte('\\')
			case '"':
				out.WriteByte('"')
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			default:
				return "", l.errAt(escOffset, escLine, escCol,
					fmt.Sprintf("illegal escape sequence: '\\%c'", esc), false)
			}
		default:
			out.WriteByte(ch)
		}
	}
	return "", l.errAt(openOffset, openLine, openCol, "string literal was not terminated", true)
}

// scanNumber consumes [0-9]+; the first digit has been consumed already.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			return
		}
		l.advance()
	}
}

// scanIdentifier consumes [A-Za-z0-9_]*; the first byte has been consumed
// already.
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		startOffset, startLine, startCol := l.cur, l.line, l.col
		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(LPAREN, nil), nil
		case ')':
			return l.addToken(RPAREN, nil), nil
		case '{':
			return l.addToken(LBRACE, nil), nil
		case '}':
			return l.addToken(RBRACE, nil), nil
		case ',':
			return l.addToken(COMMA, nil), nil
		case ';':
			return l.addToken(SEMICOLON, nil), nil
		case ':':
			if l.matchByte(':') {
				return l.addToken(PATHSEP, nil), nil
			}
			return l.addToken(COLON, nil), nil
		case '+':
			return l.addToken(PLUS, nil), nil
		case '-':
			return l.addToken(MINUS, nil), nil
		case '*':
			return l.addToken(STAR, nil), nil
		case '%':
			return l.addToken(PERCENT, nil), nil
		case '&':
			return l.addToken(AMP, nil), nil
		case '^':
			return l.addToken(CARET, nil), nil
		case '|':
			return l.addToken(PIPE, nil), nil
		case '=':
			if l.matchByte('=') {
				return l.addToken(EQ, nil), nil
			}
			return l.addToken(ASSIGN, nil), nil
		case '!':
			if l.matchByte('=') {
				return l.addToken(NEQ, nil), nil
			}
			return l.addToken(BANG, nil), nil
		case '<':
			if l.matchByte('=') {
				return l.addToken(LESS_EQ, nil), nil
			}
			if l.matchByte('<') {
				return l.addToken(SHL, nil), nil
			}
			return l.addToken(LESS, nil), nil
		case '>':
			if l.matchByte('=') {
				return l.addToken(GREATER_EQ, nil), nil
			}
			if l.matchByte('>') {
				return l.addToken(SHR, nil), nil
			}
			return l.addToken(GREATER, nil), nil
		case '/':
			if l.matchByte('/') {
				l.skipLineComment()
				l.start = l.cur
				continue
			}
			if l.matchByte('*') {
				if err := l.skipBlockComment(startOffset, startLine, startCol); err != nil {
					return Token{}, err
				}
				l.start = l.cur
				continue
			}
			return l.addToken(SLASH, nil), nil
		case '"':
			text, err := l.scanString(startOffset, startLine, startCol)
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, text), nil
		}

		if isDigit(ch) {
			l.scanNumber()
			return l.addToken(NUMBER, nil), nil
		}

		if isAlpha(ch) {
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				return l.addToken(tt, nil), nil
			}
			return l.addToken(IDENT, nil), nil
		}

		return Token{}, l.errAt(startOffset, startLine, startCol,
			fmt.Sprintf("unexpected character: %q", ch), false)
	}
}
