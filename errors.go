// errors.go: front-end error types and caret-snippet rendering
//
// The lexer produces *LexError and the parser *SyntaxError; both carry a byte
// offset plus 1-based line and 0-based column. `WrapErrorWithSource` turns
// either into a readable multi-line snippet with a caret pointing at the
// offending column:
//
//	SYNTAX ERROR at 3:14: unexpected ')' while parsing an expression
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	       |            ^
//	   4 | x
//
// Other error kinds pass through unchanged, so callers can wrap
// unconditionally.
package sprachli

import (
	"fmt"
	"strings"
)

// LexError is a lexical error: the input contained a byte sequence that is
// not part of any token.
type LexError struct {
	Offset int    // byte offset into the source
	Line   int    // 1-based
	Col    int    // 0-based
	Msg    string

	// Incomplete is set in interactive mode when the error was caused purely
	// by running off the end of input (unterminated string or block comment),
	// so a REPL can prompt for another line instead of reporting failure.
	Incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// SyntaxError is a parse error: the token stream did not match the grammar.
type SyntaxError struct {
	Offset  int    // byte offset of the offending token
	Line    int    // 1-based
	Col     int    // 0-based
	Found   string // description of the token actually found
	Context string // the production being parsed, e.g. "an expression"

	// Incomplete mirrors LexError.Incomplete: set in interactive mode when
	// the parser ran out of tokens mid-production.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("SYNTAX ERROR at %d:%d: unexpected %s", e.Line, e.Col+1, e.Found)
	}
	return fmt.Sprintf("SYNTAX ERROR at %d:%d: unexpected %s while parsing %s",
		e.Line, e.Col+1, e.Found, e.Context)
}

// IsIncomplete reports whether err is a front-end error caused purely by
// end of input in interactive mode. The REPL keys its multi-line prompt
// on this.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *LexError:
		return e.Incomplete
	case *SyntaxError:
		return e.Incomplete
	default:
		return false
	}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *LexError and *SyntaxError
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (typically a
// file name) included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Col is 0-based; render as 1-based.
		return fmt.Errorf("%s", caretSnippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *SyntaxError:
		msg := "unexpected " + e.Found
		if e.Context != "" {
			msg += " while parsing " + e.Context
		}
		return fmt.Errorf("%s", caretSnippet(src, "SYNTAX ERROR", srcName, e.Line, e.Col+1, msg))
	default:
		return err
	}
}

// caretSnippet builds the snippet with a header and a caret. It shows at most
// one previous and one next line when available. Coordinates are treated as
// 1-based and clamped to the source bounds.
func caretSnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
