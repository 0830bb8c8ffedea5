// errors_test.go
package sprachli

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Messages(t *testing.T) {
	se := &SyntaxError{Line: 1, Col: 4, Found: "';'", Context: "an expression"}
	if got, want := se.Error(), "SYNTAX ERROR at 1:5: unexpected ';' while parsing an expression"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	se = &SyntaxError{Line: 2, Col: 0, Found: "end of input"}
	if got, want := se.Error(), "SYNTAX ERROR at 2:1: unexpected end of input"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	le := &LexError{Line: 3, Col: 0, Msg: "unexpected character: '$'"}
	if got, want := le.Error(), "LEXICAL ERROR at 3:1: unexpected character: '$'"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_Errors_CaretSnippet(t *testing.T) {
	src := "fn main() {\n    let x = ;\n}"
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected a parse error")
	}

	wrapped := WrapErrorWithSource(err, src)
	msg := wrapped.Error()
	for _, part := range []string{
		"SYNTAX ERROR at 2:13",
		"   2 |     let x = ;",
		"     |             ^",
		"   1 | fn main() {",
		"   3 | }",
	} {
		if !strings.Contains(msg, part) {
			t.Fatalf("snippet missing %q:\n%s", part, msg)
		}
	}
}

func Test_Errors_WrapWithName(t *testing.T) {
	src := `let s = "abc`
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected a lex error")
	}

	wrapped := WrapErrorWithName(err, "main.spr", src)
	if !strings.Contains(wrapped.Error(), "LEXICAL ERROR in main.spr at 1:9") {
		t.Fatalf("unexpected header:\n%s", wrapped.Error())
	}
}

func Test_Errors_Passthrough(t *testing.T) {
	plain := errors.New("disk on fire")
	if got := WrapErrorWithSource(plain, "x"); got != plain {
		t.Fatalf("non-front-end errors must pass through unchanged, got %v", got)
	}
}

func Test_Errors_IsIncomplete(t *testing.T) {
	if IsIncomplete(nil) {
		t.Fatalf("nil is not incomplete")
	}
	if IsIncomplete(errors.New("boom")) {
		t.Fatalf("foreign errors are not incomplete")
	}
	if IsIncomplete(&SyntaxError{}) {
		t.Fatalf("zero SyntaxError is not incomplete")
	}
	if !IsIncomplete(&SyntaxError{Incomplete: true}) || !IsIncomplete(&LexError{Incomplete: true}) {
		t.Fatalf("flagged errors must report incomplete")
	}
}
