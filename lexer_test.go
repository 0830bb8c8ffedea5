// lexer_test.go
package sprachli

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer(src)
	ts, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantLexError(t *testing.T, src string, msgPart string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected a lex error for %q, got none", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, msgPart) {
		t.Fatalf("error %q does not mention %q", le.Msg, msgPart)
	}
	return le
}

func Test_Lexer_FnDeclaration(t *testing.T) {
	src := `pub fn main() { let mut x = 1; }`
	wantTypes(t, src, []TokenType{
		PUB, FN, IDENT, LPAREN, RPAREN, LBRACE,
		LET, MUT, IDENT, ASSIGN, NUMBER, SEMICOLON,
		RBRACE,
	})
}

func Test_Lexer_KeywordPriority(t *testing.T) {
	// Keywords win only on exact matches; a longer identifier match takes
	// the whole lexeme.
	got := wantTypes(t, `iffy if ifelse structure struct`, []TokenType{
		IDENT, IF, IDENT, IDENT, STRUCT,
	})
	if got[0].Lexeme != "iffy" || got[2].Lexeme != "ifelse" {
		t.Fatalf("unexpected lexemes: %q, %q", got[0].Lexeme, got[2].Lexeme)
	}
}

func Test_Lexer_MaximalMunch(t *testing.T) {
	wantTypes(t, `<<= >>= === != ! <= < :: :`, []TokenType{
		SHL, ASSIGN, SHR, ASSIGN, EQ, ASSIGN, NEQ, BANG, LESS_EQ, LESS, PATHSEP, COLON,
	})
}

func Test_Lexer_Operators(t *testing.T) {
	wantTypes(t, `+ - * / % >> << & ^ | > >= == =`, []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, SHR, SHL, AMP, CARET, PIPE,
		GREATER, GREATER_EQ, EQ, ASSIGN,
	})
}

func Test_Lexer_Path(t *testing.T) {
	wantTypes(t, `use super::a::b as c;`, []TokenType{
		USE, SUPER, PATHSEP, IDENT, PATHSEP, IDENT, AS, IDENT, SEMICOLON,
	})
}

func Test_Lexer_Comments(t *testing.T) {
	src := `
a // rest of the line, ignored: if fn "
b /* block
spanning lines */ c
`
	wantTypes(t, src, []TokenType{IDENT, IDENT, IDENT})
}

func Test_Lexer_BlockComments_DoNotNest(t *testing.T) {
	// The first '*/' closes the comment regardless of inner '/*'.
	wantTypes(t, `/* outer /* inner */ x`, []TokenType{IDENT})
}

func Test_Lexer_String_Escapes(t *testing.T) {
	got := wantTypes(t, `"a\nb\t\"q\"\\"`, []TokenType{STRING})
	want := "a\nb\t\"q\"\\"
	if got[0].Literal.(string) != want {
		t.Fatalf("decoded string: want %q, got %q", want, got[0].Literal)
	}
}

func Test_Lexer_String_Unterminated(t *testing.T) {
	src := `let s = "abc`
	le := wantLexError(t, src, "not terminated")
	// The error points at the opening quote.
	if want := strings.IndexByte(src, '"'); le.Offset != want {
		t.Fatalf("offset: want %d, got %d", want, le.Offset)
	}
	if le.Incomplete {
		t.Fatalf("non-interactive lexer must not flag incomplete")
	}
}

func Test_Lexer_String_IllegalEscape(t *testing.T) {
	src := `"ab\qcd"`
	le := wantLexError(t, src, "illegal escape sequence")
	if want := strings.IndexByte(src, '\\'); le.Offset != want {
		t.Fatalf("offset: want %d, got %d", want, le.Offset)
	}
}

func Test_Lexer_BlockComment_Unterminated(t *testing.T) {
	src := "1 /* two"
	le := wantLexError(t, src, "not terminated")
	if le.Offset != 2 {
		t.Fatalf("offset: want 2, got %d", le.Offset)
	}
}

func Test_Lexer_IllegalCharacter(t *testing.T) {
	le := wantLexError(t, "a $ b", "unexpected character")
	if le.Offset != 2 || le.Line != 1 || le.Col != 2 {
		t.Fatalf("position: got offset=%d line=%d col=%d", le.Offset, le.Line, le.Col)
	}
}

func Test_Lexer_Numbers_IntegerOnly(t *testing.T) {
	got := wantTypes(t, `123 0 45x`, []TokenType{NUMBER, NUMBER, NUMBER, IDENT})
	if got[0].Lexeme != "123" || got[2].Lexeme != "45" {
		t.Fatalf("unexpected number lexemes: %q, %q", got[0].Lexeme, got[2].Lexeme)
	}
	// There is no '.' token; a float-looking input is a lexical error.
	wantLexError(t, "1.5", "unexpected character")
}

func Test_Lexer_Positions(t *testing.T) {
	src := "ab\n  cd"
	got := wantTypes(t, src, []TokenType{IDENT, IDENT})
	a, c := got[0], got[1]
	if a.StartByte != 0 || a.EndByte != 2 || a.Line != 1 || a.Col != 0 {
		t.Fatalf("first token position: %+v", a)
	}
	if c.StartByte != 5 || c.EndByte != 7 || c.Line != 2 || c.Col != 2 {
		t.Fatalf("second token position: %+v", c)
	}
}

func Test_Lexer_EOFToken(t *testing.T) {
	ts := toks(t, "x")
	last := ts[len(ts)-1]
	if last.Type != EOF || last.StartByte != 1 || last.EndByte != 1 {
		t.Fatalf("EOF token: %+v", last)
	}
}

func Test_Lexer_Interactive_Incomplete(t *testing.T) {
	for _, src := range []string{`"abc`, `/* abc`} {
		_, err := NewLexerInteractive(src).Scan()
		if err == nil {
			t.Fatalf("expected error for %q", src)
		}
		if !IsIncomplete(err) {
			t.Fatalf("interactive EOF error for %q should be incomplete: %v", src, err)
		}
	}

	// A genuinely malformed input stays a hard error even interactively.
	_, err := NewLexerInteractive(`"a\q"`).Scan()
	if err == nil || IsIncomplete(err) {
		t.Fatalf("illegal escape must not be incomplete: %v", err)
	}
}
