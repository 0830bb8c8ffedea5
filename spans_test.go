// spans_test.go
package sprachli

import "testing"

func Test_Spans_Recorded(t *testing.T) {
	src := "fn main() { 1 + 2; }"
	file, idx, err := ParseWithSpans(src)
	if err != nil {
		t.Fatalf("ParseWithSpans: %v", err)
	}
	if idx.Len() == 0 {
		t.Fatalf("no spans recorded")
	}

	if sp, ok := idx.Get(file); !ok || sp.StartByte != 0 || sp.EndByte != len(src) {
		t.Fatalf("file span: %+v ok=%v", sp, ok)
	}

	decl := file.Declarations[0].(*FnDeclaration)
	if sp, ok := idx.Get(decl); !ok || sp.StartByte != 0 || sp.EndByte != len(src) {
		t.Fatalf("declaration span: %+v ok=%v", sp, ok)
	}

	stmt := decl.Trunk.Body.Statements[0].(*ExpressionStatement)
	if sp, ok := idx.Get(stmt); !ok || src[sp.StartByte:sp.EndByte] != "1 + 2;" {
		t.Fatalf("statement span: %+v ok=%v", sp, ok)
	}

	bin := stmt.Expression.(*Binary)
	if sp, ok := idx.Get(bin); !ok || src[sp.StartByte:sp.EndByte] != "1 + 2" {
		t.Fatalf("binary span: %+v ok=%v", sp, ok)
	}
	if sp, ok := idx.Get(bin.Left); !ok || src[sp.StartByte:sp.EndByte] != "1" {
		t.Fatalf("left operand span: %+v ok=%v", sp, ok)
	}
	if sp, ok := idx.Get(bin.Right); !ok || src[sp.StartByte:sp.EndByte] != "2" {
		t.Fatalf("right operand span: %+v ok=%v", sp, ok)
	}

	// Unrecorded nodes do not resolve.
	if _, ok := idx.Get(&Number{Value: "9"}); ok {
		t.Fatalf("foreign node resolved")
	}
}

func Test_Spans_PlainParseRecordsNothing(t *testing.T) {
	// Parse without span collection must not panic and produces no index.
	if _, err := Parse("fn main() { 1 + 2; }"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}

func Test_Spans_NilIndex(t *testing.T) {
	var idx *SpanIndex
	if _, ok := idx.Get(&Number{Value: "1"}); ok {
		t.Fatalf("nil index resolved a node")
	}
	if idx.Len() != 0 {
		t.Fatalf("nil index has nonzero length")
	}
}
