// spans.go — sidecar source spans for sprachli ASTs
//
// Spans are half-open byte intervals [StartByte, EndByte) relative to the
// original UTF-8 source. Line/column coordinates are intentionally omitted;
// callers can derive them on demand from the source text.
//
// The AST itself carries no position fields. Instead, `ParseWithSpans` has
// the parser record one Span per constructed node into a sidecar `SpanIndex`
// keyed by node identity (every AST variant is a pointer type, so the
// interface value is a stable key). The index is read-only after parsing and
// safe to share for concurrent reads; memory is one map entry per node.
package sprachli

// Span represents a half-open byte interval [StartByte, EndByte) in the
// original source text. EndByte is exclusive.
type Span struct {
	StartByte int // inclusive
	EndByte   int // exclusive
}

// SpanIndex is a sidecar mapping from AST node to source span. A SpanIndex
// may be partial; only recorded nodes resolve.
type SpanIndex struct {
	byNode map[Node]Span
}

func newSpanIndex() *SpanIndex {
	return &SpanIndex{byNode: make(map[Node]Span)}
}

// record binds a span to a node. Called by the parser as each node is
// finished (children before parent).
func (si *SpanIndex) record(n Node, start, end int) {
	if si == nil {
		return
	}
	si.byNode[n] = Span{StartByte: start, EndByte: end}
}

// Get returns the span recorded for the given node, if present. The boolean
// is false if the node is unknown or the index is nil.
func (si *SpanIndex) Get(n Node) (Span, bool) {
	if si == nil {
		return Span{}, false
	}
	sp, ok := si.byNode[n]
	return sp, ok
}

// Len reports the number of indexed nodes.
func (si *SpanIndex) Len() int {
	if si == nil {
		return 0
	}
	return len(si.byNode)
}
