// ast.go — the sprachli abstract syntax tree.
//
// Each syntactic family (declaration, statement, expression) is a closed set
// of variants behind a small interface with an unexported marker method, so
// consumers can switch exhaustively. Nodes are built bottom-up by the parser
// and are not mutated afterwards; the tree is strict (each node owns its
// children, no sharing).
//
// Every node renders to a compact s-expression via Sexpr(). That rendering is
// the canonical debug form, e.g.
//
//	fn foo(a) { 22 }   →   (fn foo (a) (block 22))
//
// and is what the driver's `parse` command prints.
package sprachli

import (
	"strconv"
	"strings"
)

// Node is implemented by every AST node.
type Node interface {
	Sexpr() string
}

// SourceFile is the root of a parsed compilation unit.
type SourceFile struct {
	Declarations []Declaration
}

func (f *SourceFile) Sexpr() string {
	var b strings.Builder
	b.WriteString("(source")
	for _, d := range f.Declarations {
		b.WriteByte(' ')
		b.WriteString(d.Sexpr())
	}
	b.WriteByte(')')
	return b.String()
}

// ───────────────────────────── declarations ─────────────────────────────

// Declaration is one of the constructs that can go (among other places)
// directly in a sprachli file. The most typical declarations are functions
// and structs, but there are also others; for example `impl` blocks are a
// kind of declaration that supplement structs. Variants: *Use,
// *FnDeclaration, *Struct, *Mixin, *Impl.
type Declaration interface {
	Node
	declNode()
}

// Visibility determines whether a construct can be accessed by code in
// different modules. The default is Private; `pub` makes it Public.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// sexpr contributes the "pub" marker for public constructs.
func (v Visibility) sexpr(b *strings.Builder) {
	if v == Public {
		b.WriteString(" pub")
	}
}

// Path is a possibly qualified name for some declaration: an optional
// `super` prefix, one or more `::`-separated segments, and an optional
// `as` alias.
type Path struct {
	Super    bool
	Segments []string
	Alias    string
}

func (p Path) String() string {
	var b strings.Builder
	if p.Super {
		b.WriteString("super")
	}
	for i, seg := range p.Segments {
		if i > 0 || p.Super {
			b.WriteString("::")
		}
		b.WriteString(seg)
	}
	if p.Alias != "" {
		b.WriteString(" as ")
		b.WriteString(p.Alias)
	}
	return b.String()
}

// Use makes some named declaration available in the current scope,
// optionally changing the name under which it's available.
type Use struct {
	Visibility Visibility
	Path       Path
}

func (*Use) declNode() {}

func (u *Use) Sexpr() string {
	var b strings.Builder
	b.WriteString("(use")
	u.Visibility.sexpr(&b)
	b.WriteByte(' ')
	b.WriteString(u.Path.String())
	b.WriteByte(')')
	return b.String()
}

// Variable is a named binding with a mutability flag.
type Variable struct {
	Name    string
	Mutable bool
}

func (v Variable) sexpr() string {
	if v.Mutable {
		return "(mut " + v.Name + ")"
	}
	return "(" + v.Name + ")"
}

// FnTrunk is the common trunk of named and anonymous functions: the formal
// parameter list and the body block.
type FnTrunk struct {
	Parameters []Variable
	Body       Block
}

func (t *FnTrunk) sexpr(b *strings.Builder) {
	for _, p := range t.Parameters {
		b.WriteByte(' ')
		b.WriteString(p.sexpr())
	}
	b.WriteByte(' ')
	b.WriteString(t.Body.Sexpr())
}

// FnDeclaration is a named function declaration.
type FnDeclaration struct {
	Visibility Visibility
	Name       string
	Trunk      FnTrunk
}

func (*FnDeclaration) declNode() {}

func (f *FnDeclaration) Sexpr() string {
	var b strings.Builder
	b.WriteString("(fn")
	f.Visibility.sexpr(&b)
	b.WriteByte(' ')
	b.WriteString(f.Name)
	f.Trunk.sexpr(&b)
	b.WriteByte(')')
	return b.String()
}

// StructMembersKind distinguishes the three struct member forms.
type StructMembersKind int

const (
	MembersEmpty      StructMembersKind = iota // struct S;
	MembersPositional                          // struct S(a, b);
	MembersNamed                               // struct S { a, b }
)

func (k StructMembersKind) String() string {
	switch k {
	case MembersPositional:
		return "positional"
	case MembersNamed:
		return "named"
	default:
		return "empty"
	}
}

// StructMembers carries a struct's member list. Names is nil for
// MembersEmpty. Duplicate names are not rejected here; that check belongs to
// semantic analysis.
type StructMembers struct {
	Kind  StructMembersKind
	Names []string
}

// Struct is a struct declaration.
type Struct struct {
	Visibility Visibility
	Name       string
	Members    StructMembers
}

func (*Struct) declNode() {}

func (s *Struct) Sexpr() string {
	var b strings.Builder
	b.WriteString("(struct")
	s.Visibility.sexpr(&b)
	b.WriteByte(' ')
	b.WriteString(s.Members.Kind.String())
	b.WriteByte(' ')
	b.WriteString(s.Name)
	for _, n := range s.Members.Names {
		b.WriteByte(' ')
		b.WriteString(n)
	}
	b.WriteByte(')')
	return b.String()
}

// Mixin is a mixin declaration. Forward marks a forward declaration
// (`mixin M;`), which is distinct from an empty body (`mixin M {}`).
type Mixin struct {
	Visibility Visibility
	Name       string
	Supertypes []Path
	Body       []Declaration
	Forward    bool
}

func (*Mixin) declNode() {}

func (m *Mixin) Sexpr() string {
	var b strings.Builder
	b.WriteString("(mixin")
	m.Visibility.sexpr(&b)
	b.WriteByte(' ')
	b.WriteString(m.Name)
	mixinImplTail(&b, m.Supertypes, m.Body, m.Forward)
	b.WriteByte(')')
	return b.String()
}

// Impl is an impl block supplementing a struct. It has no visibility of its
// own and its name may be omitted.
type Impl struct {
	Name       string // empty when omitted
	Supertypes []Path
	Body       []Declaration
	Forward    bool
}

func (*Impl) declNode() {}

func (im *Impl) Sexpr() string {
	var b strings.Builder
	b.WriteString("(impl")
	if im.Name != "" {
		b.WriteByte(' ')
		b.WriteString(im.Name)
	}
	mixinImplTail(&b, im.Supertypes, im.Body, im.Forward)
	b.WriteByte(')')
	return b.String()
}

func mixinImplTail(b *strings.Builder, supertypes []Path, body []Declaration, forward bool) {
	if len(supertypes) > 0 {
		b.WriteString(" (:")
		for _, p := range supertypes {
			b.WriteByte(' ')
			b.WriteString(p.String())
		}
		b.WriteByte(')')
	}
	if forward {
		return
	}
	b.WriteString(" (body")
	for _, d := range body {
		b.WriteByte(' ')
		b.WriteString(d.Sexpr())
	}
	b.WriteByte(')')
}

// ───────────────────────────── statements ─────────────────────────────

// Statement is one construct in a block's statement sequence. Variants:
// *DeclarationStatement, *ExpressionStatement, *Jump, *VariableDeclaration,
// *Assignment.
type Statement interface {
	Node
	stmtNode()
}

// DeclarationStatement is a declaration in statement position.
type DeclarationStatement struct {
	Declaration Declaration
}

func (*DeclarationStatement) stmtNode() {}

func (s *DeclarationStatement) Sexpr() string { return s.Declaration.Sexpr() }

// ExpressionStatement is an expression evaluated for effect.
type ExpressionStatement struct {
	Expression Expression
}

func (*ExpressionStatement) stmtNode() {}

func (s *ExpressionStatement) Sexpr() string { return s.Expression.Sexpr() }

// JumpKind distinguishes return, break and continue.
type JumpKind int

const (
	JumpReturn JumpKind = iota
	JumpBreak
	JumpContinue
)

func (k JumpKind) String() string {
	switch k {
	case JumpBreak:
		return "break"
	case JumpContinue:
		return "continue"
	default:
		return "return"
	}
}

// Jump is a return/break/continue statement. Value is nil when no expression
// is given; continue never carries one.
type Jump struct {
	Kind  JumpKind
	Value Expression
}

func (*Jump) stmtNode() {}

func (j *Jump) Sexpr() string {
	if j.Value == nil {
		return "(" + j.Kind.String() + ")"
	}
	return "(" + j.Kind.String() + " " + j.Value.Sexpr() + ")"
}

// VariableDeclaration is a `let` statement. Initializer is nil when absent.
type VariableDeclaration struct {
	Variable    Variable
	Initializer Expression
}

func (*VariableDeclaration) stmtNode() {}

func (d *VariableDeclaration) Sexpr() string {
	if d.Initializer == nil {
		return "(let " + d.Variable.sexpr() + ")"
	}
	return "(let " + d.Variable.sexpr() + " " + d.Initializer.Sexpr() + ")"
}

// Assignment is `left = right;`. The left side is syntactically any
// expression; whether it is a valid assignment target is a semantic question.
type Assignment struct {
	Left  Expression
	Right Expression
}

func (*Assignment) stmtNode() {}

func (a *Assignment) Sexpr() string {
	return "(= " + a.Left.Sexpr() + " " + a.Right.Sexpr() + ")"
}

// ───────────────────────────── expressions ─────────────────────────────

// Expression is one of the value-producing constructs. Variants: *Number,
// *Bool, *String, *Identifier, *Binary, *Unary, *Call, *Block, *Fn, *If,
// *Loop. Parenthesized groups are transparent and not retained as nodes.
type Expression interface {
	Node
	exprNode()
}

// Number is an integer literal; the raw source text is preserved so later
// stages can choose their numeric representation.
type Number struct {
	Value string
}

func (*Number) exprNode() {}

func (n *Number) Sexpr() string { return n.Value }

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

func (*Bool) exprNode() {}

func (n *Bool) Sexpr() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// String is a string literal; Value is the decoded text.
type String struct {
	Value string
}

func (*String) exprNode() {}

func (n *String) Sexpr() string { return strconv.Quote(n.Value) }

// Identifier is a name in expression position.
type Identifier struct {
	Name string
}

func (*Identifier) exprNode() {}

func (n *Identifier) Sexpr() string { return n.Name }

// BinaryOperator enumerates the binary operators, tightest group first.
type BinaryOperator int

const (
	// multiplicative
	OpMultiply BinaryOperator = iota
	OpDivide
	OpModulo
	// additive
	OpAdd
	OpSubtract
	// shift
	OpShiftRight
	OpShiftLeft
	// bitwise
	OpBitAnd
	OpBitXor
	OpBitOr
	// comparison
	OpEquals
	OpNotEquals
	OpGreater
	OpGreaterEquals
	OpLess
	OpLessEquals
)

func (op BinaryOperator) String() string {
	switch op {
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpShiftRight:
		return ">>"
	case OpShiftLeft:
		return "<<"
	case OpBitAnd:
		return "&"
	case OpBitXor:
		return "^"
	case OpBitOr:
		return "|"
	case OpEquals:
		return "=="
	case OpNotEquals:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEquals:
		return ">="
	case OpLess:
		return "<"
	default:
		return "<="
	}
}

// Binary is a binary operator application.
type Binary struct {
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (*Binary) exprNode() {}

func (n *Binary) Sexpr() string {
	return "(" + n.Operator.String() + " " + n.Left.Sexpr() + " " + n.Right.Sexpr() + ")"
}

// UnaryOperator enumerates the prefix operators.
type UnaryOperator int

const (
	OpNegate UnaryOperator = iota // -
	OpNot                         // !
)

func (op UnaryOperator) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// Unary is a prefix operator application.
type Unary struct {
	Operator UnaryOperator
	Right    Expression
}

func (*Unary) exprNode() {}

func (n *Unary) Sexpr() string {
	return "(" + n.Operator.String() + " " + n.Right.Sexpr() + ")"
}

// Call is a function call; calls chain left-associatively.
type Call struct {
	Function  Expression
	Arguments []Expression
}

func (*Call) exprNode() {}

func (n *Call) Sexpr() string {
	var b strings.Builder
	b.WriteString("(call ")
	b.WriteString(n.Function.Sexpr())
	for _, a := range n.Arguments {
		b.WriteByte(' ')
		b.WriteString(a.Sexpr())
	}
	b.WriteByte(')')
	return b.String()
}

// Block is a brace-delimited statement sequence with an optional trailing
// tail expression; the tail is the block's value. A block is itself an
// expression.
type Block struct {
	Statements []Statement
	Expression Expression // tail; nil when absent
}

func (*Block) exprNode() {}

// Sexpr renders the absent tail as (), so `{ x }` and `{ x; }` stay
// distinguishable: (block x) vs (block x ()).
func (n *Block) Sexpr() string {
	var b strings.Builder
	b.WriteString("(block")
	for _, s := range n.Statements {
		b.WriteByte(' ')
		b.WriteString(s.Sexpr())
	}
	b.WriteByte(' ')
	if n.Expression != nil {
		b.WriteString(n.Expression.Sexpr())
	} else {
		b.WriteString("()")
	}
	b.WriteByte(')')
	return b.String()
}

// Fn is an anonymous function expression; structurally a named function's
// trunk without the name.
type Fn struct {
	Trunk FnTrunk
}

func (*Fn) exprNode() {}

func (n *Fn) Sexpr() string {
	var b strings.Builder
	b.WriteString("(fn")
	n.Trunk.sexpr(&b)
	b.WriteByte(')')
	return b.String()
}

// Branch is one (condition, then-block) pair of an if expression.
type Branch struct {
	Condition Expression
	Then      Block
}

// If is a cascading conditional: one or more branches in source order plus
// an optional else block. Branch order is significant downstream.
type If struct {
	Branches []Branch
	Else     *Block
}

func (*If) exprNode() {}

func (n *If) Sexpr() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, br := range n.Branches {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("if ")
		b.WriteString(br.Condition.Sexpr())
		b.WriteByte(' ')
		b.WriteString(br.Then.Sexpr())
	}
	if n.Else != nil {
		b.WriteString(" else ")
		b.WriteString(n.Else.Sexpr())
	}
	b.WriteByte(')')
	return b.String()
}

// Loop is an unconditional loop; it only terminates via break.
type Loop struct {
	Body Block
}

func (*Loop) exprNode() {}

func (n *Loop) Sexpr() string {
	return "(loop " + n.Body.Sexpr() + ")"
}
