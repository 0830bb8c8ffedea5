// parser.go — recursive-descent / Pratt parser for sprachli
//
// The parser consumes the token slice produced by lexer.go and builds the
// typed AST from ast.go. Expressions use a binding-power loop (tightest to
// loosest: call, unary, `* / %`, `+ -`, `>> <<`, `&`, `^`, `|`, comparisons);
// comparisons are non-associative, so chaining them is a syntax error rather
// than a grouping.
//
// Every grammar production has its own public entry point, mirroring the
// per-production parsers the language has always exposed: Parse (a whole
// source file), ParseDeclaration, ParseStatement, ParseExpression. Each
// requires its production to consume the entire input.
//
// Parsing is single-shot: the first error aborts and is returned as a
// *SyntaxError carrying the byte offset, line/column, the found token and
// the production being parsed. In interactive mode (ParseInteractive),
// errors caused purely by running out of input are flagged incomplete so
// the REPL can prompt for more lines instead of failing.
package sprachli

// Parse parses a complete sprachli source file.
func Parse(src string) (*SourceFile, error) {
	p, err := newParser(src, false, nil)
	if err != nil {
		return nil, err
	}
	return p.sourceFile()
}

// ParseWithSpans parses like Parse and also returns a SpanIndex binding each
// AST node to its source byte span.
func ParseWithSpans(src string) (*SourceFile, *SpanIndex, error) {
	spans := newSpanIndex()
	p, err := newParser(src, false, spans)
	if err != nil {
		return nil, nil, err
	}
	file, err := p.sourceFile()
	if err != nil {
		return nil, nil, err
	}
	return file, spans, nil
}

// ParseInteractive parses one REPL input in interactive mode: a sequence of
// statements and declarations with an optional trailing result expression,
// i.e. a block body without the braces. Errors caused purely by end of input
// satisfy IsIncomplete, so a line-oriented caller can keep reading.
func ParseInteractive(src string) (*Block, error) {
	p, err := newParser(src, true, nil)
	if err != nil {
		return nil, err
	}
	blk := &Block{}
	for !p.atEnd() {
		stmt, tail, err := p.blockItem(EOF)
		if err != nil {
			return nil, err
		}
		if tail != nil {
			blk.Expression = tail
			break
		}
		blk.Statements = append(blk.Statements, stmt)
	}
	return blk, nil
}

// ParseDeclaration parses a single declaration spanning the entire input.
func ParseDeclaration(src string) (Declaration, error) {
	p, err := newParser(src, false, nil)
	if err != nil {
		return nil, err
	}
	d, err := p.declaration()
	if err != nil {
		return nil, err
	}
	if err := p.needEOF("a declaration"); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseStatement parses a single statement spanning the entire input.
func ParseStatement(src string) (Statement, error) {
	p, err := newParser(src, false, nil)
	if err != nil {
		return nil, err
	}
	s, tail, err := p.blockItem(RBRACE)
	if err != nil {
		return nil, err
	}
	if tail != nil {
		return nil, p.errHere("a statement")
	}
	if err := p.needEOF("a statement"); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseExpression parses a single expression spanning the entire input.
func ParseExpression(src string) (Expression, error) {
	p, err := newParser(src, false, nil)
	if err != nil {
		return nil, err
	}
	e, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if err := p.needEOF("an expression"); err != nil {
		return nil, err
	}
	return e, nil
}

type parser struct {
	toks        []Token
	i           int
	src         string
	interactive bool
	spans       *SpanIndex // nil unless spans were requested
}

func newParser(src string, interactive bool, spans *SpanIndex) (*parser, error) {
	lex := NewLexer(src)
	if interactive {
		lex = NewLexerInteractive(src)
	}
	toks, err := lex.Scan()
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks, src: src, interactive: interactive, spans: spans}, nil
}

// ─────────────────────── token basics & helpers ───────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

// peekAt looks k tokens past the cursor, saturating at EOF.
func (p *parser) peekAt(k int) Token {
	j := p.i + k
	if j >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[j]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, context string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errHere(context)
}

func (p *parser) needEOF(context string) error {
	if p.atEnd() {
		return nil
	}
	return p.errHere(context)
}

// errHere builds a *SyntaxError at the current token. In interactive mode an
// error at EOF is flagged incomplete.
func (p *parser) errHere(context string) error {
	return p.errAtTok(p.peek(), context)
}

func (p *parser) errAtTok(g Token, context string) error {
	return &SyntaxError{
		Offset:     g.StartByte,
		Line:       g.Line,
		Col:        g.Col,
		Found:      tokDesc(g),
		Context:    context,
		Incomplete: p.interactive && g.Type == EOF,
	}
}

func tokDesc(t Token) string {
	if t.Type == EOF {
		return "end of input"
	}
	return "'" + t.Lexeme + "'"
}

// finish records the node's source span when span collection is on. End is
// the end byte of the last consumed token.
func (p *parser) finish(n Node, startByte int) {
	p.spans.record(n, startByte, p.prev().EndByte)
}

// ─────────────────────────── declarations ───────────────────────────

func (p *parser) sourceFile() (*SourceFile, error) {
	file := &SourceFile{}
	for !p.atEnd() {
		d, err := p.declaration()
		if err != nil {
			return nil, err
		}
		file.Declarations = append(file.Declarations, d)
	}
	p.spans.record(file, 0, len(p.src))
	return file, nil
}

func (p *parser) declaration() (Declaration, error) {
	start := p.peek().StartByte
	vis := Private
	if p.match(PUB) {
		vis = Public
	}
	switch {
	case p.match(USE):
		return p.useDecl(vis, start)
	case p.match(FN):
		return p.fnDecl(vis, start)
	case p.match(STRUCT):
		return p.structDecl(vis, start)
	case p.match(MIXIN):
		return p.mixinDecl(vis, start)
	case p.check(IMPL):
		if vis == Public {
			return nil, p.errHere("a declaration ('impl' cannot be 'pub')")
		}
		p.i++
		return p.implDecl(start)
	default:
		return nil, p.errHere("a declaration")
	}
}

func (p *parser) useDecl(vis Visibility, start int) (Declaration, error) {
	path, err := p.path(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "a 'use' declaration"); err != nil {
		return nil, err
	}
	u := &Use{Visibility: vis, Path: path}
	p.finish(u, start)
	return u, nil
}

// path parses `super::`? segment (`::` segment)* (`as` name)?. The alias
// clause is only legal in use declarations.
func (p *parser) path(allowAlias bool) (Path, error) {
	var path Path
	if p.match(SUPER) {
		path.Super = true
		if _, err := p.need(PATHSEP, "a path"); err != nil {
			return Path{}, err
		}
	}
	seg, err := p.need(IDENT, "a path")
	if err != nil {
		return Path{}, err
	}
	path.Segments = append(path.Segments, seg.Lexeme)
	for p.match(PATHSEP) {
		seg, err := p.need(IDENT, "a path")
		if err != nil {
			return Path{}, err
		}
		path.Segments = append(path.Segments, seg.Lexeme)
	}
	if allowAlias && p.match(AS) {
		alias, err := p.need(IDENT, "a path alias")
		if err != nil {
			return Path{}, err
		}
		path.Alias = alias.Lexeme
	}
	return path, nil
}

func (p *parser) fnDecl(vis Visibility, start int) (Declaration, error) {
	name, err := p.need(IDENT, "a function declaration")
	if err != nil {
		return nil, err
	}
	trunk, err := p.fnTrunk()
	if err != nil {
		return nil, err
	}
	f := &FnDeclaration{Visibility: vis, Name: name.Lexeme, Trunk: trunk}
	p.finish(f, start)
	return f, nil
}

// fnTrunk parses the parameter list and body shared by named and anonymous
// functions.
func (p *parser) fnTrunk() (FnTrunk, error) {
	var trunk FnTrunk
	if _, err := p.need(LPAREN, "a parameter list"); err != nil {
		return FnTrunk{}, err
	}
	for !p.check(RPAREN) {
		mutable := p.match(MUT)
		name, err := p.need(IDENT, "a parameter list")
		if err != nil {
			return FnTrunk{}, err
		}
		trunk.Parameters = append(trunk.Parameters, Variable{Name: name.Lexeme, Mutable: mutable})
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, "a parameter list"); err != nil {
		return FnTrunk{}, err
	}
	if _, err := p.need(LBRACE, "a function body"); err != nil {
		return FnTrunk{}, err
	}
	body, err := p.blockAfterBrace()
	if err != nil {
		return FnTrunk{}, err
	}
	trunk.Body = *body
	return trunk, nil
}

func (p *parser) structDecl(vis Visibility, start int) (Declaration, error) {
	name, err := p.need(IDENT, "a struct declaration")
	if err != nil {
		return nil, err
	}
	s := &Struct{Visibility: vis, Name: name.Lexeme}
	switch {
	case p.match(SEMICOLON):
		s.Members = StructMembers{Kind: MembersEmpty}
	case p.match(LPAREN):
		names, err := p.memberNames(RPAREN, "a struct member list")
		if err != nil {
			return nil, err
		}
		// Tuple-style structs end with ';', brace-style ones do not.
		if _, err := p.need(SEMICOLON, "a struct declaration"); err != nil {
			return nil, err
		}
		s.Members = StructMembers{Kind: MembersPositional, Names: names}
	case p.match(LBRACE):
		names, err := p.memberNames(RBRACE, "a struct member list")
		if err != nil {
			return nil, err
		}
		s.Members = StructMembers{Kind: MembersNamed, Names: names}
	default:
		return nil, p.errHere("a struct declaration")
	}
	p.finish(s, start)
	return s, nil
}

// memberNames parses a comma-separated identifier list up to and including
// the closing token. Trailing commas are accepted; duplicates are not
// checked here.
func (p *parser) memberNames(closing TokenType, context string) ([]string, error) {
	var names []string
	for !p.check(closing) {
		name, err := p.need(IDENT, context)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Lexeme)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(closing, context); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *parser) mixinDecl(vis Visibility, start int) (Declaration, error) {
	name, err := p.need(IDENT, "a mixin declaration")
	if err != nil {
		return nil, err
	}
	m := &Mixin{Visibility: vis, Name: name.Lexeme}
	m.Supertypes, m.Body, m.Forward, err = p.mixinImplTail("a mixin declaration")
	if err != nil {
		return nil, err
	}
	p.finish(m, start)
	return m, nil
}

func (p *parser) implDecl(start int) (Declaration, error) {
	im := &Impl{}
	if p.match(IDENT) {
		im.Name = p.prev().Lexeme
	}
	var err error
	im.Supertypes, im.Body, im.Forward, err = p.mixinImplTail("an impl declaration")
	if err != nil {
		return nil, err
	}
	p.finish(im, start)
	return im, nil
}

// mixinImplTail parses the shared tail of mixin and impl declarations: an
// optional colon-introduced supertype list, then either ';' (a forward
// declaration) or a braced declaration body.
func (p *parser) mixinImplTail(context string) ([]Path, []Declaration, bool, error) {
	var supertypes []Path
	if p.match(COLON) {
		for {
			path, err := p.path(false)
			if err != nil {
				return nil, nil, false, err
			}
			supertypes = append(supertypes, path)
			if !p.match(COMMA) {
				break
			}
			// trailing comma before the body or ';'
			if p.check(LBRACE) || p.check(SEMICOLON) {
				break
			}
		}
	}
	if p.match(SEMICOLON) {
		return supertypes, nil, true, nil
	}
	if _, err := p.need(LBRACE, context); err != nil {
		return nil, nil, false, err
	}
	var body []Declaration
	for !p.check(RBRACE) && !p.atEnd() {
		d, err := p.declaration()
		if err != nil {
			return nil, nil, false, err
		}
		body = append(body, d)
	}
	if _, err := p.need(RBRACE, context); err != nil {
		return nil, nil, false, err
	}
	return supertypes, body, false, nil
}

// ─────────────────────────── statements ───────────────────────────

// startsDeclaration reports whether the upcoming tokens begin a declaration
// rather than an expression. `fn` followed by '(' is an anonymous function
// expression, not a declaration.
func (p *parser) startsDeclaration() bool {
	switch p.peek().Type {
	case USE, PUB, STRUCT, MIXIN, IMPL:
		return true
	case FN:
		return p.peekAt(1).Type != LPAREN
	default:
		return false
	}
}

// blockShaped reports whether tt begins a block-shaped expression, which in
// statement position forms a complete statement without ';'.
func blockShaped(tt TokenType) bool {
	return tt == IF || tt == LOOP || tt == LBRACE
}

// blockItem parses one item of a block body. It returns either a statement,
// or (when the final expression has no ';' and the terminator follows) the
// block's tail expression. term is RBRACE inside braces, EOF at the top
// level of a REPL input.
func (p *parser) blockItem(term TokenType) (Statement, Expression, error) {
	start := p.peek().StartByte

	switch {
	case p.startsDeclaration():
		d, err := p.declaration()
		if err != nil {
			return nil, nil, err
		}
		s := &DeclarationStatement{Declaration: d}
		p.finish(s, start)
		return s, nil, nil

	case p.match(LET):
		return p.letStmt(start)

	case p.match(RETURN):
		return p.jumpStmt(JumpReturn, start)
	case p.match(BREAK):
		return p.jumpStmt(JumpBreak, start)
	case p.match(CONTINUE):
		if _, err := p.need(SEMICOLON, "a 'continue' statement"); err != nil {
			return nil, nil, err
		}
		s := &Jump{Kind: JumpContinue}
		p.finish(s, start)
		return s, nil, nil

	case blockShaped(p.peek().Type):
		// In statement position a block-shaped expression is a complete
		// statement on its own: it does not continue into operators and the
		// ';' is optional.
		e, err := p.blockShapedExpr()
		if err != nil {
			return nil, nil, err
		}
		if p.check(term) {
			return nil, e, nil
		}
		p.match(SEMICOLON)
		s := &ExpressionStatement{Expression: e}
		p.finish(s, start)
		return s, nil, nil

	default:
		e, err := p.expression(0)
		if err != nil {
			return nil, nil, err
		}
		if p.check(term) {
			return nil, e, nil
		}
		if p.match(ASSIGN) {
			right, err := p.expression(0)
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.need(SEMICOLON, "an assignment"); err != nil {
				return nil, nil, err
			}
			s := &Assignment{Left: e, Right: right}
			p.finish(s, start)
			return s, nil, nil
		}
		if _, err := p.need(SEMICOLON, "a statement"); err != nil {
			return nil, nil, err
		}
		s := &ExpressionStatement{Expression: e}
		p.finish(s, start)
		return s, nil, nil
	}
}

func (p *parser) letStmt(start int) (Statement, Expression, error) {
	mutable := p.match(MUT)
	name, err := p.need(IDENT, "a 'let' statement")
	if err != nil {
		return nil, nil, err
	}
	s := &VariableDeclaration{Variable: Variable{Name: name.Lexeme, Mutable: mutable}}
	if p.match(ASSIGN) {
		s.Initializer, err = p.expression(0)
		if err != nil {
			return nil, nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "a 'let' statement"); err != nil {
		return nil, nil, err
	}
	p.finish(s, start)
	return s, nil, nil
}

// jumpStmt parses the rest of `return expr? ;` / `break expr? ;`.
func (p *parser) jumpStmt(kind JumpKind, start int) (Statement, Expression, error) {
	s := &Jump{Kind: kind}
	if !p.check(SEMICOLON) {
		var err error
		s.Value, err = p.expression(0)
		if err != nil {
			return nil, nil, err
		}
	}
	context := "a 'return' statement"
	if kind == JumpBreak {
		context = "a 'break' statement"
	}
	if _, err := p.need(SEMICOLON, context); err != nil {
		return nil, nil, err
	}
	p.finish(s, start)
	return s, nil, nil
}

// ─────────────────────────── expressions ───────────────────────────

// infixBP is the binding-power table for binary operators. Higher binds
// tighter; calls are handled separately and bind tightest of all.
func infixBP(tt TokenType) (int, bool) {
	switch tt {
	case STAR, SLASH, PERCENT:
		return 70, true
	case PLUS, MINUS:
		return 60, true
	case SHR, SHL:
		return 50, true
	case AMP:
		return 40, true
	case CARET:
		return 30, true
	case PIPE:
		return 20, true
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 10, true
	default:
		return 0, false
	}
}

const unaryBP = 80

func isComparison(tt TokenType) bool {
	switch tt {
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return true
	default:
		return false
	}
}

func binaryOp(tt TokenType) BinaryOperator {
	switch tt {
	case STAR:
		return OpMultiply
	case SLASH:
		return OpDivide
	case PERCENT:
		return OpModulo
	case PLUS:
		return OpAdd
	case MINUS:
		return OpSubtract
	case SHR:
		return OpShiftRight
	case SHL:
		return OpShiftLeft
	case AMP:
		return OpBitAnd
	case CARET:
		return OpBitXor
	case PIPE:
		return OpBitOr
	case EQ:
		return OpEquals
	case NEQ:
		return OpNotEquals
	case GREATER:
		return OpGreater
	case GREATER_EQ:
		return OpGreaterEquals
	case LESS:
		return OpLess
	default:
		return OpLessEquals
	}
}

func (p *parser) expression(minBP int) (Expression, error) {
	start := p.peek().StartByte
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		// Postfix call, tightest of all; chains left-associatively.
		if t.Type == LPAREN {
			p.i++
			call := &Call{Function: left}
			for !p.check(RPAREN) {
				arg, err := p.expression(0)
				if err != nil {
					return nil, err
				}
				call.Arguments = append(call.Arguments, arg)
				if !p.match(COMMA) {
					break
				}
			}
			if _, err := p.need(RPAREN, "a call argument list"); err != nil {
				return nil, err
			}
			p.finish(call, start)
			left = call
			continue
		}

		bp, ok := infixBP(t.Type)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.i++
		right, err := p.expression(bp)
		if err != nil {
			return nil, err
		}
		bin := &Binary{Operator: binaryOp(t.Type), Left: left, Right: right}
		p.finish(bin, start)
		left = bin

		if isComparison(t.Type) && isComparison(p.peek().Type) {
			return nil, p.errHere("an expression (comparison operators cannot be chained)")
		}
	}
}

// prefix parses one prefix expression (literal, identifier, unary, grouping,
// or a block-shaped form).
func (p *parser) prefix() (Expression, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.i++
		n := &Number{Value: t.Lexeme}
		p.finish(n, t.StartByte)
		return n, nil
	case STRING:
		p.i++
		n := &String{Value: t.Literal.(string)}
		p.finish(n, t.StartByte)
		return n, nil
	case TRUE, FALSE:
		p.i++
		n := &Bool{Value: t.Type == TRUE}
		p.finish(n, t.StartByte)
		return n, nil
	case IDENT:
		p.i++
		n := &Identifier{Name: t.Lexeme}
		p.finish(n, t.StartByte)
		return n, nil

	case MINUS, BANG:
		p.i++
		op := OpNegate
		if t.Type == BANG {
			op = OpNot
		}
		operand, err := p.expression(unaryBP)
		if err != nil {
			return nil, err
		}
		n := &Unary{Operator: op, Right: operand}
		p.finish(n, t.StartByte)
		return n, nil

	case LPAREN:
		// Grouping is transparent: no node is retained for the parentheses.
		p.i++
		inner, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "a parenthesized expression"); err != nil {
			return nil, err
		}
		return inner, nil

	case FN:
		p.i++
		trunk, err := p.fnTrunk()
		if err != nil {
			return nil, err
		}
		n := &Fn{Trunk: trunk}
		p.finish(n, t.StartByte)
		return n, nil

	case IF, LOOP, LBRACE:
		return p.blockShapedExpr()

	default:
		return nil, p.errHere("an expression")
	}
}

// blockShapedExpr parses an if, loop, or bare block expression. Callers in
// statement position use this directly so the result is not continued into
// operators.
func (p *parser) blockShapedExpr() (Expression, error) {
	t := p.peek()
	switch t.Type {
	case IF:
		return p.ifExpr()
	case LOOP:
		p.i++
		if _, err := p.need(LBRACE, "a loop body"); err != nil {
			return nil, err
		}
		body, err := p.blockAfterBrace()
		if err != nil {
			return nil, err
		}
		n := &Loop{Body: *body}
		p.finish(n, t.StartByte)
		return n, nil
	default:
		if _, err := p.need(LBRACE, "a block"); err != nil {
			return nil, err
		}
		blk, err := p.blockAfterBrace()
		if err != nil {
			return nil, err
		}
		return blk, nil
	}
}

func (p *parser) ifExpr() (Expression, error) {
	start := p.peek().StartByte
	n := &If{}
	for {
		if _, err := p.need(IF, "an 'if' expression"); err != nil {
			return nil, err
		}
		cond, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(LBRACE, "an 'if' branch"); err != nil {
			return nil, err
		}
		then, err := p.blockAfterBrace()
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, Branch{Condition: cond, Then: *then})

		if !p.match(ELSE) {
			break
		}
		if p.check(IF) {
			continue
		}
		if _, err := p.need(LBRACE, "an 'else' branch"); err != nil {
			return nil, err
		}
		n.Else, err = p.blockAfterBrace()
		if err != nil {
			return nil, err
		}
		break
	}
	p.finish(n, start)
	return n, nil
}

// blockAfterBrace parses statements up to the matching '}', whose opening
// '{' has been consumed already. A final expression without ';' becomes the
// block's tail.
func (p *parser) blockAfterBrace() (*Block, error) {
	start := p.prev().StartByte
	blk := &Block{}
	for !p.check(RBRACE) && !p.atEnd() {
		stmt, tail, err := p.blockItem(RBRACE)
		if err != nil {
			return nil, err
		}
		if tail != nil {
			blk.Expression = tail
			break
		}
		blk.Statements = append(blk.Statements, stmt)
	}
	if _, err := p.need(RBRACE, "a block"); err != nil {
		return nil, err
	}
	p.finish(blk, start)
	return blk, nil
}
