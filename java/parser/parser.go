package parser

import "io"

// Option configures a Parser.
type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

// Parser reads the declaration structure of a Java compilation unit:
// package, imports, types, fields, methods and their signatures.
// Method bodies, initializer blocks and field initializers are skipped
// by balanced bracket scanning and only appear as spans.
type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	tokens          []Token
	comments        []Token
	pos             int
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) File() string {
	return p.file
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Finish parses the whole input. It returns nil when the input cannot be
// read or is empty; syntax errors are reported as KindError nodes.
func (p *Parser) Finish() *Node {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return nil
		}
		p.input = data
	}
	if len(p.input) == 0 {
		return nil
	}
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.tokenize()
	return p.parseCompilationUnit()
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind TokenKind) *Token {
	if p.check(kind) {
		tok := p.advance()
		return &tok
	}
	return nil
}

// mustProgress returns a function that reports whether the parser moved
// since it was created, forcing a single token of progress if it did not.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			p.advance()
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	return n
}

func (p *Parser) identifier() *Node {
	tok := p.advance()
	return &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
}

func (p *Parser) errorNode(msg string, recoverTo ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: msg, Expected: recoverTo, Got: &tok},
	}
	p.advance()
	for !p.check(TokenEOF) {
		for _, kind := range recoverTo {
			if p.check(kind) {
				return node
			}
		}
		p.advance()
	}
	return node
}

// skipBalanced consumes a bracketed group starting at the current opening
// token and returns a KindBody node spanning it.
func (p *Parser) skipBalanced(open, close TokenKind) *Node {
	node := p.startNode(KindBody)
	depth := 0
	for !p.check(TokenEOF) {
		switch p.advance().Kind {
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	return p.finishNode(node)
}

// skipExpression consumes tokens up to a top-level ',' or ';' or a closing
// token that belongs to the caller. A ',' only ends the expression when it
// is followed by what looks like another variable declarator, so commas in
// generic arguments of a constructor call are stepped over.
func (p *Parser) skipExpression() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			if depth == 0 {
				return
			}
			depth--
		case TokenSemicolon:
			if depth == 0 {
				return
			}
		case TokenComma:
			if depth == 0 && p.startsDeclarator(1) {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) startsDeclarator(offset int) bool {
	if p.peekN(offset).Kind != TokenIdent {
		return false
	}
	switch p.peekN(offset + 1).Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenLBracket:
		return true
	}
	return false
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	var leading *Node
	if p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		leading = p.parseModifiers()
	}
	if p.check(TokenPackage) {
		pkg := p.startNode(KindPackageDecl)
		if leading != nil {
			pkg.Span.Start = leading.Span.Start
			pkg.AddChild(leading)
			leading = nil
		}
		p.advance()
		pkg.AddChild(p.parseQualifiedName())
		p.expect(TokenSemicolon)
		node.AddChild(p.finishNode(pkg))
	}

	for leading == nil && p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		if lit := p.peek().Literal; p.check(TokenIdent) && (lit == "module" || lit == "open") {
			// module-info.java declares no types.
			for !p.check(TokenEOF) {
				p.advance()
			}
			break
		}
		modifiers := leading
		leading = nil
		if modifiers == nil {
			modifiers = p.parseModifiers()
		}
		if decl := p.parseTypeDecl(modifiers); decl != nil {
			node.AddChild(decl)
		} else {
			node.AddChild(p.errorNode("expected type declaration",
				TokenAt, TokenPublic, TokenClass, TokenInterface, TokenEnum, TokenRecord, TokenAbstract, TokenFinal))
		}
		progress()
	}

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenStatic) {
		node.AddChild(p.identifier())
	}
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenDot) && p.peekN(1).Kind == TokenOperator && p.peekN(1).Literal == "*" {
		p.advance()
		node.AddChild(p.identifier())
	}

	if p.expect(TokenSemicolon) == nil {
		return p.errorNode("expected ';' after import", TokenImport, TokenAt, TokenPublic, TokenClass)
	}
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	if !p.isIdentifierLike() {
		return p.errorNode("expected identifier", TokenSemicolon, TokenLBrace)
	}
	node.AddChild(p.identifier())
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		node.AddChild(p.identifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenNonSealed:
			node.AddChild(p.identifier())
		case TokenSealed:
			if p.peekN(1).Kind == TokenLParen || p.peekN(1).Kind == TokenAssign {
				return p.finishNode(node)
			}
			node.AddChild(p.identifier())
		default:
			return p.finishNode(node)
		}
	}
}

// parseAnnotation keeps the annotation name; element values are skipped.
func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLParen) {
		node.AddChild(p.skipBalanced(TokenLParen, TokenRParen))
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeDecl(modifiers *Node) *Node {
	var kind NodeKind
	switch p.peek().Kind {
	case TokenClass:
		kind = KindClassDecl
	case TokenInterface:
		kind = KindInterfaceDecl
	case TokenEnum:
		kind = KindEnumDecl
	case TokenRecord:
		if p.peekN(1).Kind != TokenIdent {
			return nil
		}
		kind = KindRecordDecl
	case TokenAt:
		if p.peekN(1).Kind != TokenInterface {
			return nil
		}
		kind = KindAnnotationDecl
		p.advance()
	default:
		return nil
	}

	node := p.startNode(kind)
	if modifiers != nil {
		if len(modifiers.Children) > 0 {
			node.Span.Start = modifiers.Span.Start
		}
		node.AddChild(modifiers)
	}
	p.advance()

	if !p.isIdentifierLike() {
		node.AddChild(p.errorNode("expected type name", TokenLBrace))
	} else {
		node.AddChild(p.identifier())
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if kind == KindRecordDecl && p.check(TokenLParen) {
		node.AddChild(p.parseParameters())
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}
	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	if !p.check(TokenLBrace) {
		node.AddChild(p.errorNode("expected '{'", TokenLBrace))
		if !p.check(TokenLBrace) {
			return p.finishNode(node)
		}
	}
	node.AddChild(p.parseClassBody(kind == KindEnumDecl))
	return p.finishNode(node)
}

func (p *Parser) parseTypeClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassBody(isEnum bool) *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	if isEnum {
		p.parseEnumConstants(node)
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseClassMember())
		progress()
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstants(body *Node) {
	for p.isIdentifierLike() || p.check(TokenAt) {
		constant := p.startNode(KindEnumConstant)
		constant.AddChild(p.parseModifiers())
		if !p.isIdentifierLike() {
			body.AddChild(p.errorNode("expected enum constant", TokenComma, TokenSemicolon, TokenRBrace))
			break
		}
		constant.AddChild(p.identifier())
		if p.check(TokenLParen) {
			p.skipBalanced(TokenLParen, TokenRParen)
		}
		if p.check(TokenLBrace) {
			constant.AddChild(p.skipBalanced(TokenLBrace, TokenRBrace))
		}
		body.AddChild(p.finishNode(constant))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	p.expect(TokenSemicolon)
}

var memberRecovery = []TokenKind{
	TokenSemicolon, TokenRBrace, TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenStatic, TokenFinal, TokenAbstract, TokenClass, TokenInterface, TokenEnum,
}

func (p *Parser) parseClassMember() *Node {
	switch {
	case p.check(TokenSemicolon):
		p.advance()
		return nil
	case p.check(TokenLBrace):
		node := p.startNode(KindInitializer)
		node.AddChild(p.skipBalanced(TokenLBrace, TokenRBrace))
		return p.finishNode(node)
	case p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace:
		node := p.startNode(KindInitializer)
		node.AddChild(p.identifier())
		node.AddChild(p.skipBalanced(TokenLBrace, TokenRBrace))
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	if decl := p.parseTypeDecl(modifiers); decl != nil {
		return decl
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		// compact record constructor
		node := p.startNode(KindConstructorDecl)
		node.AddChild(modifiers)
		node.AddChild(p.identifier())
		node.AddChild(p.skipBalanced(TokenLBrace, TokenRBrace))
		return p.finishNode(node)
	}

	typ := p.parseType()
	if typ.IsError() {
		return typ
	}
	if !p.isIdentifierLike() {
		return p.errorNode("expected member name", memberRecovery...)
	}
	if p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(modifiers, typeParams, typ)
	}
	return p.parseField(modifiers, typ)
}

func (p *Parser) parseConstructor(modifiers, typeParams *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if len(modifiers.Children) > 0 {
		node.Span.Start = modifiers.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(p.identifier())
	node.AddChild(p.parseParameters())
	if p.check(TokenThrows) {
		node.AddChild(p.parseTypeClause(KindThrowsList))
	}
	p.parseMethodTail(node)
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	if len(modifiers.Children) > 0 {
		node.Span.Start = modifiers.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	name := p.identifier()
	params := p.parseParameters()
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := &Node{Kind: KindArrayType, Span: returnType.Span}
		wrapper.AddChild(returnType)
		returnType = wrapper
		p.advance()
		p.advance()
	}
	node.AddChild(returnType)
	node.AddChild(name)
	node.AddChild(params)
	if p.check(TokenThrows) {
		node.AddChild(p.parseTypeClause(KindThrowsList))
	}
	p.parseMethodTail(node)
	return p.finishNode(node)
}

// parseMethodTail consumes a body, a ';' or an annotation element default.
func (p *Parser) parseMethodTail(node *Node) {
	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.skipBalanced(TokenLBrace, TokenRBrace))
	case p.check(TokenDefault):
		p.advance()
		p.skipExpression()
		p.expect(TokenSemicolon)
	case p.check(TokenSemicolon):
		p.advance()
	default:
		node.AddChild(p.errorNode("expected method body or ';'", memberRecovery...))
	}
}

func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	if len(modifiers.Children) > 0 {
		node.Span.Start = modifiers.Span.Start
	} else {
		node.Span.Start = typ.Span.Start
	}
	node.AddChild(modifiers)
	node.AddChild(typ)

	for {
		progress := p.mustProgress()
		if !p.isIdentifierLike() {
			node.AddChild(p.errorNode("expected variable name", memberRecovery...))
			return p.finishNode(node)
		}
		v := p.startNode(KindVariable)
		v.AddChild(p.identifier())
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			v.AddChild(p.startNode(KindArrayType))
			p.advance()
			p.advance()
		}
		if p.check(TokenAssign) {
			p.advance()
			p.skipExpression()
		}
		node.AddChild(p.finishNode(v))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';' after field", memberRecovery...))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if param := p.parseParameter(); param != nil {
			node.AddChild(param)
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	if p.expect(TokenRParen) == nil {
		return p.errorNode("expected ')'", TokenRParen, TokenLBrace, TokenSemicolon)
	}
	return p.finishNode(node)
}

// parseParameter returns nil for a receiver parameter such as "Foo this".
func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	typ := p.parseType()
	if p.check(TokenEllipsis) {
		p.advance()
		wrapper := &Node{Kind: KindArrayType, Span: typ.Span}
		wrapper.AddChild(typ)
		typ = wrapper
	}
	node.AddChild(typ)

	if p.check(TokenThis) {
		p.advance()
		return nil
	}
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenDot && p.peekN(2).Kind == TokenThis {
		p.advance()
		p.advance()
		p.advance()
		return nil
	}
	if !p.isIdentifierLike() {
		return p.errorNode("expected parameter name", TokenComma, TokenRParen)
	}
	node.AddChild(p.identifier())
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		node.AddChild(p.startNode(KindArrayType))
		p.advance()
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)
	for !p.check(TokenGT) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		param := p.startNode(KindTypeParameter)
		for p.check(TokenAt) {
			param.AddChild(p.parseAnnotation())
		}
		if p.isIdentifierLike() {
			param.AddChild(p.identifier())
		}
		if p.check(TokenExtends) {
			p.advance()
			for {
				param.AddChild(p.parseType())
				if !p.check(TokenBitAnd) {
					break
				}
				p.advance()
			}
		}
		node.AddChild(p.finishNode(param))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		node.AddChild(p.identifier())
	case TokenIdent, TokenRecord, TokenSealed, TokenPermits:
		name := p.startNode(KindQualifiedName)
		var args *Node
		for {
			name.AddChild(p.identifier())
			if p.check(TokenLT) {
				args = p.parseTypeArguments()
			}
			if !p.check(TokenDot) || p.peekN(1).Kind != TokenIdent {
				break
			}
			p.advance()
		}
		node.AddChild(p.finishNode(name))
		node.AddChild(args)
	default:
		return p.errorNode("expected type", TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace)
	}
	node = p.finishNode(node)

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: node.Span.Start}}
		p.advance()
		p.advance()
		wrapper.AddChild(node)
		node = p.finishNode(wrapper)
	}
	return node
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)
	for !p.check(TokenGT) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenQuestion) {
			wildcard := p.startNode(KindWildcard)
			p.advance()
			if p.check(TokenExtends) || p.check(TokenSuper) {
				wildcard.AddChild(p.identifier())
				wildcard.AddChild(p.parseType())
			}
			node.AddChild(p.finishNode(wildcard))
		} else {
			node.AddChild(p.parseType())
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenGT)
	return p.finishNode(node)
}
