package parser

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case ch == '/' && l.peekN(1) == '*':
		l.advanceN(2)
		for l.peek() != 0 && !(l.peek() == '*' && l.peekN(1) == '/') {
			l.advance()
		}
		l.advanceN(2)
		return l.token(TokenComment, start)
	case isSpace(ch):
		for isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case isJavaLetter(l.input[l.pos:]):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenCharLiteral)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenStringLiteral)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) && isJavaLetterOrDigit(l.input[l.pos:]) {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.advanceN(size)
	}
	tok := l.token(TokenIdent, start)

	if tok.Literal == "non" && l.peek() == '-' {
		rest := l.input[l.pos:]
		if len(rest) >= 7 && string(rest[:7]) == "-sealed" &&
			(len(rest) == 7 || !isJavaLetterOrDigit(rest[7:])) {
			l.advanceN(7)
			return l.token(TokenNonSealed, start)
		}
	}

	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	hex := false
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		hex = true
		l.advanceN(2)
	}
	for {
		ch := l.peek()
		switch {
		case ch == '_' || isDigit(ch) || (hex && isHexDigit(ch)):
			l.advance()
		case ch == '.':
			kind = TokenFloatLiteral
			l.advance()
		case !hex && (ch == 'e' || ch == 'E'), hex && (ch == 'p' || ch == 'P'):
			kind = TokenFloatLiteral
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
		case !hex && (ch == 'f' || ch == 'F' || ch == 'd' || ch == 'D'):
			l.advance()
			return l.token(TokenFloatLiteral, start)
		case ch == 'l' || ch == 'L' || ch == 'b' || ch == 'B':
			l.advance()
		default:
			return l.token(kind, start)
		}
	}
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for {
		ch := l.peek()
		switch ch {
		case 0, '\n':
			return l.token(TokenError, start)
		case '\\':
			l.advanceN(2)
		case quote:
			l.advance()
			return l.token(kind, start)
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for {
		switch {
		case l.peek() == 0:
			return l.token(TokenError, start)
		case l.peek() == '\\':
			l.advanceN(2)
		case l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"':
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		default:
			l.advance()
		}
	}
}

var punctuation = map[string]TokenKind{
	"(": TokenLParen, ")": TokenRParen,
	"{": TokenLBrace, "}": TokenRBrace,
	"[": TokenLBracket, "]": TokenRBracket,
	";": TokenSemicolon, ",": TokenComma,
	".": TokenDot, "...": TokenEllipsis,
	"@": TokenAt, "?": TokenQuestion,
	":": TokenColon, "::": TokenColonColon,
	"=": TokenAssign, "<": TokenLT, ">": TokenGT,
	"&": TokenBitAnd, "->": TokenArrow,
}

// scanOperator never merges '>' with a following character so that nested
// type arguments close one bracket at a time. Everything that is not
// structural punctuation collapses into TokenOperator.
func (l *Lexer) scanOperator(start Position) Token {
	for _, n := range []int{3, 2} {
		if l.pos+n > len(l.input) {
			continue
		}
		if kind, ok := punctuation[string(l.input[l.pos:l.pos+n])]; ok {
			l.advanceN(n)
			return l.token(kind, start)
		}
	}
	ch := l.advance()
	if kind, ok := punctuation[string(ch)]; ok {
		return l.token(kind, start)
	}
	for isOperatorChar(l.peek()) && l.peek() != '>' && l.peek() != '<' {
		l.advance()
	}
	return l.token(TokenOperator, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOperatorChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '!', '~', '^', '|', '&', '=', '<', '>':
		return true
	}
	return false
}

func isJavaLetter(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] < utf8.RuneSelf {
		ch := b[0]
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
	}
	r, _ := utf8.DecodeRune(b)
	return unicode.IsLetter(r)
}

func isJavaLetterOrDigit(b []byte) bool {
	if len(b) > 0 && isDigit(b[0]) {
		return true
	}
	if isJavaLetter(b) {
		return true
	}
	r, _ := utf8.DecodeRune(b)
	return r >= utf8.RuneSelf && unicode.IsDigit(r)
}
