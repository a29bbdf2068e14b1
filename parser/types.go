package parser

import "github.com/example/gtscript/token"

// Type annotations are parsed only to be discarded; the evaluator is
// untyped.

func (p *Parser) skipTypeAnnotation() {
	if p.curTokenIs(token.Colon) {
		p.nextToken()
		p.skipType()
	}
}

// skipType consumes one type expression: unions, intersections, array
// suffixes, generic arguments, object and tuple types, function types and
// type predicates.
func (p *Parser) skipType() {
	if p.curTokenIs(token.BitwiseOr) || p.curTokenIs(token.BitwiseAnd) {
		p.nextToken()
	}
	for {
		p.skipPrimaryType()
		for p.curTokenIs(token.LeftBracket) && !p.curToken.NewlineBefore {
			if p.peekTokenIs(token.RightBracket) {
				p.nextToken()
				p.nextToken()
				continue
			}
			p.skipBalanced(token.LeftBracket, token.RightBracket)
		}
		if p.curIsWord("is") && !p.curToken.NewlineBefore {
			p.nextToken()
			continue
		}
		if p.curTokenIs(token.BitwiseOr) || p.curTokenIs(token.BitwiseAnd) {
			p.nextToken()
			continue
		}
		return
	}
}

func (p *Parser) skipPrimaryType() {
	switch p.curToken.Type {
	case token.LeftParen:
		p.skipBalanced(token.LeftParen, token.RightParen)
		if p.curTokenIs(token.Arrow) {
			p.nextToken()
			p.skipType()
		}
	case token.LeftBrace:
		p.skipBalanced(token.LeftBrace, token.RightBrace)
	case token.LeftBracket:
		p.skipBalanced(token.LeftBracket, token.RightBracket)
	case token.Typeof:
		p.nextToken()
		p.skipPrimaryType()
	case token.String, token.Number, token.True, token.False, token.Null,
		token.Undefined, token.Void, token.This:
		p.nextToken()
	case token.Minus:
		p.nextToken() // negative literal type
		p.nextToken()
	case token.Identifier:
		if p.curIsWord("keyof") || p.curIsWord("readonly") {
			p.nextToken()
			p.skipPrimaryType()
			return
		}
		p.nextToken()
		for p.curTokenIs(token.Dot) {
			p.nextToken()
			p.nextToken()
		}
		p.skipTypeArguments()
	default:
		p.addError("unexpected token %s (%q) in type", p.curToken.Type, p.curToken.Literal)
	}
}

// skipBalanced consumes from an opening delimiter to its matching close.
func (p *Parser) skipBalanced(open, close token.TokenType) {
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
	p.addError("unterminated %s", open)
}

func (p *Parser) skipTypeParameters() {
	p.skipTypeArguments()
}

// skipTypeArguments consumes "<...>". Closing angles may arrive fused as
// ">>" or ">>>".
func (p *Parser) skipTypeArguments() {
	if !p.curTokenIs(token.LessThan) {
		return
	}
	depth := 0
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LessThan:
			depth++
		case token.GreaterThan:
			depth--
		case token.RightShift:
			depth -= 2
		case token.UnsignedRightShift:
			depth -= 3
		}
		p.nextToken()
		if depth <= 0 {
			return
		}
	}
	p.addError("unterminated type arguments")
}
