package parser

import (
	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/lexer"
	"github.com/example/gtscript/token"
)

// ---------- Expression Parsing (Pratt) ----------

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefixExpression()
	for {
		prec := p.infixPrecedence()
		if prec <= minPrec {
			break
		}
		left = p.parseInfixExpression(left)
	}
	return left
}

func (p *Parser) parseAssignmentExpression() ast.Expression {
	return p.parseExpression(precComma)
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	switch tok.Type {
	case token.Identifier:
		if p.peekTokenIs(token.Arrow) {
			return p.parseSingleParamArrow()
		}
		return p.parseIdentifier()
	case token.Number:
		return p.parseNumberLiteral()
	case token.String:
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.True, token.False:
		p.nextToken()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.True}
	case token.Null:
		p.nextToken()
		return &ast.NullLiteral{Token: tok}
	case token.Undefined:
		p.nextToken()
		return &ast.UndefinedLiteral{Token: tok}
	case token.This:
		p.nextToken()
		return &ast.ThisExpression{Token: tok}
	case token.LeftParen:
		if p.arrowAhead() {
			return p.parseArrowFunction()
		}
		p.nextToken()
		expr := p.parseExpression(0)
		p.expect(token.RightParen)
		return expr
	case token.LeftBracket:
		return p.parseArrayLiteral()
	case token.LeftBrace:
		return p.parseObjectLiteral()
	case token.Function:
		p.nextToken()
		name := ""
		if p.curTokenIs(token.Identifier) {
			name = p.curToken.Literal
			p.nextToken()
		}
		return p.parseFunctionRest(tok, name)
	case token.New:
		return p.parseNewExpression()
	case token.Not, token.BitwiseNot, token.Typeof, token.Void, token.Plus, token.Minus:
		p.nextToken()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
	case token.Increment, token.Decrement:
		p.nextToken()
		target := p.parseExpression(precUnary)
		return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Prefix: true, Target: target}
	case token.Spread:
		return p.parseSpreadElement()
	}
	p.addError("unexpected token %s (%q)", tok.Type, tok.Literal)
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return ident
}

func (p *Parser) parseNumberLiteral() *ast.NumberLiteral {
	lit := &ast.NumberLiteral{Token: p.curToken}
	n, err := lexer.ParseNumber(p.curToken.Literal)
	if err != nil {
		p.addError("invalid number %q", p.curToken.Literal)
	}
	lit.Value = n
	p.nextToken()
	return lit
}

func (p *Parser) parseSpreadElement() *ast.SpreadElement {
	spread := &ast.SpreadElement{Token: p.curToken}
	p.nextToken()
	spread.Argument = p.parseAssignmentExpression()
	return spread
}

// arrowAhead reports whether the parenthesis at the current token opens
// an arrow function parameter list.
func (p *Parser) arrowAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace:
			depth--
			if depth == 0 {
				if i+1 >= len(p.toks) {
					return false
				}
				next := p.toks[i+1]
				if next.Type == token.Arrow {
					return true
				}
				// "(a): T => ..." has a return type annotation
				if next.Type == token.Colon {
					return p.returnTypeArrowAt(i + 2)
				}
				return false
			}
		case token.EOF:
			return false
		}
	}
	return false
}

// returnTypeArrowAt scans a return type starting at index i and reports
// whether "=>" follows it on the same logical expression.
func (p *Parser) returnTypeArrowAt(i int) bool {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case token.LeftParen, token.LeftBracket, token.LeftBrace, token.LessThan:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace, token.GreaterThan:
			if depth == 0 {
				return false
			}
			depth--
		case token.Arrow:
			if depth == 0 {
				return true
			}
		case token.Semicolon, token.Comma, token.Assign, token.EOF:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}

func (p *Parser) parseArrowFunction() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken, Arrow: true}
	fn.Params, fn.Rest = p.parseParams()
	p.skipTypeAnnotation()
	p.expect(token.Arrow)
	fn.Body = p.parseArrowBody()
	return fn
}

func (p *Parser) parseSingleParamArrow() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken, Arrow: true}
	fn.Params = []*ast.Param{{Name: p.parseIdentifier()}}
	p.expect(token.Arrow)
	fn.Body = p.parseArrowBody()
	return fn
}

// parseArrowBody wraps an expression body in a block returning it.
func (p *Parser) parseArrowBody() *ast.BlockStatement {
	if p.curTokenIs(token.LeftBrace) {
		return p.parseBlockStatement()
	}
	tok := p.curToken
	noIn := p.noIn
	p.noIn = false
	value := p.parseAssignmentExpression()
	p.noIn = noIn
	return &ast.BlockStatement{Token: tok, Statements: []ast.Statement{
		&ast.ReturnStatement{Token: tok, Value: value},
	}}
}

// parseArrayLiteral keeps interior elisions as nil holes. Elisions that
// end the literal are dropped and do not extend its length.
func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	lit := &ast.ArrayLiteral{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RightBracket) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.Comma) {
			lit.Elements = append(lit.Elements, nil)
			p.nextToken()
			continue
		}
		lit.Elements = append(lit.Elements, p.parseAssignmentExpression())
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightBracket)
	for len(lit.Elements) > 0 && lit.Elements[len(lit.Elements)-1] == nil {
		lit.Elements = lit.Elements[:len(lit.Elements)-1]
	}
	return lit
}

func (p *Parser) parseObjectLiteral() *ast.ObjectLiteral {
	lit := &ast.ObjectLiteral{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		prop := p.parseObjectProperty()
		if prop == nil {
			break
		}
		lit.Properties = append(lit.Properties, prop)
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightBrace)
	return lit
}

func (p *Parser) parseObjectProperty() *ast.Property {
	prop := &ast.Property{}
	keyTok := p.curToken
	switch {
	case p.curTokenIs(token.LeftBracket):
		p.nextToken()
		prop.Key = p.parseAssignmentExpression()
		prop.Computed = true
		p.expect(token.RightBracket)
	case p.curTokenIs(token.String):
		prop.Key = &ast.StringLiteral{Token: keyTok, Value: keyTok.Literal}
		p.nextToken()
	case p.curTokenIs(token.Number):
		prop.Key = p.parseNumberLiteral()
	case isPropertyName(keyTok):
		prop.Key = &ast.Identifier{Token: keyTok, Value: keyTok.Literal}
		p.nextToken()
	default:
		p.addError("unexpected token %s (%q) in object literal", keyTok.Type, keyTok.Literal)
		return nil
	}

	switch {
	case p.curTokenIs(token.Colon):
		p.nextToken()
		prop.Value = p.parseAssignmentExpression()
	case p.curTokenIs(token.LeftParen):
		prop.Value = p.parseFunctionRest(keyTok, keyTok.Literal)
	case keyTok.Type == token.Identifier && !prop.Computed:
		// shorthand {a}
		prop.Value = &ast.Identifier{Token: keyTok, Value: keyTok.Literal}
	default:
		p.addError("expected : after property name, got %s", p.curToken.Type)
	}
	return prop
}

// isPropertyName accepts identifiers and reserved words, which are valid
// after a dot and as record keys.
func isPropertyName(tok token.Token) bool {
	if tok.Type == token.Identifier {
		return true
	}
	_, ok := token.Keywords[tok.Literal]
	return ok
}

func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.curToken}
	p.nextToken()
	var callee ast.Expression
	if p.curTokenIs(token.New) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrefixExpression()
	}
	for {
		if p.curTokenIs(token.Dot) {
			callee = p.parseDotMember(callee)
		} else if p.curTokenIs(token.LeftBracket) {
			callee = p.parseBracketMember(callee)
		} else {
			break
		}
	}
	expr.Callee = callee
	p.skipTypeArguments()
	if p.curTokenIs(token.LeftParen) {
		expr.Arguments = p.parseArguments()
	}
	return expr
}

// ---------- Infix Parsing ----------

func (p *Parser) infixPrecedence() int {
	switch p.curToken.Type {
	case token.Comma:
		return precComma
	case token.Assign, token.PlusAssign, token.MinusAssign, token.AsteriskAssign,
		token.SlashAssign, token.PercentAssign, token.AmpersandAssign, token.PipeAssign,
		token.CaretAssign, token.LeftShiftAssign, token.RightShiftAssign,
		token.UnsignedRightShiftAssign:
		return precAssignment
	case token.Question:
		return precConditional
	case token.Nullish:
		return precNullishCoalesce
	case token.Or:
		return precLogicalOr
	case token.And:
		return precLogicalAnd
	case token.BitwiseOr:
		return precBitwiseOr
	case token.BitwiseXor:
		return precBitwiseXor
	case token.BitwiseAnd:
		return precBitwiseAnd
	case token.Equal, token.NotEqual, token.StrictEqual, token.StrictNotEqual:
		return precEquality
	case token.LessThan, token.GreaterThan, token.LessThanOrEqual, token.GreaterThanOrEqual:
		return precRelational
	case token.In:
		if p.noIn {
			return 0
		}
		return precRelational
	case token.LeftShift, token.RightShift, token.UnsignedRightShift:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Asterisk, token.Slash, token.Percent:
		return precMultiplicative
	case token.Increment, token.Decrement:
		// a line break before ++ starts a new statement
		if p.curToken.NewlineBefore {
			return 0
		}
		return precPostfix
	case token.Not:
		// non-null assertion "x!"
		if !p.curToken.NewlineBefore {
			return precPostfix
		}
	case token.LeftParen:
		return precCall
	case token.Dot, token.LeftBracket:
		return precMember
	case token.Identifier:
		if p.curToken.Literal == "as" && !p.curToken.NewlineBefore {
			return precRelational
		}
	}
	return 0
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	switch p.curToken.Type {
	case token.Comma:
		return p.parseSequenceExpression(left)
	case token.Assign, token.PlusAssign, token.MinusAssign, token.AsteriskAssign,
		token.SlashAssign, token.PercentAssign, token.AmpersandAssign, token.PipeAssign,
		token.CaretAssign, token.LeftShiftAssign, token.RightShiftAssign,
		token.UnsignedRightShiftAssign:
		tok := p.curToken
		p.nextToken()
		value := p.parseAssignmentExpression()
		return &ast.AssignmentExpression{Token: tok, Operator: tok.Literal, Target: left, Value: value}
	case token.Question:
		return p.parseConditionalExpression(left)
	case token.Or, token.And, token.Nullish:
		tok := p.curToken
		prec := p.infixPrecedence()
		p.nextToken()
		right := p.parseExpression(prec)
		return &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	case token.LeftParen:
		tok := p.curToken
		return &ast.CallExpression{Token: tok, Callee: left, Arguments: p.parseArguments()}
	case token.Dot:
		return p.parseDotMember(left)
	case token.LeftBracket:
		return p.parseBracketMember(left)
	case token.Increment, token.Decrement:
		tok := p.curToken
		p.nextToken()
		return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Target: left}
	case token.Not:
		p.nextToken()
		return left
	case token.Identifier:
		// "expr as Type" is a type assertion and has no runtime effect
		p.nextToken()
		p.skipType()
		return left
	}
	tok := p.curToken
	prec := p.infixPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseSequenceExpression(left ast.Expression) ast.Expression {
	seq := &ast.SequenceExpression{Token: p.curToken, Expressions: []ast.Expression{left}}
	for p.curTokenIs(token.Comma) {
		p.nextToken()
		seq.Expressions = append(seq.Expressions, p.parseAssignmentExpression())
	}
	return seq
}

func (p *Parser) parseConditionalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken() // consume ?
	noIn := p.noIn
	p.noIn = false
	consequent := p.parseAssignmentExpression()
	p.noIn = noIn
	p.expect(token.Colon)
	alternate := p.parseAssignmentExpression()
	return &ast.ConditionalExpression{Token: tok, Test: left, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.nextToken() // consume (
	var args []ast.Expression
	noIn := p.noIn
	p.noIn = false
	for !p.curTokenIs(token.RightParen) && !p.curTokenIs(token.EOF) {
		args = append(args, p.parseAssignmentExpression())
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.noIn = noIn
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parseDotMember(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken() // consume .
	if !isPropertyName(p.curToken) {
		p.addError("expected property name after ., got %s", p.curToken.Type)
		return left
	}
	prop := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop}
}

func (p *Parser) parseBracketMember(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken() // consume [
	noIn := p.noIn
	p.noIn = false
	prop := p.parseExpression(0)
	p.noIn = noIn
	p.expect(token.RightBracket)
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop, Computed: true}
}
