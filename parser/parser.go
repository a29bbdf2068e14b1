package parser

import (
	"errors"
	"fmt"

	"github.com/example/gtscript/ast"
	"github.com/example/gtscript/lexer"
	"github.com/example/gtscript/token"
)

// Precedence levels for Pratt parsing
const (
	_ int = iota
	precComma
	precAssignment
	precConditional
	precNullishCoalesce
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precCall
	precMember
)

// Parser works over the complete token stream so that arrow functions
// and type annotations can be recognised by looking ahead.
type Parser struct {
	toks     []token.Token
	pos      int
	curToken token.Token
	errors   []error
	noIn     bool // stop at "in" while parsing a for head
}

func New(source string) *Parser {
	p := &Parser{toks: lexer.Tokenize(source)}
	p.curToken = p.toks[0]
	return p
}

// Parse is a convenience wrapper that joins all parse errors.
func Parse(source string) (*ast.Program, error) {
	program, errs := New(source).ParseProgram()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return program, nil
}

func (p *Parser) ParseProgram() (*ast.Program, []error) {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		start := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if p.pos == start {
			// no progress; drop the token to avoid looping
			p.nextToken()
		}
		if len(p.errors) > 20 {
			break
		}
	}
	return program, p.errors
}

func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.curToken = p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) peekToken() token.Token { return p.peekAt(1) }

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken().Type == t
}

// curIsWord reports whether the current token is the identifier word.
func (p *Parser) curIsWord(word string) bool {
	return p.curToken.Type == token.Identifier && p.curToken.Literal == word
}

func (p *Parser) expect(t token.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError("expected %s, got %s (%q)", t, p.curToken.Type, p.curToken.Literal)
	return false
}

func (p *Parser) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	err := fmt.Errorf("parse error at %d:%d: %s", p.curToken.Line, p.curToken.Column, msg)
	p.errors = append(p.errors, err)
}

// consumeSemicolon ends a statement. A semicolon may be left out before a
// closing brace, at the end of input, or when a line break follows.
func (p *Parser) consumeSemicolon() {
	switch {
	case p.curTokenIs(token.Semicolon):
		p.nextToken()
	case p.curTokenIs(token.RightBrace), p.curTokenIs(token.EOF), p.curToken.NewlineBefore:
	default:
		p.addError("expected ;, got %s (%q)", p.curToken.Type, p.curToken.Literal)
	}
}

// parseStatement dispatches to the appropriate statement parser.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.Var, token.Let, token.Const:
		decl := p.parseVariableDeclaration()
		p.consumeSemicolon()
		return decl
	case token.LeftBrace:
		return p.parseBlockStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.If:
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.For:
		return p.parseForStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Function:
		if decl := p.parseFunctionDeclaration(); decl != nil {
			return decl
		}
		return nil
	case token.Class:
		if decl := p.parseClassDeclaration(); decl != nil {
			return decl
		}
		return nil
	case token.Import:
		return p.parseImportDeclaration()
	case token.Export:
		return p.parseExportDeclaration()
	case token.Semicolon:
		stmt := &ast.EmptyStatement{Token: p.curToken}
		p.nextToken()
		return stmt
	case token.Identifier:
		if p.peekTokenIs(token.Colon) {
			return p.parseLabeledStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken, Kind: p.curToken.Literal}
	p.nextToken()
	for {
		d := p.parseVariableDeclarator()
		if d == nil {
			break
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseVariableDeclarator() *ast.VariableDeclarator {
	if !p.curTokenIs(token.Identifier) {
		p.addError("expected variable name, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	d := &ast.VariableDeclarator{Name: p.parseIdentifier()}
	if p.curTokenIs(token.Not) {
		p.nextToken() // definite assignment "x!: T"
	}
	p.skipTypeAnnotation()
	if p.curTokenIs(token.Assign) {
		p.nextToken()
		d.Value = p.parseAssignmentExpression()
	}
	return d
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.expect(token.LeftBrace)
	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		start := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.pos == start {
			p.nextToken()
		}
	}
	p.expect(token.RightBrace)
	return block
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()
	if !p.curTokenIs(token.Semicolon) && !p.curTokenIs(token.RightBrace) &&
		!p.curTokenIs(token.EOF) && !p.curToken.NewlineBefore {
		stmt.Value = p.parseExpression(0)
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Consequence = p.parseStatement()
	if p.curTokenIs(token.Else) {
		p.nextToken()
		stmt.Alternative = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Body = p.parseStatement()
	p.expect(token.While)
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression(0)
	p.expect(token.RightParen)
	if p.curTokenIs(token.Semicolon) {
		p.nextToken()
	}
	return stmt
}

// parseForStatement handles the three for forms. The head is parsed with
// "in" disabled so that "for (x in y)" is not read as a comparison.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	p.expect(token.LeftParen)

	var init ast.Node
	switch {
	case p.curTokenIs(token.Semicolon):
	case p.curTokenIs(token.Var), p.curTokenIs(token.Let), p.curTokenIs(token.Const):
		p.noIn = true
		decl := p.parseVariableDeclaration()
		p.noIn = false
		if len(decl.Declarations) == 1 && decl.Declarations[0].Value == nil {
			if iter := p.parseForIteration(tok, decl); iter != nil {
				return iter
			}
		}
		init = decl
	default:
		p.noIn = true
		expr := p.parseExpression(0)
		p.noIn = false
		if iter := p.parseForIteration(tok, expr); iter != nil {
			return iter
		}
		init = expr
	}
	return p.parseForClassic(tok, init)
}

// parseForIteration finishes a for-in or for-of loop when the head
// continues with "in" or "of". It returns nil otherwise.
func (p *Parser) parseForIteration(tok token.Token, left ast.Node) ast.Statement {
	switch {
	case p.curTokenIs(token.In):
		p.nextToken()
		stmt := &ast.ForInStatement{Token: tok, Left: left}
		stmt.Right = p.parseExpression(0)
		p.expect(token.RightParen)
		stmt.Body = p.parseStatement()
		return stmt
	case p.curIsWord("of"):
		p.nextToken()
		stmt := &ast.ForOfStatement{Token: tok, Left: left}
		stmt.Right = p.parseAssignmentExpression()
		p.expect(token.RightParen)
		stmt.Body = p.parseStatement()
		return stmt
	}
	return nil
}

func (p *Parser) parseForClassic(tok token.Token, init ast.Node) *ast.ForStatement {
	stmt := &ast.ForStatement{Token: tok, Init: init}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.Semicolon) {
		stmt.Test = p.parseExpression(0)
	}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.RightParen) {
		stmt.Update = p.parseExpression(0)
	}
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

// optionalLabel reads a jump label, which must sit on the same line.
func (p *Parser) optionalLabel() *ast.Identifier {
	if p.curTokenIs(token.Identifier) && !p.curToken.NewlineBefore {
		return p.parseIdentifier()
	}
	return nil
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	p.nextToken()
	stmt.Label = p.optionalLabel()
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	p.nextToken()
	stmt.Label = p.optionalLabel()
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	p.nextToken()
	p.expect(token.LeftParen)
	stmt.Discriminant = p.parseExpression(0)
	p.expect(token.RightParen)
	p.expect(token.LeftBrace)

	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		sc := &ast.SwitchCase{Token: p.curToken}
		switch {
		case p.curTokenIs(token.Case):
			p.nextToken()
			sc.Test = p.parseExpression(0)
		case p.curTokenIs(token.Default):
			p.nextToken()
		default:
			p.addError("expected case or default, got %s (%q)", p.curToken.Type, p.curToken.Literal)
			p.nextToken()
			continue
		}
		p.expect(token.Colon)
		for !p.curTokenIs(token.Case) && !p.curTokenIs(token.Default) &&
			!p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
			start := p.pos
			if s := p.parseStatement(); s != nil {
				sc.Consequent = append(sc.Consequent, s)
			}
			if p.pos == start {
				p.nextToken()
			}
		}
		stmt.Cases = append(stmt.Cases, sc)
	}
	p.expect(token.RightBrace)
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	if p.curToken.NewlineBefore {
		p.addError("line break is not allowed after throw")
	}
	stmt.Argument = p.parseExpression(0)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.curToken}
	p.nextToken()
	stmt.Block = p.parseBlockStatement()

	if p.curTokenIs(token.Catch) {
		clause := &ast.CatchClause{Token: p.curToken}
		p.nextToken()
		if p.curTokenIs(token.LeftParen) {
			p.nextToken()
			if p.curTokenIs(token.Identifier) {
				clause.Param = p.parseIdentifier()
				p.skipTypeAnnotation()
			} else {
				p.addError("expected catch parameter, got %s", p.curToken.Type)
			}
			p.expect(token.RightParen)
		}
		clause.Body = p.parseBlockStatement()
		stmt.Handler = clause
	}
	if p.curTokenIs(token.Finally) {
		p.nextToken()
		stmt.Finalizer = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.addError("missing catch or finally after try")
	}
	return stmt
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	tok := p.curToken
	p.nextToken() // consume function
	if !p.curTokenIs(token.Identifier) {
		p.addError("expected function name, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	fn := p.parseFunctionRest(tok, name)
	return &ast.FunctionDeclaration{Token: tok, Function: fn}
}

// parseFunctionRest parses "(params) [: type] { body }".
func (p *Parser) parseFunctionRest(tok token.Token, name string) *ast.FunctionLiteral {
	fn := &ast.FunctionLiteral{Token: tok, Name: name}
	p.skipTypeParameters()
	fn.Params, fn.Rest = p.parseParams()
	p.skipTypeAnnotation()
	fn.Body = p.parseBlockStatement()
	return fn
}

// parseParams reads a parenthesised parameter list, dropping type
// annotations and optional markers.
func (p *Parser) parseParams() ([]*ast.Param, *ast.Identifier) {
	var params []*ast.Param
	var rest *ast.Identifier
	p.expect(token.LeftParen)
	for !p.curTokenIs(token.RightParen) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.Spread) {
			p.nextToken()
			if p.curTokenIs(token.Identifier) {
				rest = p.parseIdentifier()
			} else {
				p.addError("expected rest parameter name, got %s", p.curToken.Type)
			}
			p.skipTypeAnnotation()
			if p.curTokenIs(token.Comma) {
				p.nextToken()
			}
			if !p.curTokenIs(token.RightParen) {
				p.addError("rest parameter must be last")
			}
			break
		}
		p.skipModifiers()
		if !p.curTokenIs(token.Identifier) && !p.curTokenIs(token.This) {
			p.addError("expected parameter name, got %s (%q)", p.curToken.Type, p.curToken.Literal)
			break
		}
		param := &ast.Param{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		p.nextToken()
		if p.curTokenIs(token.Question) {
			p.nextToken()
		}
		p.skipTypeAnnotation()
		if p.curTokenIs(token.Assign) {
			p.nextToken()
			param.Default = p.parseAssignmentExpression()
		}
		if param.Name.Value != "this" {
			params = append(params, param)
		}
		if !p.curTokenIs(token.Comma) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RightParen)
	return params, rest
}

var modifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"readonly":  true,
}

// skipModifiers drops TypeScript accessibility modifiers when another
// name follows them.
func (p *Parser) skipModifiers() {
	for p.curTokenIs(token.Identifier) && modifiers[p.curToken.Literal] && p.peekTokenIs(token.Identifier) {
		p.nextToken()
	}
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	decl := &ast.ClassDeclaration{Token: p.curToken}
	p.nextToken()
	if !p.curTokenIs(token.Identifier) {
		p.addError("expected class name, got %s (%q)", p.curToken.Type, p.curToken.Literal)
		return nil
	}
	decl.Name = p.parseIdentifier()
	p.skipTypeParameters()
	if p.curIsWord("extends") {
		p.addError("class inheritance is not supported")
		return nil
	}
	if p.curIsWord("implements") {
		p.nextToken()
		p.skipType()
		for p.curTokenIs(token.Comma) {
			p.nextToken()
			p.skipType()
		}
	}
	p.expect(token.LeftBrace)
	for !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.Semicolon) {
			p.nextToken()
			continue
		}
		p.skipModifiers()
		if p.curIsWord("static") {
			p.addError("static members are not supported")
		}
		if !p.curTokenIs(token.Identifier) {
			p.addError("expected class member, got %s (%q)", p.curToken.Type, p.curToken.Literal)
			p.nextToken()
			continue
		}
		nameTok := p.curToken
		p.nextToken()
		if p.curTokenIs(token.LeftParen) || p.curTokenIs(token.LessThan) {
			fn := p.parseFunctionRest(nameTok, nameTok.Literal)
			if nameTok.Literal == "constructor" {
				decl.Constructor = fn
			} else {
				decl.Methods = append(decl.Methods, fn)
			}
			continue
		}
		field := &ast.ClassField{Name: &ast.Identifier{Token: nameTok, Value: nameTok.Literal}}
		if p.curTokenIs(token.Question) || p.curTokenIs(token.Not) {
			p.nextToken()
		}
		p.skipTypeAnnotation()
		if p.curTokenIs(token.Assign) {
			p.nextToken()
			field.Value = p.parseAssignmentExpression()
		}
		p.consumeSemicolon()
		decl.Fields = append(decl.Fields, field)
	}
	p.expect(token.RightBrace)
	return decl
}

// parseImportDeclaration accepts the namespace form only:
// import * as name from "module"
func (p *Parser) parseImportDeclaration() ast.Statement {
	decl := &ast.ImportDeclaration{Token: p.curToken}
	p.nextToken()
	if !p.expect(token.Asterisk) {
		return nil
	}
	if !p.curIsWord("as") {
		p.addError("expected 'as' in import, got %q", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	if !p.curTokenIs(token.Identifier) {
		p.addError("expected import name, got %s", p.curToken.Type)
		return nil
	}
	decl.Namespace = p.parseIdentifier()
	if !p.curIsWord("from") {
		p.addError("expected 'from' in import, got %q", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	if !p.curTokenIs(token.String) {
		p.addError("expected module name, got %s", p.curToken.Type)
		return nil
	}
	decl.Source = p.curToken.Literal
	p.nextToken()
	p.consumeSemicolon()
	return decl
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	p.nextToken() // consume export
	switch p.curToken.Type {
	case token.Function:
		if decl := p.parseFunctionDeclaration(); decl != nil {
			decl.Exported = true
			return decl
		}
	case token.Class:
		if decl := p.parseClassDeclaration(); decl != nil {
			decl.Exported = true
			return decl
		}
	case token.Var, token.Let, token.Const:
		decl := p.parseVariableDeclaration()
		decl.Exported = true
		p.consumeSemicolon()
		return decl
	default:
		p.addError("unsupported export form %s (%q)", p.curToken.Type, p.curToken.Literal)
	}
	return nil
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	stmt := &ast.LabeledStatement{Token: p.curToken, Label: p.parseIdentifier()}
	p.nextToken() // consume :
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(0)
	p.consumeSemicolon()
	return stmt
}
