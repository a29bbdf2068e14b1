package ast

import "github.com/example/gtscript/token"

// Node is the interface all AST nodes implement.
type Node interface {
	TokenLiteral() string
	nodeType() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) nodeType() string { return "Program" }

// NodeType names the concrete node, as used in diagnostics.
func NodeType(n Node) string { return n.nodeType() }

// ---------- Statements ----------

type VariableDeclaration struct {
	Token        token.Token
	Kind         string // "var", "let" or "const"
	Declarations []*VariableDeclarator
	Exported     bool
}

type VariableDeclarator struct {
	Name  *Identifier
	Value Expression // nil when the declaration has no initializer
}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // may be nil
}

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement // may be nil
}

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

type DoWhileStatement struct {
	Token     token.Token
	Body      Statement
	Condition Expression
}

type ForStatement struct {
	Token  token.Token
	Init   Node       // *VariableDeclaration, Expression or nil
	Test   Expression // nil means always true
	Update Expression // may be nil
	Body   Statement
}

// ForInStatement and ForOfStatement share a shape. Left is a single-name
// *VariableDeclaration or an assignable Expression.
type ForInStatement struct {
	Token token.Token
	Left  Node
	Right Expression
	Body  Statement
}

type ForOfStatement struct {
	Token token.Token
	Left  Node
	Right Expression
	Body  Statement
}

type BreakStatement struct {
	Token token.Token
	Label *Identifier // may be nil
}

type ContinueStatement struct {
	Token token.Token
	Label *Identifier // may be nil
}

type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchCase struct {
	Token      token.Token
	Test       Expression // nil for default
	Consequent []Statement
}

type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

type TryStatement struct {
	Token     token.Token
	Block     *BlockStatement
	Handler   *CatchClause    // may be nil
	Finalizer *BlockStatement // may be nil
}

type CatchClause struct {
	Token token.Token
	Param *Identifier // nil for "catch {"
	Body  *BlockStatement
}

type FunctionDeclaration struct {
	Token    token.Token
	Function *FunctionLiteral
	Exported bool
}

type ClassDeclaration struct {
	Token       token.Token
	Name        *Identifier
	Fields      []*ClassField
	Constructor *FunctionLiteral // may be nil
	Methods     []*FunctionLiteral
	Exported    bool
}

type ClassField struct {
	Name  *Identifier
	Value Expression // may be nil
}

type LabeledStatement struct {
	Token token.Token
	Label *Identifier
	Body  Statement
}

type EmptyStatement struct {
	Token token.Token
}

// ImportDeclaration is "import * as Namespace from Source".
type ImportDeclaration struct {
	Token     token.Token
	Namespace *Identifier
	Source    string
}

// ---------- Expressions ----------

type Identifier struct {
	Token token.Token
	Value string
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

type StringLiteral struct {
	Token token.Token
	Value string
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

type NullLiteral struct {
	Token token.Token
}

type UndefinedLiteral struct {
	Token token.Token
}

type ThisExpression struct {
	Token token.Token
}

// ArrayLiteral elements are nil where the source has an elision hole.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

type ObjectLiteral struct {
	Token      token.Token
	Properties []*Property
}

type Property struct {
	Key      Expression // *Identifier, *StringLiteral, *NumberLiteral or computed expression
	Value    Expression
	Computed bool
}

type Param struct {
	Name    *Identifier
	Default Expression // may be nil
}

// FunctionLiteral covers function declarations, function expressions,
// methods and arrows. Arrow bodies written as an expression are wrapped
// in a block with a single return.
type FunctionLiteral struct {
	Token  token.Token
	Name   string
	Params []*Param
	Rest   *Identifier // trailing "...name", may be nil
	Body   *BlockStatement
	Arrow  bool
}

type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

type UpdateExpression struct {
	Token    token.Token
	Operator string // "++" or "--"
	Prefix   bool
	Target   Expression
}

type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

type LogicalExpression struct {
	Token    token.Token
	Operator string // "&&", "||" or "??"
	Left     Expression
	Right    Expression
}

type AssignmentExpression struct {
	Token    token.Token
	Operator string // "=", "+=", ...
	Target   Expression
	Value    Expression
}

type ConditionalExpression struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression // *Identifier when not computed
	Computed bool
}

type NewExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

type SpreadElement struct {
	Token    token.Token
	Argument Expression
}

// Statement markers
func (s *VariableDeclaration) statementNode() {}
func (s *ExpressionStatement) statementNode() {}
func (s *BlockStatement) statementNode()      {}
func (s *ReturnStatement) statementNode()     {}
func (s *IfStatement) statementNode()         {}
func (s *WhileStatement) statementNode()      {}
func (s *DoWhileStatement) statementNode()    {}
func (s *ForStatement) statementNode()        {}
func (s *ForInStatement) statementNode()      {}
func (s *ForOfStatement) statementNode()      {}
func (s *BreakStatement) statementNode()      {}
func (s *ContinueStatement) statementNode()   {}
func (s *SwitchStatement) statementNode()     {}
func (s *ThrowStatement) statementNode()      {}
func (s *TryStatement) statementNode()        {}
func (s *FunctionDeclaration) statementNode() {}
func (s *ClassDeclaration) statementNode()    {}
func (s *LabeledStatement) statementNode()    {}
func (s *EmptyStatement) statementNode()      {}
func (s *ImportDeclaration) statementNode()   {}

// Expression markers
func (e *Identifier) expressionNode()            {}
func (e *NumberLiteral) expressionNode()         {}
func (e *StringLiteral) expressionNode()         {}
func (e *BooleanLiteral) expressionNode()        {}
func (e *NullLiteral) expressionNode()           {}
func (e *UndefinedLiteral) expressionNode()      {}
func (e *ThisExpression) expressionNode()        {}
func (e *ArrayLiteral) expressionNode()          {}
func (e *ObjectLiteral) expressionNode()         {}
func (e *FunctionLiteral) expressionNode()       {}
func (e *UnaryExpression) expressionNode()       {}
func (e *UpdateExpression) expressionNode()      {}
func (e *BinaryExpression) expressionNode()      {}
func (e *LogicalExpression) expressionNode()     {}
func (e *AssignmentExpression) expressionNode()  {}
func (e *ConditionalExpression) expressionNode() {}
func (e *CallExpression) expressionNode()        {}
func (e *MemberExpression) expressionNode()      {}
func (e *NewExpression) expressionNode()         {}
func (e *SequenceExpression) expressionNode()    {}
func (e *SpreadElement) expressionNode()         {}

func (s *VariableDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *VariableDeclarator) TokenLiteral() string  { return s.Name.Token.Literal }
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ReturnStatement) TokenLiteral() string     { return s.Token.Literal }
func (s *IfStatement) TokenLiteral() string         { return s.Token.Literal }
func (s *WhileStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *DoWhileStatement) TokenLiteral() string    { return s.Token.Literal }
func (s *ForStatement) TokenLiteral() string        { return s.Token.Literal }
func (s *ForInStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ForOfStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *BreakStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ContinueStatement) TokenLiteral() string   { return s.Token.Literal }
func (s *SwitchStatement) TokenLiteral() string     { return s.Token.Literal }
func (s *SwitchCase) TokenLiteral() string          { return s.Token.Literal }
func (s *ThrowStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *TryStatement) TokenLiteral() string        { return s.Token.Literal }
func (s *CatchClause) TokenLiteral() string         { return s.Token.Literal }
func (s *FunctionDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *ClassDeclaration) TokenLiteral() string    { return s.Token.Literal }
func (s *LabeledStatement) TokenLiteral() string    { return s.Token.Literal }
func (s *EmptyStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *ImportDeclaration) TokenLiteral() string   { return s.Token.Literal }

func (e *Identifier) TokenLiteral() string            { return e.Token.Literal }
func (e *NumberLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *StringLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *BooleanLiteral) TokenLiteral() string        { return e.Token.Literal }
func (e *NullLiteral) TokenLiteral() string           { return e.Token.Literal }
func (e *UndefinedLiteral) TokenLiteral() string      { return e.Token.Literal }
func (e *ThisExpression) TokenLiteral() string        { return e.Token.Literal }
func (e *ArrayLiteral) TokenLiteral() string          { return e.Token.Literal }
func (e *ObjectLiteral) TokenLiteral() string         { return e.Token.Literal }
func (e *FunctionLiteral) TokenLiteral() string       { return e.Token.Literal }
func (e *UnaryExpression) TokenLiteral() string       { return e.Token.Literal }
func (e *UpdateExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *BinaryExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *LogicalExpression) TokenLiteral() string     { return e.Token.Literal }
func (e *AssignmentExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *ConditionalExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) TokenLiteral() string        { return e.Token.Literal }
func (e *MemberExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *NewExpression) TokenLiteral() string         { return e.Token.Literal }
func (e *SequenceExpression) TokenLiteral() string    { return e.Token.Literal }
func (e *SpreadElement) TokenLiteral() string         { return e.Token.Literal }

func (s *VariableDeclaration) nodeType() string { return "VariableDeclaration" }
func (s *VariableDeclarator) nodeType() string  { return "VariableDeclarator" }
func (s *ExpressionStatement) nodeType() string { return "ExpressionStatement" }
func (s *BlockStatement) nodeType() string      { return "BlockStatement" }
func (s *ReturnStatement) nodeType() string     { return "ReturnStatement" }
func (s *IfStatement) nodeType() string         { return "IfStatement" }
func (s *WhileStatement) nodeType() string      { return "WhileStatement" }
func (s *DoWhileStatement) nodeType() string    { return "DoWhileStatement" }
func (s *ForStatement) nodeType() string        { return "ForStatement" }
func (s *ForInStatement) nodeType() string      { return "ForInStatement" }
func (s *ForOfStatement) nodeType() string      { return "ForOfStatement" }
func (s *BreakStatement) nodeType() string      { return "BreakStatement" }
func (s *ContinueStatement) nodeType() string   { return "ContinueStatement" }
func (s *SwitchStatement) nodeType() string     { return "SwitchStatement" }
func (s *SwitchCase) nodeType() string          { return "SwitchCase" }
func (s *ThrowStatement) nodeType() string      { return "ThrowStatement" }
func (s *TryStatement) nodeType() string        { return "TryStatement" }
func (s *CatchClause) nodeType() string         { return "CatchClause" }
func (s *FunctionDeclaration) nodeType() string { return "FunctionDeclaration" }
func (s *ClassDeclaration) nodeType() string    { return "ClassDeclaration" }
func (s *LabeledStatement) nodeType() string    { return "LabeledStatement" }
func (s *EmptyStatement) nodeType() string      { return "EmptyStatement" }
func (s *ImportDeclaration) nodeType() string   { return "ImportDeclaration" }

func (e *Identifier) nodeType() string            { return "Identifier" }
func (e *NumberLiteral) nodeType() string         { return "NumberLiteral" }
func (e *StringLiteral) nodeType() string         { return "StringLiteral" }
func (e *BooleanLiteral) nodeType() string        { return "BooleanLiteral" }
func (e *NullLiteral) nodeType() string           { return "NullLiteral" }
func (e *UndefinedLiteral) nodeType() string      { return "UndefinedLiteral" }
func (e *ThisExpression) nodeType() string        { return "ThisExpression" }
func (e *ArrayLiteral) nodeType() string          { return "ArrayLiteral" }
func (e *ObjectLiteral) nodeType() string         { return "ObjectLiteral" }
func (e *FunctionLiteral) nodeType() string       { return "FunctionLiteral" }
func (e *UnaryExpression) nodeType() string       { return "UnaryExpression" }
func (e *UpdateExpression) nodeType() string      { return "UpdateExpression" }
func (e *BinaryExpression) nodeType() string      { return "BinaryExpression" }
func (e *LogicalExpression) nodeType() string     { return "LogicalExpression" }
func (e *AssignmentExpression) nodeType() string  { return "AssignmentExpression" }
func (e *ConditionalExpression) nodeType() string { return "ConditionalExpression" }
func (e *CallExpression) nodeType() string        { return "CallExpression" }
func (e *MemberExpression) nodeType() string      { return "MemberExpression" }
func (e *NewExpression) nodeType() string         { return "NewExpression" }
func (e *SequenceExpression) nodeType() string    { return "SequenceExpression" }
func (e *SpreadElement) nodeType() string         { return "SpreadElement" }
