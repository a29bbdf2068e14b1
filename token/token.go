package token

import "fmt"

type TokenType int

const (
	Illegal TokenType = iota
	EOF
	Identifier
	Number
	String

	// Operators
	Plus
	Minus
	Asterisk
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	AsteriskAssign
	SlashAssign
	PercentAssign
	AmpersandAssign
	PipeAssign
	CaretAssign
	LeftShiftAssign
	RightShiftAssign
	UnsignedRightShiftAssign
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Nullish
	Not
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	LeftShift
	RightShift
	UnsignedRightShift
	Increment
	Decrement
	Arrow
	Question
	Colon
	Spread

	// Delimiters
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Comma
	Dot

	// Keywords
	Var
	Let
	Const
	Function
	Return
	If
	Else
	For
	In
	While
	Do
	Break
	Continue
	Switch
	Case
	Default
	Throw
	Try
	Catch
	Finally
	New
	This
	Typeof
	Void
	Class
	Import
	Export
	True
	False
	Null
	Undefined
)

// Token is one lexeme. NewlineBefore records whether a line break separated
// it from the previous token, which drives semicolon insertion.
type Token struct {
	Type          TokenType
	Literal       string
	Line          int
	Column        int
	NewlineBefore bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Literal, t.Line, t.Column)
}

var Keywords = map[string]TokenType{
	"var":       Var,
	"let":       Let,
	"const":     Const,
	"function":  Function,
	"return":    Return,
	"if":        If,
	"else":      Else,
	"for":       For,
	"in":        In,
	"while":     While,
	"do":        Do,
	"break":     Break,
	"continue":  Continue,
	"switch":    Switch,
	"case":      Case,
	"default":   Default,
	"throw":     Throw,
	"try":       Try,
	"catch":     Catch,
	"finally":   Finally,
	"new":       New,
	"this":      This,
	"typeof":    Typeof,
	"void":      Void,
	"class":     Class,
	"import":    Import,
	"export":    Export,
	"true":      True,
	"false":     False,
	"null":      Null,
	"undefined": Undefined,
}

// LookupIdentifier maps reserved words to their token type. Contextual
// words such as "of", "from" and "as" stay identifiers.
func LookupIdentifier(ident string) TokenType {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return Identifier
}

var names = map[TokenType]string{
	Illegal:                  "ILLEGAL",
	EOF:                      "EOF",
	Identifier:               "identifier",
	Number:                   "number",
	String:                   "string",
	Plus:                     "+",
	Minus:                    "-",
	Asterisk:                 "*",
	Slash:                    "/",
	Percent:                  "%",
	Assign:                   "=",
	PlusAssign:               "+=",
	MinusAssign:              "-=",
	AsteriskAssign:           "*=",
	SlashAssign:              "/=",
	PercentAssign:            "%=",
	AmpersandAssign:          "&=",
	PipeAssign:               "|=",
	CaretAssign:              "^=",
	LeftShiftAssign:          "<<=",
	RightShiftAssign:         ">>=",
	UnsignedRightShiftAssign: ">>>=",
	Equal:                    "==",
	NotEqual:                 "!=",
	StrictEqual:              "===",
	StrictNotEqual:           "!==",
	LessThan:                 "<",
	GreaterThan:              ">",
	LessThanOrEqual:          "<=",
	GreaterThanOrEqual:       ">=",
	And:                      "&&",
	Or:                       "||",
	Nullish:                  "??",
	Not:                      "!",
	BitwiseAnd:               "&",
	BitwiseOr:                "|",
	BitwiseXor:               "^",
	BitwiseNot:               "~",
	LeftShift:                "<<",
	RightShift:               ">>",
	UnsignedRightShift:       ">>>",
	Increment:                "++",
	Decrement:                "--",
	Arrow:                    "=>",
	Question:                 "?",
	Colon:                    ":",
	Spread:                   "...",
	LeftParen:                "(",
	RightParen:               ")",
	LeftBrace:                "{",
	RightBrace:               "}",
	LeftBracket:              "[",
	RightBracket:             "]",
	Semicolon:                ";",
	Comma:                    ",",
	Dot:                      ".",
}

func (t TokenType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	for word, tt := range Keywords {
		if tt == t {
			return word
		}
	}
	return fmt.Sprintf("token(%d)", int(t))
}
