package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/gtscript/token"
)

type Lexer struct {
	input   string
	pos     int // offset of ch
	readPos int // offset after ch
	ch      rune
	line    int
	col     int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.readPos++
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += size
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// skipTrivia consumes whitespace and comments and reports whether a line
// break was among them.
func (l *Lexer) skipTrivia() bool {
	newline := false
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			newline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\uFEFF':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !l.atEOF() && !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == '\n' {
					newline = true
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return newline
		}
	}
	return newline
}

// operators is ordered so that longer spellings are tried first.
var operators = []struct {
	text string
	typ  token.TokenType
}{
	{">>>=", token.UnsignedRightShiftAssign},
	{"===", token.StrictEqual},
	{"!==", token.StrictNotEqual},
	{">>>", token.UnsignedRightShift},
	{"<<=", token.LeftShiftAssign},
	{">>=", token.RightShiftAssign},
	{"...", token.Spread},
	{"==", token.Equal},
	{"!=", token.NotEqual},
	{"<=", token.LessThanOrEqual},
	{">=", token.GreaterThanOrEqual},
	{"&&", token.And},
	{"||", token.Or},
	{"??", token.Nullish},
	{"++", token.Increment},
	{"--", token.Decrement},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.AsteriskAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpersandAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"<<", token.LeftShift},
	{">>", token.RightShift},
	{"=>", token.Arrow},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Asterisk},
	{"/", token.Slash},
	{"%", token.Percent},
	{"=", token.Assign},
	{"<", token.LessThan},
	{">", token.GreaterThan},
	{"!", token.Not},
	{"&", token.BitwiseAnd},
	{"|", token.BitwiseOr},
	{"^", token.BitwiseXor},
	{"~", token.BitwiseNot},
	{"?", token.Question},
	{":", token.Colon},
	{"(", token.LeftParen},
	{")", token.RightParen},
	{"{", token.LeftBrace},
	{"}", token.RightBrace},
	{"[", token.LeftBracket},
	{"]", token.RightBracket},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
}

func (l *Lexer) NextToken() token.Token {
	newline := l.skipTrivia()
	tok := l.scan()
	tok.NewlineBefore = newline
	return tok
}

func (l *Lexer) scan() token.Token {
	line, col := l.line, l.col
	if l.atEOF() {
		return token.Token{Type: token.EOF, Line: line, Column: col}
	}

	switch {
	case isIdentStart(l.ch):
		return l.readIdentifier(line, col)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(line, col)
	case l.ch == '"' || l.ch == '\'':
		return l.readString(line, col)
	}

	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			for range op.text {
				l.readChar()
			}
			return token.Token{Type: op.typ, Literal: op.text, Line: line, Column: col}
		}
	}

	ch := l.ch
	l.readChar()
	return token.Token{Type: token.Illegal, Literal: string(ch), Line: line, Column: col}
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	return token.Token{Type: token.LookupIdentifier(word), Literal: word, Line: line, Column: col}
}

// readNumber keeps the source spelling, separators included. The parser
// converts it with ParseNumber.
func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.pos
	if l.ch == '0' && strings.ContainsRune("xXoObB", l.peekChar()) {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return token.Token{Type: token.Number, Literal: l.input[start:l.pos], Line: line, Column: col}
	}
	l.readDigits()
	if l.ch == '.' && (isDigit(l.peekChar()) || start == l.pos) {
		l.readChar()
		l.readDigits()
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.readDigits()
	}
	return token.Token{Type: token.Number, Literal: l.input[start:l.pos], Line: line, Column: col}
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
}

// ParseNumber converts a number literal as produced by the lexer.
func ParseNumber(lit string) (float64, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	if len(clean) > 2 && clean[0] == '0' {
		base := 0
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(clean[2:], base, 64)
			return float64(n), err
		}
	}
	return strconv.ParseFloat(clean, 64)
}

func (l *Lexer) readString(line, col int) token.Token {
	quote := l.ch
	l.readChar()
	var b strings.Builder
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			return token.Token{Type: token.Illegal, Literal: "unterminated string", Line: line, Column: col}
		case l.ch == quote:
			l.readChar()
			return token.Token{Type: token.String, Literal: b.String(), Line: line, Column: col}
		case l.ch == '\\':
			l.readChar()
			l.readEscape(&b)
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readEscape(b *strings.Builder) {
	ch := l.ch
	l.readChar()
	switch ch {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		b.WriteRune(rune(l.readHex(2)))
	case 'u':
		if l.ch == '{' {
			l.readChar()
			n := 0
			for isHexDigit(l.ch) {
				n = n*16 + hexVal(l.ch)
				l.readChar()
			}
			if l.ch == '}' {
				l.readChar()
			}
			b.WriteRune(rune(n))
			return
		}
		b.WriteRune(rune(l.readHex(4)))
	default:
		b.WriteRune(ch)
	}
}

func (l *Lexer) readHex(n int) int {
	v := 0
	for i := 0; i < n && isHexDigit(l.ch); i++ {
		v = v*16 + hexVal(l.ch)
		l.readChar()
	}
	return v
}

// Tokenize lexes the whole input, EOF included.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func hexVal(ch rune) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 10
	}
	return 0
}
