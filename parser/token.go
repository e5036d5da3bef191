package parser

import (
	"fmt"
	"go/token"
)

// Token is the kind of a lexical token.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	NUMBER // 123

	ADD    // +
	SUB    // -
	MUL    // *
	QUO    // /
	REM    // %
	ASSIGN // =
	LSS    // <
	GTR    // >
	LEQ    // <=
	GEQ    // >=
	EQL    // ==
	NEQ    // !=
	LAND   // &&
	LOR    // ||
	NOT    // !
	INPUT  // ?

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;

	keywordBeg
	PRINT
	IF
	ELSE
	WHILE
	keywordEnd
)

var tokens = [...]string{
	ILLEGAL: "stray token",
	EOF:     "end of file",

	IDENT:  "identifier",
	NUMBER: "number",

	ADD:    "'+'",
	SUB:    "'-'",
	MUL:    "'*'",
	QUO:    "'/'",
	REM:    "'%'",
	ASSIGN: "'='",
	LSS:    "'<'",
	GTR:    "'>'",
	LEQ:    "'<='",
	GEQ:    "'>='",
	EQL:    "'=='",
	NEQ:    "'!='",
	LAND:   "'&&'",
	LOR:    "'||'",
	NOT:    "'!'",
	INPUT:  "'?'",

	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	SEMICOLON: "';'",

	PRINT: "'print'",
	IF:    "'if'",
	ELSE:  "'else'",
	WHILE: "'while'",
}

// String returns the name used in diagnostics, e.g. "';'" or "identifier".
func (tok Token) String() string {
	if 0 <= tok && int(tok) < len(tokens) && tokens[tok] != "" {
		return tokens[tok]
	}
	return fmt.Sprintf("token(%d)", int(tok))
}

var keywords map[string]Token

func init() {
	keywords = make(map[string]Token, keywordEnd-keywordBeg)
	for i := keywordBeg + 1; i < keywordEnd; i++ {
		name := tokens[i]
		keywords[name[1:len(name)-1]] = i
	}
}

// Lookup maps an identifier to its keyword token, or IDENT.
func Lookup(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Precedence returns the binary operator precedence of tok, or 0.
func (tok Token) Precedence() int {
	switch tok {
	case LOR:
		return 1
	case LAND:
		return 2
	case EQL, NEQ:
		return 3
	case LSS, GTR, LEQ, GEQ:
		return 4
	case ADD, SUB:
		return 5
	case MUL, QUO, REM:
		return 6
	}
	return 0
}

var operators = map[Token]token.Token{
	ADD:  token.ADD,
	SUB:  token.SUB,
	MUL:  token.MUL,
	QUO:  token.QUO,
	REM:  token.REM,
	LSS:  token.LSS,
	GTR:  token.GTR,
	LEQ:  token.LEQ,
	GEQ:  token.GEQ,
	EQL:  token.EQL,
	NEQ:  token.NEQ,
	LAND: token.LAND,
	LOR:  token.LOR,
	NOT:  token.NOT,
}

// Operator returns the operator used by the tree for tok.
func (tok Token) Operator() token.Token {
	if op, ok := operators[tok]; ok {
		return op
	}
	return token.ILLEGAL
}
