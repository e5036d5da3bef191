package parser

import (
	"go/token"
	"unicode/utf8"
)

type item struct {
	pos token.Pos
	tok Token
	lit string
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

var twoCharOps = map[string]Token{
	"<=": LEQ,
	">=": GEQ,
	"==": EQL,
	"!=": NEQ,
	"&&": LAND,
	"||": LOR,
}

var oneCharOps = map[byte]Token{
	'+': ADD,
	'-': SUB,
	'*': MUL,
	'/': QUO,
	'%': REM,
	'=': ASSIGN,
	'<': LSS,
	'>': GTR,
	'!': NOT,
	'?': INPUT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMICOLON,
}

// scan splits src into tokens. The result always ends with EOF.
// Characters outside the language become ILLEGAL tokens; the parser reports them.
func scan(file *token.File, src []byte) []item {
	var items []item
	i := 0
	for {
		for i < len(src) {
			c := src[i]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				i++
				continue
			}
			if c == '/' && i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
				continue
			}
			break
		}
		if i >= len(src) {
			return append(items, item{pos: file.Pos(len(src)), tok: EOF})
		}

		start := i
		c := src[i]
		switch {
		case isLetter(c):
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			lit := string(src[start:i])
			items = append(items, item{pos: file.Pos(start), tok: Lookup(lit), lit: lit})
		case isDigit(c):
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			items = append(items, item{pos: file.Pos(start), tok: NUMBER, lit: string(src[start:i])})
		default:
			if i+1 < len(src) {
				if tok, ok := twoCharOps[string(src[i:i+2])]; ok {
					i += 2
					items = append(items, item{pos: file.Pos(start), tok: tok, lit: string(src[start:i])})
					continue
				}
			}
			if tok, ok := oneCharOps[c]; ok {
				i++
				items = append(items, item{pos: file.Pos(start), tok: tok, lit: string(c)})
				continue
			}
			_, size := utf8.DecodeRune(src[i:])
			i += size
			items = append(items, item{pos: file.Pos(start), tok: ILLEGAL, lit: string(src[start:i])})
		}
	}
}
