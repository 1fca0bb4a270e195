// ABOUTME: Tokenizer for the Boolean rule language used in node update rules.
// ABOUTME: Handles identifiers, true/false literals, word operators (AND/OR/XOR/NAND/NOR), !, parentheses, and =.
package boolnet

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token in a rule.
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenIdentifier           // node id
	TokenBoolean              // true or false
	TokenAnd                  // AND
	TokenOr                   // OR
	TokenXor                  // XOR
	TokenNand                 // NAND
	TokenNor                  // NOR
	TokenNot                  // !
	TokenLParen               // (
	TokenRParen               // )
	TokenEquals               // =
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenBoolean:
		return "BOOLEAN"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenXor:
		return "XOR"
	case TokenNand:
		return "NAND"
	case TokenNor:
		return "NOR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenEquals:
		return "EQUALS"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token represents a single lexical token with its type, value, and column.
type Token struct {
	Type  TokenType
	Value string
	Col   int // 1-based rune offset within the rule text
}

// lexer holds the state of the rule scanner.
type lexer struct {
	input  []rune
	pos    int
	tokens []Token
}

// lexRule tokenizes a single rule string. Identifiers are case-sensitive;
// only the exact words AND, OR, XOR, NAND, NOR are operators and only the
// exact words true and false are literals. Any other word is an identifier.
func lexRule(input string) ([]Token, error) {
	l := &lexer{
		input:  []rune(input),
		tokens: make([]Token, 0, 16),
	}

	if err := l.scan(); err != nil {
		return nil, err
	}

	return l.tokens, nil
}

// scan processes all characters in the input and produces tokens.
func (l *lexer) scan() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if unicode.IsSpace(ch) {
			l.pos++
			continue
		}

		if ch == '_' || unicode.IsLetter(ch) {
			l.lexWord()
			continue
		}

		switch ch {
		case '!':
			l.emit(TokenNot, "!")
		case '(':
			l.emit(TokenLParen, "(")
		case ')':
			l.emit(TokenRParen, ")")
		case '=':
			l.emit(TokenEquals, "=")
		default:
			return fmt.Errorf("unexpected character %q at column %d", string(ch), l.pos+1)
		}
		l.pos++
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Col: l.pos + 1})
	return nil
}

// emit adds a token for the character at the current position.
func (l *lexer) emit(typ TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Col: l.pos + 1})
}

// lexWord reads an identifier, operator keyword, or boolean literal.
func (l *lexer) lexWord() {
	startCol := l.pos + 1
	var sb strings.Builder

	for l.pos < len(l.input) && (l.input[l.pos] == '_' || unicode.IsLetter(l.input[l.pos]) || unicode.IsDigit(l.input[l.pos])) {
		sb.WriteRune(l.input[l.pos])
		l.pos++
	}

	word := sb.String()

	// Operator and literal keywords are matched exactly; anything else,
	// including lowercase "and" or capitalized "True", is an identifier.
	var typ TokenType
	switch word {
	case "AND":
		typ = TokenAnd
	case "OR":
		typ = TokenOr
	case "XOR":
		typ = TokenXor
	case "NAND":
		typ = TokenNand
	case "NOR":
		typ = TokenNor
	case "true", "false":
		typ = TokenBoolean
	default:
		typ = TokenIdentifier
	}

	l.tokens = append(l.tokens, Token{Type: typ, Value: word, Col: startCol})
}
