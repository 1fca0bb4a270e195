// ABOUTME: Recursive descent parser turning one rule into a target node and an expression tree.
// ABOUTME: Precedence from tightest to loosest: ! then AND/NAND then XOR then OR/NOR, all left-associative.
package boolnet

import "fmt"

// parser holds the state of a single rule parse.
type parser struct {
	rule   string
	tokens []Token
	pos    int
	known  map[string]int
}

// ParseRule compiles a rule of the form "<nodeId> = <expression>". known
// maps every declared node id to its index; a rule naming any id outside
// that set fails with UnknownReferenceError, and every syntax fault fails
// with ParseError.
func ParseRule(rule string, known map[string]int) (string, Expr, error) {
	tokens, err := lexRule(rule)
	if err != nil {
		return "", nil, &ParseError{Rule: rule, Reason: err.Error()}
	}

	target, err := ruleTarget(rule, tokens)
	if err != nil {
		return "", nil, err
	}
	if _, ok := known[target]; !ok {
		return "", nil, &UnknownReferenceError{Rule: rule, NodeID: target}
	}

	p := &parser{
		rule:   rule,
		tokens: tokens,
		pos:    2, // past "<id> ="
		known:  known,
	}

	expr, err := p.parseExpression()
	if err != nil {
		return "", nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return "", nil, p.errorf(tok.Col, "unexpected %v (%q) after expression", tok.Type, tok.Value)
	}

	return target, expr, nil
}

// ruleTarget validates the shape around the = separator and returns the
// target node id. The rule must contain exactly one =, preceded by exactly
// one identifier and followed by at least one token.
func ruleTarget(rule string, tokens []Token) (string, error) {
	equals := 0
	for _, tok := range tokens {
		if tok.Type == TokenEquals {
			equals++
		}
	}
	if equals == 0 {
		return "", &ParseError{Rule: rule, Reason: "missing '=' separator"}
	}
	if equals > 1 {
		return "", &ParseError{Rule: rule, Reason: "more than one '=' separator"}
	}

	if tokens[0].Type == TokenEquals {
		return "", &ParseError{Rule: rule, Reason: "empty left-hand side", Col: tokens[0].Col}
	}
	if tokens[0].Type != TokenIdentifier || tokens[1].Type != TokenEquals {
		return "", &ParseError{Rule: rule, Reason: "left-hand side must be a single node id", Col: tokens[0].Col}
	}
	if tokens[2].Type == TokenEOF {
		return "", &ParseError{Rule: rule, Reason: "missing expression after '='", Col: tokens[2].Col}
	}

	return tokens[0].Value, nil
}

// current returns the token at the current position.
func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves past the current token and returns it.
func (p *parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// errorf builds a ParseError positioned at the given column.
func (p *parser) errorf(col int, format string, args ...any) error {
	return &ParseError{
		Rule:   p.rule,
		Reason: fmt.Sprintf(format, args...),
		Col:    col,
	}
}

// parseExpression parses the loosest precedence level.
func (p *parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

// parseOr handles OR and NOR, left-associative.
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}

	for {
		var kind BinaryKind
		switch p.current().Type {
		case TokenOr:
			kind = OpOr
		case TokenNor:
			kind = OpNor
		default:
			return left, nil
		}
		p.advance()

		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = Binary{Kind: kind, Left: left, Right: right}
	}
}

// parseXor handles XOR, left-associative.
func (p *parser) parseXor() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenXor {
		p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Binary{Kind: OpXor, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd handles AND and NAND, left-associative.
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var kind BinaryKind
		switch p.current().Type {
		case TokenAnd:
			kind = OpAnd
		case TokenNand:
			kind = OpNand
		default:
			return left, nil
		}
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Binary{Kind: kind, Left: left, Right: right}
	}
}

// parseUnary handles ! prefixes, which bind tighter than any binary
// operator and may stack.
func (p *parser) parseUnary() (Expr, error) {
	if p.current().Type == TokenNot {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, node references, and parenthesized
// expressions.
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()

	switch tok.Type {
	case TokenBoolean:
		p.advance()
		return Literal{Value: tok.Value == "true"}, nil

	case TokenIdentifier:
		p.advance()
		idx, ok := p.known[tok.Value]
		if !ok {
			return nil, &UnknownReferenceError{Rule: p.rule, NodeID: tok.Value}
		}
		return Variable{Index: idx, ID: tok.Value}, nil

	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if closing := p.current(); closing.Type != TokenRParen {
			return nil, p.errorf(closing.Col, "expected ')' but got %v (%q)", closing.Type, closing.Value)
		}
		p.advance()
		return expr, nil

	case TokenEOF:
		return nil, p.errorf(tok.Col, "expression ends with a dangling operator")

	case TokenAnd, TokenOr, TokenXor, TokenNand, TokenNor:
		return nil, p.errorf(tok.Col, "operator %v has no left operand", tok.Type)

	default:
		return nil, p.errorf(tok.Col, "unexpected %v (%q) in expression", tok.Type, tok.Value)
	}
}
