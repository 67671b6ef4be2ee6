package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMismatchedParens = errors.New("expr: mismatched parentheses")
	ErrMalformed        = errors.New("expr: malformed expression")
	ErrUnknownIdent     = errors.New("expr: unknown identifier")
	ErrBadRule          = errors.New("expr: rule must have the form \"TARGET = EXPRESSION\"")
)

// Resolver maps an identifier to a node bit index. Implementations match
// case-insensitively against node ids and labels.
type Resolver func(name string) (int, bool)

// SplitRule splits a "TARGET = EXPRESSION" rule string on the first '='.
func SplitRule(rule string) (target, expression string, err error) {
	eq := strings.IndexByte(rule, '=')
	if eq < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrBadRule, rule)
	}
	target = strings.TrimSpace(rule[:eq])
	expression = strings.TrimSpace(rule[eq+1:])
	if target == "" || expression == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRule, rule)
	}
	return target, expression, nil
}

// Compile parses a boolean expression into a postfix program using
// shunting-yard operator-precedence conversion. NOT binds tightest and is
// right-associative; AND/NAND bind above OR/NOR/XOR; the binary operators
// are left-associative. Identifiers are resolved through the supplied
// resolver; an unresolved identifier, mismatched parenthesis, or malformed
// operand arrangement is a compile error naming the offender.
func Compile(expression string, resolve Resolver) (*Program, error) {
	tokens, err := Tokenize(expression)
	if err != nil {
		return nil, err
	}

	var code []Instr
	var stack []string // operator names and "("

	popOp := func(name string) {
		code = append(code, Instr{Op: operators[name].code})
	}

	for _, tok := range tokens {
		switch tok.Type {
		case TokenIdent:
			idx, ok := resolve(tok.Literal)
			if !ok {
				return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownIdent, tok.Literal, tok.Pos)
			}
			code = append(code, Instr{Op: OpLoad, Arg: idx})

		case TokenConst:
			arg := 0
			if tok.Literal == "1" {
				arg = 1
			}
			code = append(code, Instr{Op: OpConst, Arg: arg})

		case TokenOp:
			cur := operators[tok.Literal]
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top == "(" {
					break
				}
				ti := operators[top]
				if ti.prec > cur.prec || (ti.prec == cur.prec && !cur.rightAssoc) {
					stack = stack[:len(stack)-1]
					popOp(top)
					continue
				}
				break
			}
			stack = append(stack, tok.Literal)

		case TokenLParen:
			stack = append(stack, "(")

		case TokenRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top == "(" {
					matched = true
					break
				}
				popOp(top)
			}
			if !matched {
				return nil, fmt.Errorf("%w: unexpected ')' at position %d", ErrMismatchedParens, tok.Pos)
			}

		case TokenEOF:
			// handled after the loop
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top == "(" {
			return nil, fmt.Errorf("%w: unclosed '(' in %q", ErrMismatchedParens, expression)
		}
		popOp(top)
	}

	depth, err := validate(code, expression)
	if err != nil {
		return nil, err
	}

	return &Program{code: code, source: expression, depth: depth}, nil
}

// validate simulates evaluation stack depth so Eval never underflows and
// always leaves exactly one result. Returns the maximum depth reached.
func validate(code []Instr, source string) (int, error) {
	depth, maxDepth := 0, 0
	for _, in := range code {
		switch in.Op {
		case OpLoad, OpConst:
			depth++
		case OpNot:
			if depth < 1 {
				return 0, fmt.Errorf("%w: operator NOT is missing an operand in %q", ErrMalformed, source)
			}
		default:
			if depth < 2 {
				return 0, fmt.Errorf("%w: binary operator is missing an operand in %q", ErrMalformed, source)
			}
			depth--
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	if depth != 1 {
		return 0, fmt.Errorf("%w: expression %q does not reduce to a single value", ErrMalformed, source)
	}
	return maxDepth, nil
}
