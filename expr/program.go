package expr

import (
	"strconv"
	"strings"
)

// Op is a postfix program opcode.
type Op int

const (
	OpLoad  Op = iota // push bit Arg of the input state
	OpConst           // push constant Arg (0 or 1)
	OpNot
	OpAnd
	OpOr
	OpXor
	OpNand
	OpNor
)

// Instr is one postfix instruction. Arg is the node bit index for OpLoad
// and the constant value for OpConst; unused otherwise.
type Instr struct {
	Op  Op
	Arg int
}

// opInfo describes one operator: its opcode, parse behavior, and pure
// evaluation function. The table is closed-world — adding an operator
// means adding a row, nothing dispatches dynamically beyond it.
type opInfo struct {
	code       Op
	prec       int
	rightAssoc bool
	unary      bool
	eval       func(a, b uint64) uint64
}

var operators = map[string]opInfo{
	"NOT":  {code: OpNot, prec: 3, rightAssoc: true, unary: true, eval: func(a, _ uint64) uint64 { return a ^ 1 }},
	"AND":  {code: OpAnd, prec: 2, eval: func(a, b uint64) uint64 { return a & b }},
	"NAND": {code: OpNand, prec: 2, eval: func(a, b uint64) uint64 { return (a & b) ^ 1 }},
	"OR":   {code: OpOr, prec: 1, eval: func(a, b uint64) uint64 { return a | b }},
	"NOR":  {code: OpNor, prec: 1, eval: func(a, b uint64) uint64 { return (a | b) ^ 1 }},
	"XOR":  {code: OpXor, prec: 1, eval: func(a, b uint64) uint64 { return a ^ b }},
}

// opEval maps opcodes back to their evaluation functions for the stack
// machine's hot loop.
var opEval = func() map[Op]func(a, b uint64) uint64 {
	m := make(map[Op]func(a, b uint64) uint64, len(operators))
	for _, info := range operators {
		m[info.code] = info.eval
	}
	return m
}()

// Program is a compiled, immutable postfix program. A program compiled for
// one node order must only run against states encoded with that order.
type Program struct {
	code   []Instr
	source string
	depth  int // maximum evaluation stack depth, fixed at compile time
}

// Source returns the expression text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Len returns the instruction count.
func (p *Program) Len() int {
	return len(p.code)
}

// Eval runs the stack machine against an encoded state and returns 0 or 1.
// Compile validates operand counts, so a compiled program cannot underflow.
func (p *Program) Eval(st uint64) uint64 {
	stack := make([]uint64, 0, p.depth)
	for _, in := range p.code {
		switch in.Op {
		case OpLoad:
			stack = append(stack, (st>>uint(in.Arg))&1)
		case OpConst:
			stack = append(stack, uint64(in.Arg))
		case OpNot:
			stack[len(stack)-1] ^= 1
		default:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = opEval[in.Op](a, b)
		}
	}
	return stack[0]
}

// String renders the program in postfix form for diagnostics.
func (p *Program) String() string {
	var sb strings.Builder
	for i, in := range p.code {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch in.Op {
		case OpLoad:
			sb.WriteString("load:")
			sb.WriteString(strconv.Itoa(in.Arg))
		case OpConst:
			if in.Arg == 0 {
				sb.WriteString("0")
			} else {
				sb.WriteString("1")
			}
		case OpNot:
			sb.WriteString("NOT")
		case OpAnd:
			sb.WriteString("AND")
		case OpOr:
			sb.WriteString("OR")
		case OpXor:
			sb.WriteString("XOR")
		case OpNand:
			sb.WriteString("NAND")
		case OpNor:
			sb.WriteString("NOR")
		}
	}
	return sb.String()
}
