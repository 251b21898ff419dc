// Package buildgen implements the `build` command's code generator,
// emitting LLVM IR (via github.com/llir/llvm) for the integer subset
// of a program reachable without Area branching. The generator bails
// out with an error on anything it can't express as straight-line
// LLVM IR, since a full interpreter-in-IR is out of scope here.
package buildgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/program"
)

// Generate translates a branch-free sequence of Push/Add/Mul
// instructions operating entirely on one stack into an LLVM module
// whose `main` function computes the final top-of-stack value (as a
// 64-bit integer) and returns it as the process exit status. It
// accepts either instruction flavor, so `build -O1`/`-O2` can hand it
// an optimized stream.
func Generate[C program.Code](instrs []C) (*ir.Module, error) {
	m := ir.NewModule()
	mainFunc := m.NewFunc("main", types.I32)
	block := mainFunc.NewBlock("entry")

	var stack []value64
	for _, in := range instrs {
		if in.AreaTree() != nil {
			return nil, hyeongerrors.New(hyeongerrors.ParseError,
				"build: branching Area is not representable in straight-line IR")
		}
		switch in.Opcode() {
		case program.OpPush:
			v := int64(in.Hangul()) * int64(in.Dot())
			stack = append(stack, value64{constant.NewInt(types.I64, v)})
		case program.OpAdd, program.OpMul:
			if len(stack) < in.Hangul() {
				return nil, hyeongerrors.New(hyeongerrors.ParseError,
					"build: instruction pops more values than are statically on the stack")
			}
			operands := stack[len(stack)-in.Hangul():]
			stack = stack[:len(stack)-in.Hangul()]
			acc := operands[0].v
			for _, o := range operands[1:] {
				if in.Opcode() == program.OpAdd {
					acc = block.NewAdd(acc, o.v)
				} else {
					acc = block.NewMul(acc, o.v)
				}
			}
			stack = append(stack, value64{acc})
		default:
			return nil, hyeongerrors.New(hyeongerrors.ParseError,
				fmt.Sprintf("build: opcode %s is not representable in straight-line IR", in.Opcode()))
		}
	}

	var result value.Value = constant.NewInt(types.I64, 0)
	if len(stack) > 0 {
		result = stack[len(stack)-1].v
	}
	truncated := block.NewTrunc(result, types.I32)
	block.NewRet(truncated)
	return m, nil
}

// value64 wraps the value.Value a stack slot holds; a full Instruction
// stack carries arbitrary-precision Numbers, but this generator only
// carries the 64-bit integers it can represent as LLVM constants/
// instructions.
type value64 struct{ v value.Value }
