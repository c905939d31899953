package tac

import (
	"strconv"
	"strings"

	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/sema"
)

// Program is the output of a Builder run: the flat instruction list plus
// the deduplicated constant pool it references (spec.md §4.4).
type Program struct {
	Instructions []Instruction
	Constants    []Constant
}

// Builder lowers an already-analyzed ast.Block into a Program. It mirrors
// original_source/src/tac.c's gen_expr/gen_binary_op/gen_unary_op dispatch,
// extended to cover the statement forms (Assignment, If, While, FunctionDef,
// Return) that spec.md §4.4 specifies but the original C proof-of-concept
// left for a later pass, plus Call (ARG per argument, then CALL) and the
// methods of a ClassDef; a class's non-method members are skipped. Match,
// For, Attribute, chained Compare, and the non-arithmetic binary operators
// %, //, **, and, or are rejected with UnsupportedFeature, the same posture
// original_source/src/tac.c takes by marking its own COMPARE case
// UNREACHABLE.
type Builder struct {
	file   string
	regs   int
	labels int
	pool   *pool
	instrs []Instruction
}

// New returns a Builder ready to lower a statement block via Build.
func New() *Builder {
	return &Builder{pool: newPool()}
}

func (b *Builder) newReg(dtype ast.DataType) Value {
	b.regs++
	return Value{ID: b.regs, Type: dtype}
}

func (b *Builder) newLabel() string {
	b.labels++
	return "L" + strconv.Itoa(b.labels)
}

func (b *Builder) emit(instr Instruction) {
	b.instrs = append(b.instrs, instr)
}

// Build lowers every top-level statement in block and returns the resulting
// Program.
func (b *Builder) Build(file string, block *ast.Block) (*Program, *diag.Error) {
	b.file = file
	if err := b.buildBlock(block); err != nil {
		return nil, err
	}
	return &Program{Instructions: b.instrs, Constants: b.pool.Entries()}, nil
}

func (b *Builder) buildBlock(block *ast.Block) *diag.Error {
	var outer *diag.Error
	block.Each(func(n *ast.Node) bool {
		if err := b.buildStmt(n); err != nil {
			outer = err
			return false
		}
		return true
	})
	return outer
}

func (b *Builder) buildStmt(n *ast.Node) *diag.Error {
	switch n.Kind {
	case ast.KAssignment:
		return b.buildAssignment(n)

	case ast.KIf:
		return b.buildIf(n)

	case ast.KWhile:
		return b.buildWhile(n)

	case ast.KFunctionDef:
		return b.buildFunctionDef(n)

	case ast.KClassDef:
		return b.buildClassDef(n)

	case ast.KReturn:
		return b.buildReturn(n)

	case ast.KExprStmt:
		if n.Value != nil {
			_, err := b.buildExpr(n.Value)
			return err
		}
		return nil

	case ast.KImport:
		return nil

	case ast.KFor:
		return diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "for-loop lowering to three-address code is not supported")

	case ast.KMatch:
		return diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "match-statement lowering to three-address code is not supported")

	default:
		return diag.Errorf(diag.Internal, b.file, n.Token, "unhandled statement kind %s in tac builder", n.Kind)
	}
}

func symbolOf(n *ast.Node) (*sema.Symbol, bool) {
	sym, ok := n.Resolved.(*sema.Symbol)
	return sym, ok
}

func (b *Builder) buildAssignment(n *ast.Node) *diag.Error {
	rhs, err := b.buildExpr(n.Value)
	if err != nil {
		return err
	}
	for _, target := range n.Targets {
		sym, ok := symbolOf(target)
		if !ok {
			return diag.Errorf(diag.Internal, b.file, target.Token, "assignment target has no resolved symbol")
		}
		b.emit(Instruction{Op: OpStore, LHS: Value{ID: sym.ID, Type: sym.DType}, RHS: rhs, Result: none})
	}
	return nil
}

func (b *Builder) buildExpr(n *ast.Node) (Value, *diag.Error) {
	switch n.Kind {
	case ast.KLiteral:
		return b.buildLiteral(n)

	case ast.KVariable:
		return b.buildVariableLoad(n)

	case ast.KBinaryOp:
		return b.buildBinaryOp(n)

	case ast.KUnaryOp:
		return b.buildUnaryOp(n)

	case ast.KCompare:
		return b.buildCompare(n)

	case ast.KCall:
		return b.buildCall(n)

	default:
		return Value{}, diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "%s lowering to three-address code is not supported", n.Kind)
	}
}

func (b *Builder) buildLiteral(n *ast.Node) (Value, *diag.Error) {
	canon, err := canonicalize(n.Type, n.Token.Lexeme)
	if err != nil {
		return Value{}, diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "%s", err.Error())
	}
	constID := b.pool.intern(n.Type, canon)
	result := b.newReg(n.Type)
	b.emit(Instruction{Op: OpConst, LHS: Value{ID: constID, Type: n.Type}, RHS: none, Result: result})
	return result, nil
}

func canonicalize(dtype ast.DataType, lexeme string) (string, error) {
	switch dtype {
	case ast.INT:
		v, err := strconv.ParseInt(strings.ReplaceAll(lexeme, "_", ""), 10, 64)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case ast.FLOAT:
		v, err := strconv.ParseFloat(strings.ReplaceAll(lexeme, "_", ""), 64)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return lexeme, nil
	}
}

func (b *Builder) buildVariableLoad(n *ast.Node) (Value, *diag.Error) {
	sym, ok := symbolOf(n)
	if !ok {
		return Value{}, diag.Errorf(diag.Internal, b.file, n.Token, "variable %q has no resolved symbol", n.Token.Lexeme)
	}
	result := b.newReg(n.Type)
	b.emit(Instruction{Op: OpLoad, LHS: Value{ID: sym.ID, Type: sym.DType}, RHS: none, Result: result})
	return result, nil
}

var arithOp = map[string]Op{"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv}

func (b *Builder) buildBinaryOp(n *ast.Node) (Value, *diag.Error) {
	op, ok := arithOp[n.Op]
	if !ok {
		return Value{}, diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "operator %q has no three-address-code lowering", n.Op)
	}
	lhs, err := b.buildExpr(n.Left)
	if err != nil {
		return Value{}, err
	}
	rhs, err := b.buildExpr(n.Right)
	if err != nil {
		return Value{}, err
	}
	result := b.newReg(n.Type)
	b.emit(Instruction{Op: op, LHS: lhs, RHS: rhs, Result: result})
	return result, nil
}

// buildUnaryOp lowers `-x` to `CONST 0; SUB 0, x -> r` and `+x` to a no-op
// (spec.md §4.4). `not` has no TAC opcode in spec.md's instruction set.
func (b *Builder) buildUnaryOp(n *ast.Node) (Value, *diag.Error) {
	switch n.Op {
	case "u+":
		return b.buildExpr(n.Left)

	case "u-":
		operand, err := b.buildExpr(n.Left)
		if err != nil {
			return Value{}, err
		}
		constID := b.pool.intern(n.Type, "0")
		zeroReg := b.newReg(n.Type)
		b.emit(Instruction{Op: OpConst, LHS: Value{ID: constID, Type: n.Type}, RHS: none, Result: zeroReg})
		result := b.newReg(n.Type)
		b.emit(Instruction{Op: OpSub, LHS: zeroReg, RHS: operand, Result: result})
		return result, nil

	default:
		return Value{}, diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "operator %q has no three-address-code lowering", n.Op)
	}
}

// buildCompare lowers a single comparison to one CMP instruction. Chained
// comparisons (more than one comparator) have no lowering: spec.md §4.4's
// instruction set has no boolean-and opcode to combine successive CMP
// results, the same gap original_source/src/tac.c leaves open by marking
// its COMPARE case unreachable.
func (b *Builder) buildCompare(n *ast.Node) (Value, *diag.Error) {
	if len(n.Comparators) != 1 {
		return Value{}, diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "chained comparisons have no three-address-code lowering")
	}
	lhs, err := b.buildExpr(n.Left)
	if err != nil {
		return Value{}, err
	}
	rhs, err := b.buildExpr(n.Comparators[0])
	if err != nil {
		return Value{}, err
	}
	result := b.newReg(ast.BOOL)
	b.emit(Instruction{Op: OpCmp, LHS: lhs, RHS: rhs, Result: result, CmpOp: n.CompareOps[0]})
	return result, nil
}

// buildCall lowers each argument to an ARG instruction (by position) ahead
// of a CALL naming the callee, extending spec.md §4.4's "for each parameter
// emit ARG index -> var_id" rule symmetrically to call sites.
func (b *Builder) buildCall(n *ast.Node) (Value, *diag.Error) {
	sym, ok := symbolOf(n.Callee)
	if !ok {
		return Value{}, diag.Errorf(diag.Internal, b.file, n.Token, "call target has no resolved symbol")
	}
	for i, arg := range n.Args {
		val, err := b.buildExpr(arg)
		if err != nil {
			return Value{}, err
		}
		b.emit(Instruction{Op: OpArg, LHS: Value{ID: i, Type: ast.INT}, RHS: val, Result: none})
	}
	result := b.newReg(n.Type)
	b.emit(Instruction{Op: OpCall, LHS: none, RHS: none, Result: result, Label: sym.Name})
	return result, nil
}

// buildIf lowers per spec.md §4.4's two control-flow rules, with or without
// an else block.
func (b *Builder) buildIf(n *ast.Node) *diag.Error {
	test, err := b.buildExpr(n.Test)
	if err != nil {
		return err
	}

	if n.OrElse == nil {
		lEnd := b.newLabel()
		b.emit(Instruction{Op: OpJz, LHS: test, RHS: none, Result: none, Label: lEnd})
		if err := b.buildBlock(n.Body); err != nil {
			return err
		}
		b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: lEnd})
		return nil
	}

	lElse := b.newLabel()
	lEnd := b.newLabel()
	b.emit(Instruction{Op: OpJz, LHS: test, RHS: none, Result: none, Label: lElse})
	if err := b.buildBlock(n.Body); err != nil {
		return err
	}
	b.emit(Instruction{Op: OpJmp, LHS: none, RHS: none, Result: none, Label: lEnd})
	b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: lElse})
	if err := b.buildBlock(n.OrElse); err != nil {
		return err
	}
	b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: lEnd})
	return nil
}

// buildWhile is a natural extension of spec.md §4.4's If lowering to a
// loop: spec.md does not spell out While's lowering explicitly, but gives
// no alternative convention either, so the standard test-at-top form is
// used: `LABEL L_start; test; JZ L_end; body; JMP L_start; LABEL L_end`.
func (b *Builder) buildWhile(n *ast.Node) *diag.Error {
	if n.OrElse != nil {
		return diag.Errorf(diag.UnsupportedFeature, b.file, n.Token, "while-else has no three-address-code lowering")
	}
	lStart := b.newLabel()
	lEnd := b.newLabel()
	b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: lStart})
	test, err := b.buildExpr(n.Test)
	if err != nil {
		return err
	}
	b.emit(Instruction{Op: OpJz, LHS: test, RHS: none, Result: none, Label: lEnd})
	if err := b.buildBlock(n.Body); err != nil {
		return err
	}
	b.emit(Instruction{Op: OpJmp, LHS: none, RHS: none, Result: none, Label: lStart})
	b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: lEnd})
	return nil
}

// buildFunctionDef emits `LABEL name`, one ARG per parameter, the body, and
// an implicit RETURN (spec.md §4.4).
func (b *Builder) buildFunctionDef(n *ast.Node) *diag.Error {
	b.emit(Instruction{Op: OpLabel, LHS: none, RHS: none, Result: none, Label: n.Name})
	for i, param := range n.Params {
		sym, ok := symbolOf(param)
		if !ok {
			return diag.Errorf(diag.Internal, b.file, param.Token, "parameter %q has no resolved symbol", param.Token.Lexeme)
		}
		b.emit(Instruction{Op: OpArg, LHS: Value{ID: i, Type: ast.INT}, RHS: Value{ID: sym.ID, Type: sym.DType}, Result: none})
	}
	if err := b.buildBlock(n.Body); err != nil {
		return err
	}
	b.emit(Instruction{Op: OpReturn, LHS: none, RHS: none, Result: none})
	return nil
}

// buildClassDef lowers only the class's methods: spec.md §4.4 gives no TAC
// layout for instance fields (struct layout is an emitter-only concern,
// §4.5), so non-FunctionDef class members are skipped here.
func (b *Builder) buildClassDef(n *ast.Node) *diag.Error {
	var outer *diag.Error
	n.Body.Each(func(member *ast.Node) bool {
		if member.Kind != ast.KFunctionDef {
			return true
		}
		if err := b.buildFunctionDef(member); err != nil {
			outer = err
			return false
		}
		return true
	})
	return outer
}

func (b *Builder) buildReturn(n *ast.Node) *diag.Error {
	if n.Value == nil {
		b.emit(Instruction{Op: OpReturn, LHS: none, RHS: none, Result: none})
		return nil
	}
	val, err := b.buildExpr(n.Value)
	if err != nil {
		return err
	}
	b.emit(Instruction{Op: OpReturn, LHS: val, RHS: none, Result: none})
	return nil
}
