package emit

import (
	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/token"
)

// varSubst is the scrutinee-to-temporary substitution a Match guard applies
// to its free variables (original_source/src/codegen.c's VarSubst):
// wherever a Variable node's lexeme equals From, To is emitted in its place
// instead of the variable's normal load codegen.
type varSubst struct {
	from string
	to   string
}

func (e *Emitter) emitExpr(n *ast.Node, subst *varSubst) *diag.Error {
	switch n.Kind {
	case ast.KLiteral:
		return e.emitLiteral(n)
	case ast.KVariable:
		return e.emitVariable(n, subst)
	case ast.KBinaryOp:
		return e.emitBinaryOp(n, subst)
	case ast.KUnaryOp:
		return e.emitUnaryOp(n, subst)
	case ast.KCompare:
		return e.emitCompare(n, subst)
	case ast.KCall:
		return e.emitCall(n, subst)
	case ast.KAttribute:
		return e.emitAttribute(n, subst)
	default:
		return diag.Errorf(diag.UnsupportedFeature, e.file, n.Token, "%s has no source emission", n.Kind)
	}
}

func (e *Emitter) emitLiteral(n *ast.Node) *diag.Error {
	if n.Token.Kind == token.STRING {
		e.out.Appendf("\"%s\"", n.Token.Lexeme)
		return nil
	}
	e.out.AppendString(literalText(n))
	return nil
}

// emitVariable mirrors gen_expr's VARIABLE case, simplified to spec.md
// §4.5's stated rule exactly: a variable's type is spelled out only at its
// first declaration (decl_node == this_variable); every other reference —
// including self parameters, which original_source/src/codegen.c's
// `|| var_sym->base_class` clause would redeclare the type of on every use —
// is a bare name.
func (e *Emitter) emitVariable(n *ast.Node, subst *varSubst) *diag.Error {
	if subst != nil && n.Token.Lexeme == subst.from {
		e.out.AppendString(subst.to)
		return nil
	}
	sym, ok := symbolOf(n)
	if !ok {
		return diag.Errorf(diag.Internal, e.file, n.Token, "variable %q has no resolved symbol", n.Token.Lexeme)
	}
	if n.VarContext == ast.STORE && sym.DeclNode == n {
		e.out.Appendf("%s %s", ctype(n), n.Token.Lexeme)
		return nil
	}
	e.out.AppendString(n.Token.Lexeme)
	return nil
}

func (e *Emitter) emitBinaryOp(n *ast.Node, subst *varSubst) *diag.Error {
	cop, ok := cOp(n.Op)
	if !ok {
		return diag.Errorf(diag.UnsupportedFeature, e.file, n.Token, "operator %q has no source emission", n.Op)
	}
	current := infixPrecedence[n.Op]

	if nodePrecedence(n.Left) < current {
		e.out.AppendString("(")
		if err := e.emitExpr(n.Left, subst); err != nil {
			return err
		}
		e.out.AppendString(")")
	} else if err := e.emitExpr(n.Left, subst); err != nil {
		return err
	}

	e.out.Appendf(" %s ", cop)

	if nodePrecedence(n.Right) <= current {
		e.out.AppendString("(")
		if err := e.emitExpr(n.Right, subst); err != nil {
			return err
		}
		e.out.AppendString(")")
	} else if err := e.emitExpr(n.Right, subst); err != nil {
		return err
	}
	return nil
}

// emitUnaryOp: original_source/src/codegen.c's gen_expr/gen_code never
// actually handles UNARY_OPERATION (neither switch has a case for it, so it
// falls through to the "not implemented" fatal); spec.md §4.5's operator
// table names `not->!` explicitly, so this is supplemented here rather than
// left broken.
func (e *Emitter) emitUnaryOp(n *ast.Node, subst *varSubst) *diag.Error {
	var cop string
	switch n.Op {
	case "u-":
		cop = "-"
	case "u+":
		cop = "+"
	case "not":
		cop = "!"
	default:
		return diag.Errorf(diag.UnsupportedFeature, e.file, n.Token, "unary operator %q has no source emission", n.Op)
	}
	e.out.AppendString(cop)
	if nodePrecedence(n.Left) < precUnary {
		e.out.AppendString("(")
		if err := e.emitExpr(n.Left, subst); err != nil {
			return err
		}
		e.out.AppendString(")")
		return nil
	}
	return e.emitExpr(n.Left, subst)
}

// emitCompare mirrors gen_expr's COMPARE case: a chained comparison becomes
// a parenthesized `&&`-joined run reusing each middle operand textually.
func (e *Emitter) emitCompare(n *ast.Node, subst *varSubst) *diag.Error {
	chained := len(n.Comparators) > 1
	if chained {
		e.out.AppendString("(")
	}

	left := n.Left
	for i, comparator := range n.Comparators {
		if i > 0 {
			e.out.AppendString(" && ")
		}
		if err := e.emitExpr(left, subst); err != nil {
			return err
		}
		op := n.CompareOps[i]
		if op == "is" {
			op = "=="
		}
		e.out.Appendf(" %s ", op)
		if err := e.emitExpr(comparator, subst); err != nil {
			return err
		}
		left = comparator
	}

	if chained {
		e.out.AppendString(")")
	}
	return nil
}

func (e *Emitter) emitCall(n *ast.Node, subst *varSubst) *diag.Error {
	e.out.Appendf("%s(", n.Callee.Token.Lexeme)
	for i, arg := range n.Args {
		if err := e.emitExpr(arg, subst); err != nil {
			return err
		}
		if i != len(n.Args)-1 {
			e.out.AppendString(", ")
		}
	}
	e.out.AppendString(")")
	return nil
}

// emitAttribute mirrors resolve_attribute_owner, reimplemented directly off
// the object's resolved Symbol.BaseClass (the class backing its OBJECT
// type) rather than an enclosing-class scope walk: n.Object.Resolved
// already carries everything sema needed to make the same decision.
func (e *Emitter) emitAttribute(n *ast.Node, subst *varSubst) *diag.Error {
	if err := e.emitExpr(n.Object, subst); err != nil {
		return err
	}
	if attributeOwnedByBase(n) {
		e.out.Appendf("->base->%s", n.Attr)
	} else {
		e.out.Appendf("->%s", n.Attr)
	}
	return nil
}

func attributeOwnedByBase(n *ast.Node) bool {
	objSym, ok := symbolOf(n.Object)
	if !ok || objSym.BaseClass == nil {
		return false
	}
	class := objSym.BaseClass
	if class.Scope != nil {
		if _, ok := class.Scope.LookupLocal(n.Attr); ok {
			return false
		}
	}
	if class.BaseClass != nil && class.BaseClass.Scope != nil {
		if _, ok := class.BaseClass.Scope.LookupLocal(n.Attr); ok {
			return true
		}
	}
	return false
}
