package anchor

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/anchorlang/anchor/pkg/irgen"
)

// CodeGen walks a syntactically-correct Program and drives an irgen.IRBuilder
// to produce one LLVM IR module. It assumes the parser has already resolved
// every expression's type and rejects any Program carrying diagnostics.
type CodeGen struct {
	b     *irgen.IRBuilder
	funcs map[string]*ir.Func
}

// NewCodeGen creates a CodeGen over a fresh IR module.
func NewCodeGen() *CodeGen {
	return &CodeGen{b: irgen.NewIRBuilder(), funcs: make(map[string]*ir.Func)}
}

// Generate emits one IR module for p. Top-level statements are interpreted
// as function declarations; anything else at the top level is rejected,
// mirroring the grammar's intended restriction even though the dispatch
// table itself accepts any statement.
func (c *CodeGen) Generate(p *Program) (*ir.Module, error) {
	var decls []*FunctionDecl
	for _, stmt := range p.Stmts {
		fn, ok := stmt.(*FunctionDecl)
		if !ok {
			return nil, fmt.Errorf("anchor: top-level statement is not a function declaration: %T", stmt)
		}
		decls = append(decls, fn)
	}

	// Declare every function's signature up front so mutually-referencing
	// calls resolve regardless of declaration order.
	for _, fn := range decls {
		paramNames := make([]string, len(fn.Args))
		paramTypes := make([]irgen.SourceType, len(fn.Args))
		for i, a := range fn.Args {
			paramNames[i] = a.Name
			paramTypes[i] = irType(a.Typ)
		}

		c.funcs[fn.Name] = c.b.DeclareFunction(fn.Name, paramNames, paramTypes, irType(fn.ReturnType))
	}

	for _, fn := range decls {
		c.function(fn)
	}

	return c.b.Module(), nil
}

func irType(t Type) irgen.SourceType {
	switch t {
	case INTEGER:
		return irgen.TypeInteger
	case STRING:
		return irgen.TypeString
	case BOOLEAN:
		return irgen.TypeBoolean
	default:
		return irgen.TypeVoid
	}
}

// function emits one FunctionDecl's body: save the insertion point, open
// the entry block, emit every statement, then restore.
func (c *CodeGen) function(fn *FunctionDecl) {
	f, ok := c.funcs[fn.Name]
	if !ok {
		panic("anchor: undeclared function: " + fn.Name)
	}

	prevFn, prevBlock, prevValues := c.b.BeginFunction(f)
	defer c.b.EndFunction(prevFn, prevBlock, prevValues)

	for _, stmt := range fn.Body {
		c.statement(stmt)
	}
}

func (c *CodeGen) statement(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		c.b.DeclareVar(s.Name, irType(s.Typ))
	case *ExprStmt:
		c.expr(s.Expr)
	case *ReturnStmt:
		c.b.Ret(c.expr(s.Expr))
	case *PrintStmt:
		v := c.expr(s.Expr)
		c.b.Print(irType(s.Expr.ReturnType()), v)
	case *IfStmt:
		c.ifStmt(s)
	case *WhileStmt:
		c.whileStmt(s)
	case *FunctionDecl:
		// The parser accepts a function declaration in any statement
		// position; a nested one is declared here on first sight and
		// emitted as its own top-level function.
		if _, ok := c.funcs[s.Name]; !ok {
			names := make([]string, len(s.Args))
			types := make([]irgen.SourceType, len(s.Args))
			for i, a := range s.Args {
				names[i], types[i] = a.Name, irType(a.Typ)
			}
			c.funcs[s.Name] = c.b.DeclareFunction(s.Name, names, types, irType(s.ReturnType))
		}
		c.function(s)
	case *BadStmt:
		// A BadStmt only ever appears in a Program that also carries a
		// diagnostic; Generate's caller is expected to check
		// Program.IsSyntacticallyCorrect before code generation.
	default:
		panic(fmt.Sprintf("anchor: codegen: unhandled statement %T", stmt))
	}
}

func (c *CodeGen) ifStmt(s *IfStmt) {
	cond := c.expr(s.Condition)

	then := c.b.NewBlock("if.then")
	end := c.b.NewBlock("if.end")

	c.b.CondBr(cond, then, end)

	c.b.SetBlock(then)
	for _, stmt := range s.Body {
		c.statement(stmt)
	}
	c.b.BrIfOpen(end)

	c.b.SetBlock(end)
}

func (c *CodeGen) whileStmt(s *WhileStmt) {
	head := c.b.NewBlock("while.head")
	body := c.b.NewBlock("while.body")
	end := c.b.NewBlock("while.end")

	c.b.Br(head)

	c.b.SetBlock(head)
	cond := c.expr(s.Condition)
	c.b.CondBr(cond, body, end)

	c.b.SetBlock(body)
	for _, stmt := range s.Body {
		c.statement(stmt)
	}
	c.b.BrIfOpen(head)

	c.b.SetBlock(end)
}

func (c *CodeGen) expr(e Expr) value.Value {
	switch ex := e.(type) {
	case *IntegerLiteral:
		return c.b.IntLiteral(ex.Value)
	case *BooleanLiteral:
		return c.b.BoolLiteral(ex.Value)
	case *StringLiteral:
		return c.b.StringLiteral(ex.Value)
	case *VarRef:
		return c.b.Load(ex.Name, irType(ex.Typ))
	case *VarAssign:
		v := c.expr(ex.Rhs)
		c.b.Store(ex.Name, v)
		return v
	case *FunctionCall:
		args := make([]value.Value, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = c.expr(a)
		}
		return c.b.Call(ex.Name, args)
	case *BinaryOp:
		return c.binaryOp(ex)
	default:
		panic(fmt.Sprintf("anchor: codegen: unhandled expression %T", e))
	}
}

func (c *CodeGen) binaryOp(b *BinaryOp) value.Value {
	left := c.expr(b.Left)
	right := c.expr(b.Right)

	if b.Operation == ADD && b.Typ == STRING {
		return c.b.Concat(left, right)
	}

	switch b.Operation {
	case ADD:
		return c.b.Arith(irgen.OpAdd, left, right)
	case SUB:
		return c.b.Arith(irgen.OpSub, left, right)
	case MUL:
		return c.b.Arith(irgen.OpMul, left, right)
	case LT:
		return c.b.Arith(irgen.OpLT, left, right)
	case GT:
		return c.b.Arith(irgen.OpGT, left, right)
	case EQ:
		return c.b.Arith(irgen.OpEQ, left, right)
	default:
		panic(fmt.Sprintf("anchor: codegen: unhandled binary operator %v", b.Operation))
	}
}
