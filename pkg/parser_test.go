package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustLex(t *testing.T, source string) []Token {
	t.Helper()
	toks, err := NewLexerFromString(source).Lex()
	assert.NoError(t, err)
	return toks
}

func TestParserHelloWorld(t *testing.T) {
	program := NewParser(mustLex(t, `function integer main() { print("Hello, World!"); return 0; };`)).Parse()

	assert.True(t, program.IsSyntacticallyCorrect())
	assert.Len(t, program.Stmts, 1)

	fn, ok := program.Stmts[0].(*FunctionDecl)
	assert.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, INTEGER, fn.ReturnType)
	assert.Len(t, fn.Body, 2)

	print, ok := fn.Body[0].(*PrintStmt)
	assert.True(t, ok)
	lit, ok := print.Expr.(*StringLiteral)
	assert.True(t, ok)
	assert.Equal(t, "Hello, World!", lit.Value)

	ret, ok := fn.Body[1].(*ReturnStmt)
	assert.True(t, ok)
	num, ok := ret.Expr.(*IntegerLiteral)
	assert.True(t, ok)
	assert.Equal(t, int64(0), num.Value)
}

func TestParserVariableRoundTrip(t *testing.T) {
	source := `function integer main(){ integer a; a = 5; integer b; b = 4; print(a + b); return 0; };`
	program := NewParser(mustLex(t, source)).Parse()

	assert.True(t, program.IsSyntacticallyCorrect())

	fn := program.Stmts[0].(*FunctionDecl)
	assert.Len(t, fn.Body, 6)

	printStmt := fn.Body[4].(*PrintStmt)
	sum := printStmt.Expr.(*BinaryOp)
	assert.Equal(t, ADD, sum.Operation)
	assert.Equal(t, INTEGER, sum.Typ)
}

func TestParserWhileLoop(t *testing.T) {
	source := `function integer main(){ integer a; a = 0; while (a < 3){ print(a); a = a + 1; }; return 0; };`
	program := NewParser(mustLex(t, source)).Parse()

	assert.True(t, program.IsSyntacticallyCorrect())

	fn := program.Stmts[0].(*FunctionDecl)
	loop, ok := fn.Body[2].(*WhileStmt)
	assert.True(t, ok)
	assert.Len(t, loop.Body, 2)

	cond := loop.Condition.(*BinaryOp)
	assert.Equal(t, LT, cond.Operation)
	assert.Equal(t, BOOLEAN, cond.Typ)
}

func TestParserStringConcatenation(t *testing.T) {
	source := `function void main(){ string a; a = "2"; string b; b = "3"; string c; c = a + b; string d; d = c + "4"; print(d); };`
	program := NewParser(mustLex(t, source)).Parse()

	assert.True(t, program.IsSyntacticallyCorrect())

	fn := program.Stmts[0].(*FunctionDecl)
	cAssign := fn.Body[5].(*ExprStmt).Expr.(*VarAssign)
	concat := cAssign.Rhs.(*BinaryOp)
	assert.Equal(t, ADD, concat.Operation)
	assert.Equal(t, STRING, concat.Typ)
}

func TestParserTypeErrorReporting(t *testing.T) {
	source := `function void main(){ string a; a = "3"; integer b; b = 2; print(a + b); };`
	program := NewParser(mustLex(t, source)).Parse()

	assert.False(t, program.IsSyntacticallyCorrect())
	assert.Len(t, program.Errors, 1)
	assert.Contains(t, program.Errors[0].Message, "Type Error")
	assert.Contains(t, program.Errors[0].Message, "STRING on left")
	assert.Contains(t, program.Errors[0].Message, "INTEGER on right")
}

func TestParserErrorRecovery(t *testing.T) {
	source := "function void foo() {\n" +
		"    print\"Hello World!\");\n" +
		"    print(\"Hello World!\");\n" +
		"};"

	program := NewParser(mustLex(t, source)).Parse()

	assert.False(t, program.IsSyntacticallyCorrect())
	assert.Len(t, program.Errors, 1)
	assert.Contains(t, program.Errors[0].Message, "Expected: LEFT_PAREN")

	fn := program.Stmts[0].(*FunctionDecl)
	assert.Len(t, fn.Body, 2)

	_, firstIsBad := fn.Body[0].(*BadStmt)
	assert.True(t, firstIsBad)

	_, secondIsPrint := fn.Body[1].(*PrintStmt)
	assert.True(t, secondIsPrint)
}

func TestParserScopeShadowing(t *testing.T) {
	source := `function integer main(){ integer a; a = 1; if (a < 5) { integer a; a = 9; print(a); }; print(a); return a; };`
	program := NewParser(mustLex(t, source)).Parse()

	assert.True(t, program.IsSyntacticallyCorrect())
}

func TestParserRightAssociativity(t *testing.T) {
	// `1 - 2 - 3` groups as `1 - (2 - 3)`; the parser never climbs precedence.
	program := NewParser(mustLex(t, `function integer main(){ return 1 - 2 - 3; };`)).Parse()
	assert.True(t, program.IsSyntacticallyCorrect())

	fn := program.Stmts[0].(*FunctionDecl)
	ret := fn.Body[0].(*ReturnStmt)
	outer := ret.Expr.(*BinaryOp)
	assert.Equal(t, SUB, outer.Operation)
	assert.Equal(t, int64(1), outer.Left.(*IntegerLiteral).Value)

	inner := outer.Right.(*BinaryOp)
	assert.Equal(t, SUB, inner.Operation)
	assert.Equal(t, int64(2), inner.Left.(*IntegerLiteral).Value)
	assert.Equal(t, int64(3), inner.Right.(*IntegerLiteral).Value)
}
