package anchor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compile(t *testing.T, source string) Result {
	t.Helper()

	c := NewCompiler(Target{Arch: X86_64, Vendor: Unknown, OS: Linux})
	result, err := c.Compile(strings.NewReader(source))
	assert.NoError(t, err)

	return result
}

func TestCompileHelloWorld(t *testing.T) {
	result := compile(t, `function integer main() { print("Hello, World!"); return 0; };`)

	assert.True(t, result.OK())
	assert.Contains(t, result.IR, "@main")
	assert.Contains(t, result.IR, "declare")
	assert.Contains(t, result.IR, "call")

	// The format string printf is called with must be exactly "%s", with no
	// trailing newline, or the runtime would print "Hello, World!\n" instead
	// of the expected "Hello, World!".
	assert.Contains(t, result.IR, `c"%s\00"`)
	assert.NotContains(t, result.IR, `%s\0A`)
}

func TestCompileArithmetic(t *testing.T) {
	result := compile(t, `function integer main() { print(5 + 3); return 0; };`)

	assert.True(t, result.OK())
	assert.Contains(t, result.IR, "add")

	// Likewise "%d" must carry no trailing newline: the boundary scenario
	// for `print(5 + 3)` expects the output "8", not "8\n".
	assert.Contains(t, result.IR, `c"%d\00"`)
	assert.NotContains(t, result.IR, `%d\0A`)
}

func TestCompileIfWithEarlyReturnIsNotOverwritten(t *testing.T) {
	source := `function integer main(){ if (1 < 2) { return 1; }; return 0; };`
	result := compile(t, source)

	assert.True(t, result.OK())
	// Both returns must survive: the then-block's `ret i32 1` must not be
	// clobbered by the unconditional branch that follows the if statement.
	assert.Contains(t, result.IR, "ret i32 1")
	assert.Contains(t, result.IR, "ret i32 0")
}

func TestCompileWhileLoop(t *testing.T) {
	source := `function integer main(){ integer a; a = 0; while (a < 3){ print(a); a = a + 1; }; return 0; };`
	result := compile(t, source)

	assert.True(t, result.OK())
	assert.Contains(t, result.IR, "icmp")
	assert.Contains(t, result.IR, "br")
}

func TestCompileStringConcatenation(t *testing.T) {
	source := `function void main(){ string a; a = "2"; string b; b = "3"; string c; c = a + b; string d; d = c + "4"; print(d); };`
	result := compile(t, source)

	assert.True(t, result.OK())
	assert.Contains(t, result.IR, "@malloc")
	assert.Contains(t, result.IR, "@memcpy")
}

func TestCompileTypeError(t *testing.T) {
	source := `function void main(){ string a; a = "3"; integer b; b = 2; print(a + b); };`
	result := compile(t, source)

	assert.False(t, result.OK())
	assert.Len(t, result.Errs, 1)
	assert.Equal(t, "", result.IR)
	assert.Contains(t, result.Errs[0].Message, "Type Error")
}

func TestCompileUnterminatedStringIsALexError(t *testing.T) {
	_, err := NewCompiler(Target{}).Compile(strings.NewReader(`function void main(){ print("oops); };`))
	assert.Error(t, err)
}
