package anchor

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Arch, Vendor and OS identify a native compilation target for the optional
// clang build step.
type Arch string
type Vendor string
type OS string

const (
	X86_64 Arch = "x86_64"

	Unknown Vendor = "unknown"

	Windows OS = "windows64"
	Linux   OS = "linux"
	Darwin  OS = "darwin"
)

// Target is a clang-compatible target triple.
type Target struct {
	Arch   Arch
	Vendor Vendor
	OS     OS
}

func (t Target) String() string {
	return fmt.Sprintf("%s-%s-%s", t.Arch, t.Vendor, t.OS)
}

// Result is the outcome of compiling one source unit: either a textual IR
// dump, or a non-empty set of diagnostics if the source had syntax or type
// errors.
type Result struct {
	IR   string
	Errs []ErrorLog
}

// OK reports whether compilation produced IR rather than diagnostics.
func (r Result) OK() bool {
	return len(r.Errs) == 0
}

// Compiler runs the full Lex -> Parse -> CodeGen pipeline over a source
// reader, and optionally drives that IR through an external clang invocation
// to produce a native binary.
type Compiler struct {
	target Target
}

// NewCompiler creates a Compiler for the given native target. The target
// only matters if Build is called; Compile alone never shells out.
func NewCompiler(target Target) *Compiler {
	return &Compiler{target: target}
}

// Compile lexes, parses and, if the source is free of diagnostics, generates
// IR for r. A lex error aborts immediately (it is not a recoverable source
// diagnostic, unlike a parse error); parse/type diagnostics are returned in
// Result.Errs without generating IR.
func (c *Compiler) Compile(r io.Reader) (Result, error) {
	tokens, err := NewLexer(r).Lex()
	if err != nil {
		return Result{}, err
	}

	program := NewParser(tokens).Parse()
	if !program.IsSyntacticallyCorrect() {
		return Result{Errs: program.Errors}, nil
	}

	mod, err := NewCodeGen().Generate(program)
	if err != nil {
		return Result{}, err
	}

	return Result{IR: mod.String()}, nil
}

// CompileFile opens filename and delegates to Compile.
func (c *Compiler) CompileFile(filename string) (Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	return c.Compile(f)
}

// Build compiles r to IR and, if it is free of diagnostics, pipes that IR
// into `clang -x ir --target=<target> -o <outName> -`, concurrently writing
// the IR to clang's stdin and draining its combined output, exactly the way
// generated IR is normally handed off to a native toolchain.
func (c *Compiler) Build(r io.Reader, outName string) (Result, error) {
	result, err := c.Compile(r)
	if err != nil || !result.OK() {
		return result, err
	}

	if c.target.OS == Windows {
		outName += ".exe"
	}

	cmd := exec.Command("clang",
		"-x", "ir",
		"--target="+c.target.String(),
		"-o", outName,
		"-",
	)

	pr, pw := io.Pipe()
	cmd.Stdin = pr

	group := errgroup.Group{}
	group.Go(func() error {
		if _, err := pw.Write([]byte(result.IR)); err != nil {
			return err
		}

		return pw.Close()
	})

	group.Go(func() error {
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("clang: %w: %s", err, out)
		}

		return nil
	})

	return result, group.Wait()
}
