// Command anchorc compiles Anchor source to LLVM IR, optionally driving it
// through clang to produce a native binary, and offers an interactive REPL
// for quick experiments.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/anchorlang/anchor/pkg"
)

var (
	errColor  = color.New(color.FgRed)
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
)

func main() {
	var (
		outName = flag.String("o", "", "build a native binary at this path via clang instead of printing IR")
		target  = flag.String("target", "x86_64-unknown-linux", "clang target triple (arch-vendor-os) used with -o")
		repl    = flag.Bool("repl", false, "start an interactive REPL instead of compiling a file")
	)
	flag.Parse()

	if *repl {
		startRepl()
		return
	}

	t, err := parseTarget(*target)
	if err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	c := anchor.NewCompiler(t)

	var result anchor.Result
	if *outName != "" {
		f := openSource()
		defer f.Close()
		result, err = c.Build(f, *outName)
	} else if flag.NArg() == 1 {
		result, err = c.CompileFile(flag.Arg(0))
	} else {
		result, err = c.Compile(os.Stdin)
	}

	if err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !result.OK() {
		for _, e := range result.Errs {
			errColor.Fprintln(os.Stderr, e)
		}
		os.Exit(1)
	}

	if *outName != "" {
		okColor.Fprintf(os.Stdout, "wrote %s\n", *outName)
		return
	}

	fmt.Println(result.IR)
}

func openSource() *os.File {
	if flag.NArg() != 1 {
		infoColor.Fprintln(os.Stderr, "reading source from stdin")
		return os.Stdin
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		errColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return f
}

func parseTarget(triple string) (anchor.Target, error) {
	arch, vendor, osName, err := splitTriple(triple)
	if err != nil {
		return anchor.Target{}, err
	}

	return anchor.Target{Arch: anchor.Arch(arch), Vendor: anchor.Vendor(vendor), OS: anchor.OS(osName)}, nil
}

// splitTriple parses an arch-vendor-os clang target triple.
func splitTriple(triple string) (arch, vendor, osName string, err error) {
	parts := make([]string, 0, 3)
	start := 0
	for i := 0; i < len(triple); i++ {
		if triple[i] == '-' {
			parts = append(parts, triple[start:i])
			start = i + 1
		}
	}
	parts = append(parts, triple[start:])

	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("anchorc: invalid target triple %q, want arch-vendor-os", triple)
	}

	return parts[0], parts[1], parts[2], nil
}
