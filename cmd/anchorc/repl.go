package main

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/anchorlang/anchor/pkg"
)

const (
	replPrompt = "anchor> "
	replBanner = "Anchor REPL — one function declaration per block, blank line to compile, \"exit\" to quit."
)

var replColor = color.New(color.FgYellow)

// startRepl accumulates source lines until a blank line, compiles the
// buffered block, and prints its IR dump or diagnostics in color before
// resetting the buffer for the next block.
func startRepl() {
	infoColor.Println(replBanner)

	rl, err := readline.New(replPrompt)
	if err != nil {
		errColor.Println(err)
		return
	}
	defer rl.Close()

	c := anchor.NewCompiler(anchor.Target{Arch: anchor.X86_64, Vendor: anchor.Unknown, OS: anchor.Linux})

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			infoColor.Println("goodbye")
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			infoColor.Println("goodbye")
			return
		}

		if trimmed == "" {
			runRepl(c, buf.String())
			buf.Reset()
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		rl.SaveHistory(line)
	}
}

func runRepl(c *anchor.Compiler, source string) {
	if strings.TrimSpace(source) == "" {
		return
	}

	result, err := c.Compile(strings.NewReader(source))
	if err != nil {
		errColor.Println(err)
		return
	}

	if !result.OK() {
		for _, e := range result.Errs {
			errColor.Println(e)
		}
		return
	}

	replColor.Println(result.IR)
}
